package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

type fakeAuthRepo struct {
	hasSuper   bool
	setupCalls int
	meToken    string
}

func (f *fakeAuthRepo) Login(ctx context.Context, email, password string) (auth.UpstreamLogin, error) {
	if password != "password123" {
		return auth.UpstreamLogin{}, auth.ErrInvalidCredentials
	}
	return auth.UpstreamLogin{Token: "up-" + email, Role: auth.RoleAdmin, Scope: auth.Scope{TeamType: "FTE"}}, nil
}

func (f *fakeAuthRepo) Me(ctx context.Context) (auth.Identity, error) {
	f.meToken = upstream.TokenFromContext(ctx)
	return auth.Identity{UserID: "u1", Email: "admin@example.com", Role: auth.RoleAdmin, Scope: auth.Scope{TeamType: "FTE", Shift: "Day Shift"}}, nil
}

func (f *fakeAuthRepo) HasSuper(ctx context.Context) (bool, error) {
	return f.hasSuper, nil
}

func (f *fakeAuthRepo) SetupSuper(ctx context.Context, email, password string) error {
	f.setupCalls++
	f.hasSuper = true
	return nil
}

type recordingCache struct {
	forgotten []string
}

func (r *recordingCache) Forget(key string) {
	r.forgotten = append(r.forgotten, key)
}

func sessionFromToken(t *testing.T, svc jwt.Service, token string) auth.Session {
	t.Helper()
	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	sess, err := svc.SessionFromClaims(token, claims)
	require.NoError(t, err)
	return sess
}

func TestLogin(t *testing.T) {
	repo := &fakeAuthRepo{}
	jwtSvc := jwt.NewJWTService(testSecret, "1h")
	svc := NewAuthService(repo, jwtSvc)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, auth.RoleAdmin, resp.Role)
	assert.Equal(t, "Day Shift", resp.Scope.Shift, "the /me answer wins over the login payload")
	assert.Equal(t, "up-admin@example.com", repo.meToken)

	sess := sessionFromToken(t, jwtSvc, resp.AccessToken)
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, "up-admin@example.com", sess.UpstreamToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, jwt.NewJWTService(testSecret, "1h"))
	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogoutRevokesAndForgets(t *testing.T) {
	jwtSvc := jwt.NewJWTService(testSecret, "1h")
	cache := &recordingCache{}
	svc := NewAuthService(&fakeAuthRepo{}, jwtSvc, cache)

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Email: "admin@example.com", Password: "password123"})
	require.NoError(t, err)
	sess := sessionFromToken(t, jwtSvc, resp.AccessToken)

	require.NoError(t, svc.Logout(auth.WithSession(context.Background(), sess)))
	assert.True(t, jwtSvc.IsTokenRevoked(resp.AccessToken))
	assert.Equal(t, []string{resp.AccessToken}, cache.forgotten)

	assert.ErrorIs(t, svc.Logout(context.Background()), auth.ErrNoSession)
}

func TestExpire_OnlyOnce(t *testing.T) {
	jwtSvc := jwt.NewJWTService(testSecret, "1h")
	cache := &recordingCache{}
	svc := NewAuthService(&fakeAuthRepo{}, jwtSvc, cache)

	sess := auth.Session{AccessToken: "tok", UserID: "u1"}
	svc.Expire(context.Background(), sess)
	svc.Expire(context.Background(), sess)
	assert.True(t, jwtSvc.IsTokenRevoked("tok"))
	assert.Len(t, cache.forgotten, 1)

	svc.Expire(context.Background(), auth.Session{})
	assert.Len(t, cache.forgotten, 1)
}

func TestMe(t *testing.T) {
	svc := NewAuthService(&fakeAuthRepo{}, jwt.NewJWTService(testSecret, "1h"))
	ctx := auth.WithSession(context.Background(), auth.Session{
		UserID: "u1",
		Role:   auth.RoleAdmin,
		Scope:  auth.Scope{Shift: "Night Shift"},
	})

	me, err := svc.Me(ctx)
	require.NoError(t, err)
	assert.True(t, me.Lock.Shift)
	assert.False(t, me.Lock.TeamType)
}

func TestSetupSuper(t *testing.T) {
	repo := &fakeAuthRepo{}
	svc := NewAuthService(repo, jwt.NewJWTService(testSecret, "1h"))
	ctx := context.Background()

	has, err := svc.HasSuper(ctx)
	require.NoError(t, err)
	assert.False(t, has.HasSuper)

	require.NoError(t, svc.SetupSuper(ctx, auth.SetupSuperRequest{Email: "root@example.com", Password: "x"}))
	assert.ErrorIs(t, svc.SetupSuper(ctx, auth.SetupSuperRequest{Email: "again@example.com", Password: "x"}), auth.ErrSuperExists)
	assert.Equal(t, 1, repo.setupCalls)
}
