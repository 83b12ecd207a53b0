package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
)

// SessionCache is anything holding per-session state that must be dropped
// when the session ends.
type SessionCache interface {
	Forget(sessionKey string)
}

type AuthServiceImpl struct {
	authRepo   auth.AuthRepository
	jwtService jwt.Service
	caches     []SessionCache
}

func NewAuthService(authRepo auth.AuthRepository, jwtService jwt.Service, caches ...SessionCache) auth.AuthService {
	return &AuthServiceImpl{
		authRepo:   authRepo,
		jwtService: jwtService,
		caches:     caches,
	}
}

// Login exchanges credentials for an upstream token, reads the admin behind
// it and wraps both into the desk's own access token.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	login, err := s.authRepo.Login(ctx, req.Email, req.Password)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	sess := auth.Session{
		UpstreamToken: login.Token,
		Email:         req.Email,
		Role:          login.Role,
		Scope:         login.Scope,
	}

	id, err := s.authRepo.Me(upstream.WithToken(ctx, login.Token))
	if err != nil {
		return auth.TokenResponse{}, err
	}
	sess.UserID = id.UserID
	if id.Email != "" {
		sess.Email = id.Email
	}
	if id.Role != "" {
		sess.Role = id.Role
		sess.Scope = id.Scope
	}
	if sess.Role != auth.RoleSuper && sess.Role != auth.RoleAdmin {
		return auth.TokenResponse{}, fmt.Errorf("%w: unknown role %q", auth.ErrInvalidCredentials, sess.Role)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(sess)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to issue access token: %w", err)
	}

	slog.Info("Admin logged in", "user_id", sess.UserID, "role", sess.Role)
	return auth.TokenResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		Role:        sess.Role,
		Scope:       sess.Scope,
	}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}
	s.end(sess)
	slog.Info("Admin logged out", "user_id", sess.UserID)
	return nil
}

func (s *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, err
	}
	_, lock := sess.Constrain(employee.Filter{})
	return auth.MeResponse{
		UserID: sess.UserID,
		Email:  sess.Email,
		Role:   sess.Role,
		Scope:  sess.Scope,
		Lock:   lock,
	}, nil
}

func (s *AuthServiceImpl) HasSuper(ctx context.Context) (auth.HasSuperResponse, error) {
	has, err := s.authRepo.HasSuper(ctx)
	if err != nil {
		return auth.HasSuperResponse{}, err
	}
	return auth.HasSuperResponse{HasSuper: has}, nil
}

func (s *AuthServiceImpl) SetupSuper(ctx context.Context, req auth.SetupSuperRequest) error {
	has, err := s.authRepo.HasSuper(ctx)
	if err != nil {
		return err
	}
	if has {
		return auth.ErrSuperExists
	}
	if err := s.authRepo.SetupSuper(ctx, req.Email, req.Password); err != nil {
		return err
	}
	slog.Info("Super admin created", "email", req.Email)
	return nil
}

// Expire is called when the backend rejects a session's upstream token.
func (s *AuthServiceImpl) Expire(ctx context.Context, sess auth.Session) {
	if sess.AccessToken == "" || s.jwtService.IsTokenRevoked(sess.AccessToken) {
		return
	}
	s.end(sess)
	slog.Warn("Session expired upstream", "user_id", sess.UserID)
}

func (s *AuthServiceImpl) end(sess auth.Session) {
	s.jwtService.RevokeToken(sess.AccessToken, sess.ExpiresAt)
	for _, c := range s.caches {
		c.Forget(sess.SessionKey())
	}
}
