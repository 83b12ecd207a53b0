package jwt

import (
	"errors"
	"sync"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const TokenTypeAccess = "access"

var ErrMalformedClaims = errors.New("token claims are malformed")

type Service interface {
	GenerateAccessToken(s auth.Session) (token string, expiresAt int64, err error)
	SessionFromClaims(token string, claims map[string]interface{}) (auth.Session, error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string, expiresAt int64)
	IsTokenRevoked(token string) bool
	// PurgeRevoked forgets revoked tokens that have expired anyway.
	PurgeRevoked(now time.Time) int
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64
	mu                        sync.RWMutex
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
	}
}

// GenerateAccessToken issues the desk's own token. The upstream token rides
// along as a claim so each request can call the backend on the admin's behalf.
func (j *JWTService) GenerateAccessToken(s auth.Session) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":        s.UserID,
		"email":          s.Email,
		"role":           string(s.Role),
		"team_type":      s.Scope.TeamType,
		"shift":          s.Scope.Shift,
		"upstream_token": s.UpstreamToken,
		"type":           TokenTypeAccess,
		"exp":            expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

func (j *JWTService) SessionFromClaims(token string, claims map[string]interface{}) (auth.Session, error) {
	if t, _ := claims["type"].(string); t != TokenTypeAccess {
		return auth.Session{}, ErrMalformedClaims
	}
	upstreamToken, _ := claims["upstream_token"].(string)
	if upstreamToken == "" {
		return auth.Session{}, ErrMalformedClaims
	}
	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	teamType, _ := claims["team_type"].(string)
	shift, _ := claims["shift"].(string)

	return auth.Session{
		AccessToken:   token,
		UpstreamToken: upstreamToken,
		ExpiresAt:     expiry(claims["exp"]),
		UserID:        userID,
		Email:         email,
		Role:          auth.Role(role),
		Scope:         auth.Scope{TeamType: teamType, Shift: shift},
	}, nil
}

func (j *JWTService) RevokeToken(token string, expiresAt int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.revokedTokens[token] = expiresAt
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	_, revoked := j.revokedTokens[token]
	return revoked
}

func (j *JWTService) PurgeRevoked(now time.Time) int {
	j.mu.Lock()
	defer j.mu.Unlock()

	purged := 0
	for token, exp := range j.revokedTokens {
		if exp > 0 && exp < now.Unix() {
			delete(j.revokedTokens, token)
			purged++
		}
	}
	return purged
}

// expiry reads the exp claim, which decodes as time.Time from a parsed token
// and as a number from a raw claims map.
func expiry(v interface{}) int64 {
	switch exp := v.(type) {
	case time.Time:
		return exp.Unix()
	case int64:
		return exp
	case float64:
		return int64(exp)
	default:
		return 0
	}
}
