package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
)

type scopeDoc struct {
	TeamType string `json:"teamType"`
	Shift    string `json:"shift"`
}

type loginDoc struct {
	Token string   `json:"token"`
	Role  string   `json:"role"`
	Scope scopeDoc `json:"scope"`
}

type credentialsBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authRepositoryImpl struct {
	client *upstream.Client
}

func NewAuthRepository(client *upstream.Client) auth.AuthRepository {
	return &authRepositoryImpl{client: client}
}

// Login implements auth.AuthRepository. It never sends a bearer token, so
// a 401 here means bad credentials rather than an expired session.
func (r *authRepositoryImpl) Login(ctx context.Context, email, password string) (auth.UpstreamLogin, error) {
	ctx = upstream.WithToken(ctx, "")

	var out loginDoc
	if err := r.client.Post(ctx, "/auth/login", credentialsBody{Email: email, Password: password}, &out); err != nil {
		return auth.UpstreamLogin{}, err
	}
	if out.Token == "" {
		return auth.UpstreamLogin{}, auth.ErrInvalidCredentials
	}
	return auth.UpstreamLogin{
		Token: out.Token,
		Role:  auth.Role(out.Role),
		Scope: auth.Scope{TeamType: out.Scope.TeamType, Shift: out.Scope.Shift},
	}, nil
}

// Me implements auth.AuthRepository.
func (r *authRepositoryImpl) Me(ctx context.Context) (auth.Identity, error) {
	var out adminDoc
	if err := r.client.Get(ctx, "/auth/me", nil, &out); err != nil {
		return auth.Identity{}, fmt.Errorf("failed to load current admin: %w", err)
	}
	return auth.Identity{
		UserID: out.ID,
		Email:  out.Email,
		Role:   auth.Role(out.Role),
		Scope:  auth.Scope{TeamType: out.AllowedTeamType, Shift: out.AllowedShift},
	}, nil
}

// HasSuper implements auth.AuthRepository.
func (r *authRepositoryImpl) HasSuper(ctx context.Context) (bool, error) {
	var out struct {
		HasSuper bool `json:"hasSuper"`
	}
	if err := r.client.Get(upstream.WithToken(ctx, ""), "/auth/has-super", nil, &out); err != nil {
		return false, fmt.Errorf("failed to check for super admin: %w", err)
	}
	return out.HasSuper, nil
}

// SetupSuper implements auth.AuthRepository.
func (r *authRepositoryImpl) SetupSuper(ctx context.Context, email, password string) error {
	var out struct {
		OK bool `json:"ok"`
	}
	err := r.client.Post(upstream.WithToken(ctx, ""), "/auth/setup-super", credentialsBody{Email: email, Password: password}, &out)
	if err != nil {
		if apiErr, ok := upstream.AsAPIError(err); ok && apiErr.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %w", auth.ErrSuperExists, err)
		}
		return fmt.Errorf("failed to set up super admin: %w", err)
	}
	if !out.OK {
		return auth.ErrSuperExists
	}
	return nil
}
