package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (MeResponse, error)
	HasSuper(ctx context.Context) (HasSuperResponse, error)
	SetupSuper(ctx context.Context, req SetupSuperRequest) error
	// Expire tears down a session the backend no longer accepts.
	Expire(ctx context.Context, s Session)
}
