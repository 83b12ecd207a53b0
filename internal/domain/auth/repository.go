package auth

import "context"

// AuthRepository talks to the backend's auth endpoints. Me is authorized by
// the token carried in ctx.
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (UpstreamLogin, error)
	Me(ctx context.Context) (Identity, error)
	HasSuper(ctx context.Context) (bool, error)
	SetupSuper(ctx context.Context, email, password string) error
}
