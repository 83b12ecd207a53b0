package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired turns a verified access token into an auth.Session and the
// backend bearer token, both attached to the request context.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			if raw == "" || jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrSessionExpired)
				return
			}

			session, err := jwtService.SessionFromClaims(raw, claims)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := auth.WithSession(r.Context(), session)
			ctx = upstream.WithToken(ctx, session.UpstreamToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}
