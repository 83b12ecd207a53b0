package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
)

// RequireSuper requires a super admin session. Use after AuthRequired.
func RequireSuper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := auth.SessionFromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if !session.IsSuper() {
			response.HandleError(w, auth.ErrSuperRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
