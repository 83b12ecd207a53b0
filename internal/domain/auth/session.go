package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
)

type Role string

const (
	RoleSuper Role = "super"
	RoleAdmin Role = "admin"
)

// Scope restricts an admin to one team type and/or shift. Empty fields are
// unrestricted.
type Scope struct {
	TeamType string `json:"team_type,omitempty"`
	Shift    string `json:"shift,omitempty"`
}

// Session is built once at login and travels inside the access token. The
// upstream token is what every backend call is authorized with.
type Session struct {
	AccessToken   string `json:"-"`
	UpstreamToken string `json:"-"`
	ExpiresAt     int64  `json:"-"`
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	Role          Role   `json:"role"`
	Scope         Scope  `json:"scope"`
}

func (s Session) IsSuper() bool {
	return s.Role == RoleSuper
}

// FilterLock reports which filters a scoped admin may not change.
type FilterLock struct {
	TeamType bool `json:"team_type"`
	Shift    bool `json:"shift"`
}

func (l FilterLock) Any() bool {
	return l.TeamType || l.Shift
}

// Constrain overrides the requested filter with the admin's scope. Super
// admins are never constrained.
func (s Session) Constrain(f employee.Filter) (employee.Filter, FilterLock) {
	var lock FilterLock
	if s.Role != RoleAdmin {
		return f, lock
	}
	if s.Scope.TeamType != "" {
		f.TeamType = s.Scope.TeamType
		lock.TeamType = true
	}
	if s.Scope.Shift != "" {
		f.Shift = s.Scope.Shift
		lock.Shift = true
	}
	return f, lock
}

// SessionKey identifies a session for per-session caches.
func (s Session) SessionKey() string {
	return s.AccessToken
}

type sessionCtxKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	if !ok {
		return Session{}, ErrNoSession
	}
	return s, nil
}
