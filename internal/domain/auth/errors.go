package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionExpired     = errors.New("session expired, please log in again")
	ErrSuperRequired      = errors.New("only a super admin can do this")
	ErrSuperExists        = errors.New("a super admin already exists")
	ErrNoSession          = errors.New("no session in context")
)
