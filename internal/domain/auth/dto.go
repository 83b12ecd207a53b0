package auth

import "github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	return validateCredentials(r.Email, r.Password)
}

// SetupSuperRequest creates the first super admin. Only allowed while none exists.
type SetupSuperRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *SetupSuperRequest) Validate() error {
	return validateCredentials(r.Email, r.Password)
}

func validateCredentials(email, password string) error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if validator.IsEmpty(password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpstreamLogin is what the attendance backend answers to a login.
type UpstreamLogin struct {
	Token string
	Role  Role
	Scope Scope
}

// Identity is the admin record behind a token, as reported by /auth/me.
type Identity struct {
	UserID string
	Email  string
	Role   Role
	Scope  Scope
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
	Role        Role   `json:"role"`
	Scope       Scope  `json:"scope"`
}

type MeResponse struct {
	UserID string     `json:"user_id"`
	Email  string     `json:"email"`
	Role   Role       `json:"role"`
	Scope  Scope      `json:"scope"`
	Lock   FilterLock `json:"lock"`
}

type HasSuperResponse struct {
	HasSuper bool `json:"has_super"`
}
