package admin

import (
	"context"
	"errors"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

var (
	ErrAdminNotFound     = errors.New("admin not found")
	ErrCannotDeleteSuper = errors.New("super admin cannot be deleted")
)

// Admin is a login account. Scoped admins carry an allowed team type and
// optionally a shift.
type Admin struct {
	ID              string
	Email           string
	Role            auth.Role
	AllowedTeamType string
	AllowedShift    string
}

type CreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamType string `json:"team_type"`
	Shift    string `json:"shift"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) || validator.IsEmpty(r.Password) || validator.IsEmpty(r.TeamType) {
		errs.Add("fields", "Fill all fields")
	}
	if r.Email != "" && !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}
	if r.TeamType != "" && !validator.IsInSlice(r.TeamType, employee.TeamTypes) {
		errs.Add("team_type", "team_type is not a known team")
	}
	if r.Shift != "" && !validator.IsInSlice(r.Shift, employee.Shifts) {
		errs.Add("shift", "shift is not a known shift")
	}

	return errs.Err()
}

type AdminResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Role            auth.Role `json:"role"`
	AllowedTeamType string    `json:"allowed_team_type,omitempty"`
	AllowedShift    string    `json:"allowed_shift,omitempty"`
	Deletable       bool      `json:"deletable"`
}

func NewAdminResponse(a Admin) AdminResponse {
	return AdminResponse{
		ID:              a.ID,
		Email:           a.Email,
		Role:            a.Role,
		AllowedTeamType: a.AllowedTeamType,
		AllowedShift:    a.AllowedShift,
		Deletable:       a.Role != auth.RoleSuper,
	}
}

type AdminRepository interface {
	List(ctx context.Context) ([]Admin, error)
	Create(ctx context.Context, req CreateRequest) (Admin, error)
	Delete(ctx context.Context, id string) error
}

// AdminService manages login accounts. Every method requires a super
// session in ctx.
type AdminService interface {
	List(ctx context.Context) ([]AdminResponse, error)
	Create(ctx context.Context, req CreateRequest) (AdminResponse, error)
	Delete(ctx context.Context, id string) error
}
