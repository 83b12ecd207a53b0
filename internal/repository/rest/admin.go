package rest

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/admin"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
)

type adminDoc struct {
	ID              string `json:"_id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	AllowedTeamType string `json:"allowedTeamType"`
	AllowedShift    string `json:"allowedShift"`
}

func (d adminDoc) toEntity() admin.Admin {
	return admin.Admin{
		ID:              d.ID,
		Email:           d.Email,
		Role:            auth.Role(d.Role),
		AllowedTeamType: d.AllowedTeamType,
		AllowedShift:    d.AllowedShift,
	}
}

type adminCreateBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TeamType string `json:"teamType"`
	Shift    string `json:"shift,omitempty"`
}

type adminRepositoryImpl struct {
	client *upstream.Client
}

func NewAdminRepository(client *upstream.Client) admin.AdminRepository {
	return &adminRepositoryImpl{client: client}
}

// List implements admin.AdminRepository.
func (r *adminRepositoryImpl) List(ctx context.Context) ([]admin.Admin, error) {
	var docs []adminDoc
	if err := r.client.Get(ctx, "/admins", nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	admins := make([]admin.Admin, 0, len(docs))
	for _, d := range docs {
		admins = append(admins, d.toEntity())
	}
	return admins, nil
}

// Create implements admin.AdminRepository.
func (r *adminRepositoryImpl) Create(ctx context.Context, req admin.CreateRequest) (admin.Admin, error) {
	body := adminCreateBody{
		Email:    req.Email,
		Password: req.Password,
		TeamType: req.TeamType,
		Shift:    req.Shift,
	}
	var out adminDoc
	if err := r.client.Post(ctx, "/admins", body, &out); err != nil {
		return admin.Admin{}, fmt.Errorf("failed to create admin: %w", err)
	}
	if out.ID == "" {
		return admin.Admin{
			Email:           req.Email,
			Role:            auth.RoleAdmin,
			AllowedTeamType: req.TeamType,
			AllowedShift:    req.Shift,
		}, nil
	}
	return out.toEntity(), nil
}

// Delete implements admin.AdminRepository.
func (r *adminRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, "/admins/"+url.PathEscape(id))
	if upstream.IsNotFound(err) {
		return fmt.Errorf("%w: %w", admin.ErrAdminNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete admin %s: %w", id, err)
	}
	return nil
}
