package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/admin"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
)

type AdminServiceImpl struct {
	adminRepo admin.AdminRepository
}

func NewAdminService(adminRepo admin.AdminRepository) admin.AdminService {
	return &AdminServiceImpl{adminRepo: adminRepo}
}

func requireSuper(ctx context.Context) (auth.Session, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	if !sess.IsSuper() {
		return auth.Session{}, auth.ErrSuperRequired
	}
	return sess, nil
}

func (s *AdminServiceImpl) List(ctx context.Context) ([]admin.AdminResponse, error) {
	if _, err := requireSuper(ctx); err != nil {
		return nil, err
	}

	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	resp := make([]admin.AdminResponse, 0, len(admins))
	for _, a := range admins {
		resp = append(resp, admin.NewAdminResponse(a))
	}
	return resp, nil
}

func (s *AdminServiceImpl) Create(ctx context.Context, req admin.CreateRequest) (admin.AdminResponse, error) {
	sess, err := requireSuper(ctx)
	if err != nil {
		return admin.AdminResponse{}, err
	}

	created, err := s.adminRepo.Create(ctx, req)
	if err != nil {
		return admin.AdminResponse{}, fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("Admin created", "admin_id", created.ID, "team_type", created.AllowedTeamType, "by", sess.UserID)
	return admin.NewAdminResponse(created), nil
}

// Delete removes a scoped admin. Super admins are listed but never deletable.
func (s *AdminServiceImpl) Delete(ctx context.Context, id string) error {
	sess, err := requireSuper(ctx)
	if err != nil {
		return err
	}

	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}
	var target *admin.Admin
	for i := range admins {
		if admins[i].ID == id {
			target = &admins[i]
			break
		}
	}
	if target == nil {
		return admin.ErrAdminNotFound
	}
	if target.Role == auth.RoleSuper {
		return admin.ErrCannotDeleteSuper
	}

	if err := s.adminRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	slog.Info("Admin deleted", "admin_id", id, "by", sess.UserID)
	return nil
}
