package compoff

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
)

type CompOffServiceImpl struct {
	compOffRepo compoff.CompOffRepository
}

func NewCompOffService(compOffRepo compoff.CompOffRepository) compoff.CompOffService {
	return &CompOffServiceImpl{compOffRepo: compOffRepo}
}

func (s *CompOffServiceImpl) List(ctx context.Context, filter compoff.ListFilter) ([]compoff.CompOffResponse, error) {
	items, err := s.compOffRepo.List(ctx, filter.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comp-offs: %w", err)
	}

	resp := make([]compoff.CompOffResponse, 0, len(items))
	for _, c := range items {
		resp = append(resp, compoff.NewCompOffResponse(c))
	}
	return resp, nil
}

// Save creates the entry or, when the request carries an id, updates its
// leave date, status and remark. Any status may follow any other.
func (s *CompOffServiceImpl) Save(ctx context.Context, req compoff.SaveRequest) (compoff.CompOffResponse, error) {
	entry := req.CompOff()

	if req.IsUpdate() {
		updated, err := s.compOffRepo.Update(ctx, entry)
		if err != nil {
			return compoff.CompOffResponse{}, fmt.Errorf("failed to update comp-off: %w", err)
		}
		slog.Info("Comp-off updated", "compoff_id", updated.ID, "status", updated.Status)
		return compoff.NewCompOffResponse(updated), nil
	}

	created, err := s.compOffRepo.Create(ctx, entry)
	if err != nil {
		return compoff.CompOffResponse{}, fmt.Errorf("failed to create comp-off: %w", err)
	}
	slog.Info("Comp-off created", "compoff_id", created.ID, "employee_id", created.Employee.ID)
	return compoff.NewCompOffResponse(created), nil
}

func (s *CompOffServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.compOffRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comp-off: %w", err)
	}
	return nil
}
