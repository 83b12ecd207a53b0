package employee

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository) employee.EmployeeService {
	return &EmployeeServiceImpl{employeeRepo: employeeRepo}
}

// ListEmployees applies the session's scope over the requested filter. The
// options always describe the whole directory.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.Filter) (employee.ListEmployeeResponse, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, err
	}
	filter, _ = sess.Constrain(filter)

	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	visible := filter.Apply(all)
	resp := employee.ListEmployeeResponse{
		Employees: make([]employee.EmployeeResponse, 0, len(visible)),
		Options:   employee.Options(all),
	}
	for _, e := range visible {
		resp.Employees = append(resp.Employees, employee.NewEmployeeResponse(e))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.UpsertRequest) (employee.EmployeeResponse, error) {
	created, err := s.employeeRepo.Create(ctx, req.Employee())
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}
	slog.Info("Employee created", "employee_id", created.ID, "code", created.Code)
	return employee.NewEmployeeResponse(created), nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpsertRequest) (employee.EmployeeResponse, error) {
	if req.ID == "" {
		return employee.EmployeeResponse{}, employee.ErrEmployeeIDEmpty
	}
	updated, err := s.employeeRepo.Update(ctx, req.Employee())
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}
	return employee.NewEmployeeResponse(updated), nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if id == "" {
		return employee.ErrEmployeeIDEmpty
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}
