package employee

import (
	"context"
)

// EmployeeService defines business logic for the employee directory
type EmployeeService interface {
	// ListEmployees returns the directory narrowed by filter, with the
	// team/shift options of the unfiltered list
	ListEmployees(ctx context.Context, filter Filter) (ListEmployeeResponse, error)

	CreateEmployee(ctx context.Context, req UpsertRequest) (EmployeeResponse, error)

	UpdateEmployee(ctx context.Context, req UpsertRequest) (EmployeeResponse, error)

	DeleteEmployee(ctx context.Context, id string) error
}
