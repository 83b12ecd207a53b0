package export

import "context"

type ExportService interface {
	// Attendance exports the matrix and its remarks for the session's
	// current view of the query.
	Attendance(ctx context.Context, req AttendanceExportRequest) (Result, error)
	Full(ctx context.Context, req FullExportRequest) (Result, error)
	CompOff(ctx context.Context) (Result, error)
	Employees(ctx context.Context, req EmployeeExportRequest) (Result, error)
}
