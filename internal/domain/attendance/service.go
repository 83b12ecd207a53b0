package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

// Snapshot is a consistent copy of a loaded matrix, safe to read without
// holding the view lock.
type Snapshot struct {
	Range     calendar.Range
	Dates     []calendar.Date
	Employees []employee.Employee
	Index     *Index
	Filter    employee.Filter
	Period    string
}

type AttendanceService interface {
	Matrix(ctx context.Context, q MatrixQuery) (MatrixResponse, error)
	Snapshot(ctx context.Context, q MatrixQuery) (Snapshot, error)
	Mark(ctx context.Context, req MarkRequest) (RecordResponse, error)
	UpdateNote(ctx context.Context, req NoteRequest) error
	Statuses() []StatusDefinition
	// Forget drops any cached view held for the session key.
	Forget(sessionKey string)
}
