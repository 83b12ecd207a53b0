package attendance

import (
	"context"

	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

type ListFilter struct {
	Range calendar.Range
	// EmployeeID restricts the list to one employee when set.
	EmployeeID string
}

type Mark struct {
	EmployeeID string
	Date       calendar.Date
	Status     Status
	Note       string
	CheckIn    string
	CheckOut   string
}

type AttendanceRepository interface {
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	// Mark sets the status of one cell. The returned record has an empty ID
	// when the backend does not echo the stored record.
	Mark(ctx context.Context, m Mark) (Record, error)
	UpdateNote(ctx context.Context, recordID, note string) error
}
