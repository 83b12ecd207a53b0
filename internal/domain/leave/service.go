package leave

import "context"

// LeaveService reports leave usage for one employee over a period.
type LeaveService interface {
	// Insight counts statuses and totals day and hour equivalents.
	Insight(ctx context.Context, q EmployeePeriodQuery) (InsightResponse, error)

	// Details groups leave records by status in catalog order. Statuses
	// with no records are left out.
	Details(ctx context.Context, q EmployeePeriodQuery) (DetailsResponse, error)

	// SaveNotes writes only the notes that changed, in parallel.
	SaveNotes(ctx context.Context, req SaveNotesRequest) (SaveNotesResponse, error)
}
