package leave

import (
	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// EmployeePeriodQuery selects one employee's records over a period.
type EmployeePeriodQuery struct {
	attendance.PeriodQuery
	EmployeeID string `json:"employee_id"`
}

func (q *EmployeePeriodQuery) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(q.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	mq := attendance.MatrixQuery{PeriodQuery: q.PeriodQuery}
	if err := mq.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}
	q.PeriodQuery = mq.PeriodQuery

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type InsightResponse struct {
	Employee employee.EmployeeResponse `json:"employee"`
	From     calendar.Date             `json:"from"`
	To       calendar.Date             `json:"to"`
	Summary  attendance.Summary        `json:"summary"`
	Chart    []attendance.ChartPoint   `json:"chart"`
}

// Group is every leave record of one status, oldest first.
type Group struct {
	Status  attendance.Status           `json:"status"`
	Style   string                      `json:"style"`
	Records []attendance.RecordResponse `json:"records"`
}

type DetailsResponse struct {
	Employee employee.Ref  `json:"employee"`
	From     calendar.Date `json:"from"`
	To       calendar.Date `json:"to"`
	Groups   []Group       `json:"groups"`
}

// SaveNotesRequest carries the edited note of each leave record in the
// period. Only notes that differ from the stored value are sent upstream.
type SaveNotesRequest struct {
	EmployeePeriodQuery
	Notes map[string]string `json:"notes"`
}

func (r *SaveNotesRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := r.EmployeePeriodQuery.Validate(); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		}
	}
	for id, note := range r.Notes {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "notes",
				Message: "record id must not be empty",
			})
		}
		if len(note) > 2000 {
			errs = append(errs, validator.ValidationError{
				Field:   "notes." + id,
				Message: "note must not exceed 2000 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SaveNotesResponse struct {
	Saved []string `json:"saved"`
}
