package export

import (
	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// AllEmployees selects every employee in a full export.
const AllEmployees = "ALL"

type AttendanceExportRequest struct {
	attendance.MatrixQuery
}

func (r *AttendanceExportRequest) Validate() error {
	return r.MatrixQuery.Validate()
}

// FullExportRequest exports employees, attendance and comp-off for one
// employee or ALL over an inclusive date span.
type FullExportRequest struct {
	EmployeeID string `json:"employee_id"`
	From       string `json:"from"`
	To         string `json:"to"`
}

func (r *FullExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID == "" {
		r.EmployeeID = AllEmployees
	}
	if validator.IsEmpty(r.From) || validator.IsEmpty(r.To) {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "Please select From and To dates.",
		})
		return errs
	}

	from, okFrom := validator.IsValidDate(r.From)
	to, okTo := validator.IsValidDate(r.To)
	if !okFrom {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "from must be in YYYY-MM-DD format",
		})
	}
	if !okTo {
		errs = append(errs, validator.ValidationError{
			Field:   "to",
			Message: "to must be in YYYY-MM-DD format",
		})
	}
	if okFrom && okTo && from.After(to) {
		errs = append(errs, validator.ValidationError{
			Field:   "from",
			Message: "From date cannot be after To date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r FullExportRequest) IsAll() bool {
	return r.EmployeeID == AllEmployees
}

// Range returns the validated span.
func (r FullExportRequest) Range() calendar.Range {
	from, _ := calendar.Parse(r.From)
	to, _ := calendar.Parse(r.To)
	return calendar.Range{From: from, To: to}
}

type EmployeeExportRequest struct {
	employee.Filter
}
