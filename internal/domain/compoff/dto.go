package compoff

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// SaveRequest creates an entry when ID is empty and updates it otherwise.
// Updates may only change the leave date, status and remark.
type SaveRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	WorkDate   string `json:"work_date"`
	LeaveDate  string `json:"leave_date"`
	Status     string `json:"status"`
	Remark     string `json:"remark"`
}

func (r *SaveRequest) IsUpdate() bool {
	return r.ID != ""
}

func (r *SaveRequest) Validate() error {
	var errs validator.ValidationErrors

	r.ID = strings.TrimSpace(r.ID)
	if r.Status == "" {
		r.Status = string(StatusPending)
	}

	if !r.IsUpdate() {
		if validator.IsEmpty(r.EmployeeID) || validator.IsEmpty(r.WorkDate) {
			errs = append(errs, validator.ValidationError{
				Field:   "work_date",
				Message: "Employee and Work Date are required",
			})
		}
		if r.WorkDate != "" {
			if _, ok := validator.IsValidDate(r.WorkDate); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   "work_date",
					Message: "work_date must be in YYYY-MM-DD format",
				})
			}
		}
	}
	if r.LeaveDate != "" {
		if _, ok := validator.IsValidDate(r.LeaveDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_date",
				Message: "leave_date must be in YYYY-MM-DD format",
			})
		}
	}
	if !Status(r.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PENDING, HALF_TAKEN, TAKEN, PAID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CompOff maps the validated request onto an entity.
func (r SaveRequest) CompOff() CompOff {
	c := CompOff{
		ID:       r.ID,
		Employee: employee.Ref{ID: r.EmployeeID},
		Status:   Status(r.Status),
		Remark:   r.Remark,
	}
	if d, err := calendar.Parse(r.WorkDate); err == nil {
		c.WorkDate = d
	}
	if d, err := calendar.Parse(r.LeaveDate); err == nil {
		c.LeaveDate = &d
	}
	return c
}

type ListFilter struct {
	EmployeeID string `json:"employee_id"`
}

type CompOffResponse struct {
	ID          string         `json:"id"`
	Employee    employee.Ref   `json:"employee"`
	WorkDate    calendar.Date  `json:"work_date"`
	LeaveDate   *calendar.Date `json:"leave_date,omitempty"`
	Status      Status         `json:"status"`
	StatusLabel string         `json:"status_label"`
	Style       string         `json:"style"`
	Remark      string         `json:"remark,omitempty"`
	CreatedAt   *time.Time     `json:"created_at,omitempty"`
}

func NewCompOffResponse(c CompOff) CompOffResponse {
	return CompOffResponse{
		ID:          c.ID,
		Employee:    c.Employee,
		WorkDate:    c.WorkDate,
		LeaveDate:   c.LeaveDate,
		Status:      c.Status,
		StatusLabel: c.Status.Label(),
		Style:       c.Status.Style(),
		Remark:      c.Remark,
		CreatedAt:   c.CreatedAt,
	}
}
