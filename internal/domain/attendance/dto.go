package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// PeriodQuery selects a span of days either by month token or by an
// explicit from/to pair. The explicit pair wins when both are present.
type PeriodQuery struct {
	Month string `json:"month"`
	From  string `json:"from"`
	To    string `json:"to"`
}

func (q *PeriodQuery) validate(errs *validator.ValidationErrors) {
	q.Month = strings.TrimSpace(q.Month)
	q.From = strings.TrimSpace(q.From)
	q.To = strings.TrimSpace(q.To)

	if q.Month != "" && !validator.IsValidMonth(q.Month) {
		errs.Add("month", "month must be in YYYY-MM format")
	}
	if (q.From == "") != (q.To == "") {
		errs.Add("from", "from and to must be given together")
	}
	if q.From != "" {
		if _, ok := validator.IsValidDate(q.From); !ok {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}
	if q.To != "" {
		if _, ok := validator.IsValidDate(q.To); !ok {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}
}

// Range resolves the query. With neither month nor dates given it is the
// current month in loc. Call after Validate.
func (q PeriodQuery) Range(loc *time.Location) calendar.Range {
	if q.From != "" && q.To != "" {
		from, _ := calendar.Parse(q.From)
		to, _ := calendar.Parse(q.To)
		return calendar.Range{From: from, To: to}
	}
	if q.Month != "" {
		if m, err := calendar.ParseMonth(q.Month); err == nil {
			return m.Range()
		}
	}
	return calendar.MonthOf(calendar.Today(loc)).Range()
}

// Token is the period label used in export file names: the month token
// when selecting by month, otherwise "<from>_to_<to>".
func (q PeriodQuery) Token(loc *time.Location) string {
	if q.From != "" && q.To != "" {
		return q.From + "_to_" + q.To
	}
	if q.Month != "" {
		return q.Month
	}
	return calendar.MonthOf(calendar.Today(loc)).String()
}

type MatrixQuery struct {
	PeriodQuery
	TeamType string `json:"team_type"`
	Shift    string `json:"shift"`
	// Refresh forces a reload from the backend instead of reusing the
	// session's cached view for the same period.
	Refresh bool `json:"refresh"`
}

func (q *MatrixQuery) Validate() error {
	var errs validator.ValidationErrors
	q.validate(&errs)
	return errs.Err()
}

func (q MatrixQuery) Filter() employee.Filter {
	return employee.Filter{TeamType: q.TeamType, Shift: q.Shift}
}

type MatrixCell struct {
	Date     calendar.Date `json:"date"`
	Status   Status        `json:"status,omitempty"`
	Note     string        `json:"note,omitempty"`
	Style    string        `json:"style"`
	RecordID string        `json:"record_id,omitempty"`
}

type MatrixRow struct {
	Seq      int          `json:"seq"`
	Employee employee.Ref `json:"employee"`
	Cells    []MatrixCell `json:"cells"`
}

type MatrixResponse struct {
	From       calendar.Date          `json:"from"`
	To         calendar.Date          `json:"to"`
	Dates      []calendar.Date        `json:"dates"`
	Rows       []MatrixRow            `json:"rows"`
	Filter     employee.Filter        `json:"filter"`
	Lock       auth.FilterLock        `json:"lock"`
	Options    employee.FilterOptions `json:"options"`
	Generation uint64                 `json:"generation"`
}

// BuildRows lays employees out against dates, one cell per day. Rows are
// numbered from 1 in employee order.
func BuildRows(employees []employee.Employee, dates []calendar.Date, idx *Index) []MatrixRow {
	rows := make([]MatrixRow, 0, len(employees))
	for i, e := range employees {
		row := MatrixRow{
			Seq:      i + 1,
			Employee: e.Ref(),
			Cells:    make([]MatrixCell, 0, len(dates)),
		}
		for _, d := range dates {
			cell := MatrixCell{Date: d, Style: DefaultStyle}
			if rec, ok := idx.Get(e.ID, d); ok {
				cell.Status = rec.Status
				cell.Note = rec.Note
				cell.Style = rec.Status.Style()
				cell.RecordID = rec.ID
			}
			row.Cells = append(row.Cells, cell)
		}
		rows = append(rows, row)
	}
	return rows
}

type MarkRequest struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	CheckIn    string `json:"check_in,omitempty"`
	CheckOut   string `json:"check_out,omitempty"`
}

const clockLayout = "15:04"

func (r *MarkRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Date) {
		errs.Add("date", "date is required")
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if !Status(r.Status).Valid() {
		errs.Add("status", "status must be one of: "+strings.Join(StatusCodes(), ", "))
	}
	for field, v := range map[string]string{"check_in": r.CheckIn, "check_out": r.CheckOut} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(clockLayout, v); err != nil {
			errs.Add(field, field+" must be in HH:MM format")
		}
	}

	return errs.Err()
}

// Day returns the parsed date. Call after Validate.
func (r MarkRequest) Day() calendar.Date {
	d, _ := calendar.Parse(r.Date)
	return d
}

type NoteRequest struct {
	RecordID string `json:"record_id"`
	Note     string `json:"note"`
}

func (r *NoteRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RecordID) {
		errs.Add("record_id", "record_id is required")
	}
	if len(r.Note) > 2000 {
		errs.Add("note", "note must not exceed 2000 characters")
	}
	return errs.Err()
}

type RecordResponse struct {
	ID       string        `json:"id"`
	Employee employee.Ref  `json:"employee"`
	Date     calendar.Date `json:"date"`
	Status   Status        `json:"status"`
	Style    string        `json:"style"`
	Note     string        `json:"note,omitempty"`
	CheckIn  string        `json:"check_in,omitempty"`
	CheckOut string        `json:"check_out,omitempty"`
}

func NewRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		ID:       r.ID,
		Employee: r.Employee,
		Date:     r.Date,
		Status:   r.Status,
		Style:    r.Status.Style(),
		Note:     r.Note,
		CheckIn:  r.CheckIn,
		CheckOut: r.CheckOut,
	}
}
