package compoff

import (
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

// Status of a compensatory day off. Any status may follow any other.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusHalfTaken Status = "HALF_TAKEN"
	StatusTaken     Status = "TAKEN"
	StatusPaid      Status = "PAID"
)

type statusMeta struct {
	label string
	style string
}

var statuses = []Status{StatusPending, StatusHalfTaken, StatusTaken, StatusPaid}

var metaByStatus = map[Status]statusMeta{
	StatusPending:   {"Pending", "bg-orange-500 text-white"},
	StatusHalfTaken: {"0.5 day taken", "bg-rose-300 text-black"},
	StatusTaken:     {"Leave taken", "bg-rose-600 text-white"},
	StatusPaid:      {"Paid", "bg-green-600 text-white"},
}

func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	_, ok := metaByStatus[s]
	return ok
}

// Label is the human-readable name. Unknown statuses label as themselves.
func (s Status) Label() string {
	if m, ok := metaByStatus[s]; ok {
		return m.label
	}
	return string(s)
}

func (s Status) Style() string {
	if m, ok := metaByStatus[s]; ok {
		return m.style
	}
	return "bg-white"
}

// CompOff records a day worked off-roster and when, if ever, it was taken back.
type CompOff struct {
	ID        string
	Employee  employee.Ref
	WorkDate  calendar.Date
	LeaveDate *calendar.Date
	Status    Status
	Remark    string
	CreatedAt *time.Time
}

// InPeriod reports whether either the work date or the leave date falls in r.
func (c CompOff) InPeriod(r calendar.Range) bool {
	if r.Contains(c.WorkDate) {
		return true
	}
	return c.LeaveDate != nil && r.Contains(*c.LeaveDate)
}
