package attendance

import (
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

// Record is one employee's attendance on one civil day.
type Record struct {
	ID       string
	Employee employee.Ref
	Date     calendar.Date
	Status   Status
	Note     string
	CheckIn  string
	CheckOut string
}

func (r Record) Key() Key {
	return Key{EmployeeID: r.Employee.ID, Date: r.Date}
}
