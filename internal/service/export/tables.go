package export

import (
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

const timestampLayout = "2006-01-02 15:04"

// formatter renders dates and timestamps the same way across every sheet.
type formatter struct {
	dateLayout string
	loc        *time.Location
}

func (f formatter) date(d calendar.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(f.dateLayout)
}

func (f formatter) optionalDate(d *calendar.Date) string {
	if d == nil {
		return ""
	}
	return f.date(*d)
}

func (f formatter) timestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(f.loc).Format(timestampLayout)
}

// matrixTables lays out the attendance matrix and its remarks: one row per
// employee with a status column per day, then every non-empty note.
func matrixTables(snap attendance.Snapshot, name string, f formatter) []export.Table {
	header := make([]string, 0, len(snap.Dates)+3)
	header = append(header, "S. No", "Employee", "Emp ID")
	for _, d := range snap.Dates {
		header = append(header, f.date(d))
	}

	rows := make([][]any, 0, len(snap.Employees))
	var remarks [][]any
	for i, e := range snap.Employees {
		row := make([]any, 0, len(header))
		row = append(row, i+1, e.Name, e.Code)
		for _, d := range snap.Dates {
			rec, ok := snap.Index.Get(e.ID, d)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, string(rec.Status))
			if rec.Note != "" {
				remarks = append(remarks, []any{f.date(d), e.Name, e.Code, string(rec.Status), rec.Note})
			}
		}
		rows = append(rows, row)
	}

	return []export.Table{
		{
			Sheet:  "Attendance",
			File:   name,
			Header: header,
			Rows:   rows,
		},
		{
			Sheet:    "Remarks",
			File:     name + "_remarks",
			Header:   []string{"Date", "Employee", "Emp ID", "Status", "Remark"},
			Rows:     remarks,
			PadEmpty: true,
		},
	}
}

var employeeColumns = []string{
	"Emp ID", "Gender", "Blood Group", "DOB", "Cert DOB", "Date of Joining",
	"Designation", "Shift", "Team", "Department", "Personal Email",
	"Official Email", "Personal Phone", "Parent Phone", "Laptop Status",
	"Present Location", "Permanent Location", "Created At", "Updated At",
}

// employeeTable lists the directory. The first column is headed by
// nameHeader, which differs between the full and the directory export.
func employeeTable(list []employee.Employee, sheet, file, nameHeader string, f formatter) export.Table {
	header := append([]string{nameHeader}, employeeColumns...)
	rows := make([][]any, 0, len(list))
	for _, e := range list {
		rows = append(rows, []any{
			e.Name,
			e.Code,
			string(e.Gender),
			e.BloodGroup,
			f.optionalDate(e.DOB),
			f.optionalDate(e.CertDOB),
			f.optionalDate(e.DOJ),
			string(e.Designation),
			e.Shift,
			e.TeamType,
			e.Department,
			e.PersonalEmail,
			e.OfficialEmail,
			e.PersonalPhone,
			e.ParentPhone,
			string(e.LaptopStatus),
			e.PresentLocation,
			e.PermanentLocation,
			f.timestamp(e.CreatedAt),
			f.timestamp(e.UpdatedAt),
		})
	}
	return export.Table{Sheet: sheet, File: file, Header: header, Rows: rows}
}

// attendanceListTable is the flat record list of the full export, ordered
// by date then employee. Names come from the directory when known.
func attendanceListTable(records []attendance.Record, names map[string]employee.Ref, file string, f formatter) export.Table {
	ordered := attendance.NewIndex(records).Records()
	rows := make([][]any, 0, len(ordered))
	for _, r := range ordered {
		ref := resolveRef(r.Employee, names)
		rows = append(rows, []any{
			f.date(r.Date), ref.Name, ref.Code, string(r.Status), r.Note, r.CheckIn, r.CheckOut,
		})
	}
	return export.Table{
		Sheet:    "Attendance",
		File:     file,
		Header:   []string{"Date", "Employee", "Emp ID", "Status", "Remark", "Check-in", "Check-out"},
		Rows:     rows,
		PadEmpty: true,
	}
}

var compOffHeader = []string{"Employee", "Emp ID", "Worked Date", "Leave Taken Date", "Status", "Remark", "Created At"}

// compOffTable lists comp-off entries. With labels set the status column
// shows the human label instead of the code.
func compOffTable(items []compoff.CompOff, names map[string]employee.Ref, file string, labels bool, f formatter) export.Table {
	rows := make([][]any, 0, len(items))
	for _, c := range items {
		ref := resolveRef(c.Employee, names)
		status := string(c.Status)
		if labels {
			status = c.Status.Label()
		}
		rows = append(rows, []any{
			ref.Name, ref.Code, f.date(c.WorkDate), f.optionalDate(c.LeaveDate), status, c.Remark, f.timestamp(c.CreatedAt),
		})
	}
	return export.Table{
		Sheet:    "CompOff",
		File:     file,
		Header:   compOffHeader,
		Rows:     rows,
		PadEmpty: true,
	}
}

// resolveRef fills a record's employee name and code from the directory,
// keeping whatever the record carried when the employee is unknown.
func resolveRef(ref employee.Ref, names map[string]employee.Ref) employee.Ref {
	if known, ok := names[ref.ID]; ok {
		return known
	}
	return ref
}

func refsByID(list []employee.Employee) map[string]employee.Ref {
	m := make(map[string]employee.Ref, len(list))
	for _, e := range list {
		m[e.ID] = e.Ref()
	}
	return m
}
