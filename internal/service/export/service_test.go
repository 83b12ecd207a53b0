package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/storage"
	"github.com/cmlabs-hris/attendance-desk/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	d1 = calendar.New(2024, 1, 1)
	d2 = calendar.New(2024, 1, 2)

	asha = employee.Employee{ID: "a", Name: "Asha", Code: "E1", TeamType: "On Going", Shift: "Day Shift"}
	bala = employee.Employee{ID: "b", Name: "Bala", Code: "E2", TeamType: "FTE", Shift: "Night Shift"}
)

type snapshotSource struct {
	attendance.AttendanceService
	snap attendance.Snapshot
}

func (s snapshotSource) Snapshot(ctx context.Context, q attendance.MatrixQuery) (attendance.Snapshot, error) {
	return s.snap, nil
}

type stubEmployees struct{ list []employee.Employee }

func (s stubEmployees) List(ctx context.Context) ([]employee.Employee, error) { return s.list, nil }
func (s stubEmployees) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}
func (s stubEmployees) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}
func (s stubEmployees) Delete(ctx context.Context, id string) error { return nil }

type stubRecords struct {
	attendance.AttendanceRepository
	list []attendance.Record
}

func (s stubRecords) List(ctx context.Context, f attendance.ListFilter) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, r := range s.list {
		if f.EmployeeID == "" || r.Employee.ID == f.EmployeeID {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubCompOffs struct {
	compoff.CompOffRepository
	list []compoff.CompOff
}

func (s stubCompOffs) List(ctx context.Context, employeeID string) ([]compoff.CompOff, error) {
	var out []compoff.CompOff
	for _, c := range s.list {
		if employeeID == "" || c.Employee.ID == employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

type failingWriter struct{}

func (failingWriter) Format() string { return "xlsx" }
func (failingWriter) Write(ctx context.Context, wb export.Workbook) ([]export.File, error) {
	return nil, errors.New("renderer unavailable")
}

func matrixSnapshot() attendance.Snapshot {
	return attendance.Snapshot{
		Range:     calendar.Range{From: d1, To: d2},
		Dates:     []calendar.Date{d1, d2},
		Employees: []employee.Employee{asha, bala},
		Index: attendance.NewIndex([]attendance.Record{
			{ID: "r1", Employee: asha.Ref(), Date: d1, Status: attendance.StatusPresent},
		}),
		Period: "2024-01",
	}
}

type fixture struct {
	root string
	svc  export.ExportService
}

func newFixture(t *testing.T, writers Writers, snap attendance.Snapshot) fixture {
	t.Helper()
	return newFixtureWith(t, writers, snap, []employee.Employee{asha, bala})
}

func newFixtureWith(t *testing.T, writers Writers, snap attendance.Snapshot, employees []employee.Employee) fixture {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewLocalStorage(root, "/files")
	require.NoError(t, err)

	seven := calendar.New(2024, 1, 7)
	created := time.Date(2024, 1, 3, 4, 30, 0, 0, time.UTC)
	svc := NewExportService(
		snapshotSource{snap: snap},
		stubEmployees{list: employees},
		stubRecords{list: []attendance.Record{
			{ID: "r2", Employee: bala.Ref(), Date: d2, Status: attendance.StatusWFH, Note: `said "ok"`},
			{ID: "r1", Employee: employee.Ref{ID: "a"}, Date: d1, Status: attendance.StatusPresent, CheckIn: "09:05"},
			{ID: "r3", Employee: employee.Ref{ID: "ghost", Name: "Gone", Code: "E9"}, Date: d1, Status: attendance.StatusRelieved},
		}},
		stubCompOffs{list: []compoff.CompOff{
			{ID: "c1", Employee: employee.Ref{ID: "a"}, WorkDate: calendar.New(2023, 12, 30), LeaveDate: &seven, Status: compoff.StatusTaken, CreatedAt: &created},
			{ID: "c2", Employee: employee.Ref{ID: "b"}, WorkDate: calendar.New(2023, 11, 4), Status: compoff.StatusPending},
		}},
		file.NewFileService(store),
		writers,
		"2006-01-02",
		time.UTC,
	)
	return fixture{root: root, svc: svc}
}

func (f fixture) read(t *testing.T, a export.Artifact) string {
	t.Helper()
	rel := strings.TrimPrefix(a.URL, "/files/")
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func superCtx() context.Context {
	return auth.WithSession(context.Background(), auth.Session{Role: auth.RoleSuper})
}

func csvWriters() Writers {
	return Writers{Primary: spreadsheet.NewDelimitedWriter()}
}

func TestMatrixTables(t *testing.T) {
	tables := matrixTables(matrixSnapshot(), "attendance2024-01", formatter{dateLayout: "2006-01-02", loc: time.UTC})
	require.Len(t, tables, 2)

	main := tables[0]
	assert.Equal(t, []string{"S. No", "Employee", "Emp ID", "2024-01-01", "2024-01-02"}, main.Header)
	require.Len(t, main.Rows, 2)
	assert.Equal(t, []any{1, "Asha", "E1", "PRESENT", ""}, main.Rows[0])
	assert.Equal(t, []any{2, "Bala", "E2", "", ""}, main.Rows[1])

	assert.Empty(t, tables[1].Rows)
	assert.True(t, tables[1].PadEmpty)
}

func TestMatrixTables_DateLayout(t *testing.T) {
	tables := matrixTables(matrixSnapshot(), "x", formatter{dateLayout: "02 Jan", loc: time.UTC})
	assert.Equal(t, "01 Jan", tables[0].Header[3])
}

func TestAttendance_DelimitedFiles(t *testing.T) {
	snap := matrixSnapshot()
	snap.Filter = employee.Filter{TeamType: "On Going"}
	f := newFixture(t, csvWriters(), snap)

	res, err := f.svc.Attendance(superCtx(), export.AttendanceExportRequest{})
	require.NoError(t, err)
	assert.Equal(t, "csv", res.Format)
	assert.False(t, res.Fallback)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "attendance2024-01_On_Going.csv", res.Files[0].Name)
	assert.Equal(t, "attendance2024-01_On_Going_remarks.csv", res.Files[1].Name)

	lines := strings.Split(f.read(t, res.Files[0]), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"S. No","Employee","Emp ID","2024-01-01","2024-01-02"`, lines[0])
	assert.Equal(t, `"1","Asha","E1","PRESENT",""`, lines[1])
}

func TestAttendance_LabelsCannotLeaveTheBatch(t *testing.T) {
	snap := matrixSnapshot()
	snap.Filter = employee.Filter{TeamType: "x/../../../shared/attendance2024-01_Ops", Shift: "R&D/QA"}
	f := newFixture(t, csvWriters(), snap)

	res, err := f.svc.Attendance(superCtx(), export.AttendanceExportRequest{})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, "attendance2024-01_x_.._.._.._shared_attendance2024-01_Ops_R&D_QA.csv", res.Files[0].Name)
	for _, a := range res.Files {
		assert.True(t, strings.HasPrefix(a.URL, "/files/exports/"), a.URL)
		assert.Equal(t, 4, strings.Count(a.URL, "/"), "file sits directly in its batch: %s", a.URL)
		f.read(t, a)
	}

	_, err = os.Stat(filepath.Join(f.root, "shared"))
	assert.True(t, os.IsNotExist(err))
}

func TestAttendance_FallsBackWhenWriterFails(t *testing.T) {
	f := newFixture(t, Writers{Primary: failingWriter{}, Fallback: spreadsheet.NewDelimitedWriter()}, matrixSnapshot())

	res, err := f.svc.Attendance(superCtx(), export.AttendanceExportRequest{})
	require.NoError(t, err)
	assert.True(t, res.Fallback)
	assert.Equal(t, "csv", res.Format)
	assert.Len(t, res.Files, 2)
}

func TestAttendance_NoFallbackIsAnError(t *testing.T) {
	f := newFixture(t, Writers{Primary: failingWriter{}}, matrixSnapshot())
	_, err := f.svc.Attendance(superCtx(), export.AttendanceExportRequest{})
	assert.Error(t, err)
}

func TestAttendance_Workbook(t *testing.T) {
	f := newFixture(t, Writers{Primary: spreadsheet.NewExcelWriter(), Fallback: spreadsheet.NewDelimitedWriter()}, matrixSnapshot())

	res, err := f.svc.Attendance(superCtx(), export.AttendanceExportRequest{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "attendance2024-01.xlsx", res.Files[0].Name)
	assert.Equal(t, spreadsheet.ContentTypeXLSX, res.Files[0].ContentType)
	assert.Positive(t, res.Files[0].Size)
}

func TestFull_All(t *testing.T) {
	f := newFixture(t, csvWriters(), attendance.Snapshot{})

	req := export.FullExportRequest{From: "2024-01-01", To: "2024-01-31"}
	require.NoError(t, req.Validate())
	res, err := f.svc.Full(superCtx(), req)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Equal(t, "Employees_ALL_2024-01-01_to_2024-01-31.csv", res.Files[0].Name)
	assert.Equal(t, "Attendance_ALL_2024-01-01_to_2024-01-31.csv", res.Files[1].Name)
	assert.Equal(t, "CompOff_ALL_2024-01-01_to_2024-01-31.csv", res.Files[2].Name)

	employees := strings.Split(f.read(t, res.Files[0]), "\n")
	assert.Len(t, employees, 3)
	assert.True(t, strings.HasPrefix(employees[0], `"Employee","Emp ID","Gender"`))

	attendanceLines := strings.Split(f.read(t, res.Files[1]), "\n")
	require.Len(t, attendanceLines, 4)
	assert.Equal(t, `"Date","Employee","Emp ID","Status","Remark","Check-in","Check-out"`, attendanceLines[0])
	assert.Equal(t, `"2024-01-01","Asha","E1","PRESENT","","09:05",""`, attendanceLines[1])
	assert.Equal(t, `"2024-01-01","Gone","E9","RELIEVED","","",""`, attendanceLines[2], "unknown employees stay in an ALL export")
	assert.Equal(t, `"2024-01-02","Bala","E2","WFH","said ""ok""","",""`, attendanceLines[3])

	compOffLines := strings.Split(f.read(t, res.Files[2]), "\n")
	require.Len(t, compOffLines, 2, "only entries touching the period")
	assert.Equal(t, `"Asha","E1","2023-12-30","2024-01-07","TAKEN","","2024-01-03 04:30"`, compOffLines[1])
}

func TestFull_OneEmployee(t *testing.T) {
	f := newFixture(t, csvWriters(), attendance.Snapshot{})

	req := export.FullExportRequest{EmployeeID: "b", From: "2024-01-01", To: "2024-01-31"}
	require.NoError(t, req.Validate())
	res, err := f.svc.Full(superCtx(), req)
	require.NoError(t, err)
	assert.Equal(t, "Employees_E2_2024-01-01_to_2024-01-31.csv", res.Files[0].Name)

	attendanceLines := strings.Split(f.read(t, res.Files[1]), "\n")
	require.Len(t, attendanceLines, 2)
	assert.Contains(t, attendanceLines[1], `"Bala"`)
	// nothing of Bala's touches January, and csv output is never padded
	assert.Equal(t, `"Employee","Emp ID","Worked Date","Leave Taken Date","Status","Remark","Created At"`, f.read(t, res.Files[2]))

	req.EmployeeID = "missing"
	_, err = f.svc.Full(superCtx(), req)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestFull_EmployeeCodeIsSanitized(t *testing.T) {
	odd := bala
	odd.Code = "../../E2"
	f := newFixtureWith(t, csvWriters(), attendance.Snapshot{}, []employee.Employee{asha, odd})

	req := export.FullExportRequest{EmployeeID: "b", From: "2024-01-01", To: "2024-01-31"}
	require.NoError(t, req.Validate())
	res, err := f.svc.Full(superCtx(), req)
	require.NoError(t, err)
	require.Len(t, res.Files, 3)
	assert.Equal(t, "Employees___.._E2_2024-01-01_to_2024-01-31.csv", res.Files[0].Name)
	for _, a := range res.Files {
		assert.True(t, strings.HasPrefix(a.URL, "/files/exports/"), a.URL)
		assert.Equal(t, 4, strings.Count(a.URL, "/"), a.URL)
	}
}

func TestFull_ScopedDropsUnknown(t *testing.T) {
	f := newFixture(t, csvWriters(), attendance.Snapshot{})
	ctx := auth.WithSession(context.Background(), auth.Session{Role: auth.RoleAdmin, Scope: auth.Scope{TeamType: "On Going"}})

	req := export.FullExportRequest{From: "2024-01-01", To: "2024-01-31"}
	require.NoError(t, req.Validate())
	res, err := f.svc.Full(ctx, req)
	require.NoError(t, err)

	attendanceLines := strings.Split(f.read(t, res.Files[1]), "\n")
	require.Len(t, attendanceLines, 2)
	assert.Contains(t, attendanceLines[1], `"Asha"`)
}

func TestCompOffExport(t *testing.T) {
	f := newFixture(t, csvWriters(), attendance.Snapshot{})

	res, err := f.svc.CompOff(superCtx())
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "compoff_all.csv", res.Files[0].Name)

	lines := strings.Split(f.read(t, res.Files[0]), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], `"Leave taken"`)
	assert.Contains(t, lines[2], `"Bala","E2","2023-11-04","","Pending"`)
}

func TestEmployeesExport(t *testing.T) {
	f := newFixture(t, csvWriters(), attendance.Snapshot{})
	impl := f.svc.(*ExportServiceImpl)
	impl.now = func() time.Time { return time.Date(2024, 5, 6, 23, 0, 0, 0, time.UTC) }

	res, err := f.svc.Employees(superCtx(), export.EmployeeExportRequest{Filter: employee.Filter{Shift: "Night Shift"}})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "employees_2024-05-06.csv", res.Files[0].Name)

	lines := strings.Split(f.read(t, res.Files[0]), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Name","Emp ID"`))
	assert.Len(t, strings.Split(lines[0], ","), 20)
	assert.True(t, strings.HasPrefix(lines[1], `"Bala","E2"`))
}
