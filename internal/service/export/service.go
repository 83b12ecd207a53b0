package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/service/file"
	"golang.org/x/sync/errgroup"
)

// Writers picks how workbooks are rendered. Fallback is used when Primary
// fails and may be nil.
type Writers struct {
	Primary  export.Writer
	Fallback export.Writer
}

type ExportServiceImpl struct {
	attendanceService attendance.AttendanceService
	employeeRepo      employee.EmployeeRepository
	attendanceRepo    attendance.AttendanceRepository
	compOffRepo       compoff.CompOffRepository
	fileService       file.FileService
	writers           Writers
	format            formatter
	now               func() time.Time
}

func NewExportService(
	attendanceService attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	compOffRepo compoff.CompOffRepository,
	fileService file.FileService,
	writers Writers,
	dateLayout string,
	loc *time.Location,
) export.ExportService {
	return &ExportServiceImpl{
		attendanceService: attendanceService,
		employeeRepo:      employeeRepo,
		attendanceRepo:    attendanceRepo,
		compOffRepo:       compOffRepo,
		fileService:       fileService,
		writers:           writers,
		format:            formatter{dateLayout: dateLayout, loc: loc},
		now:               time.Now,
	}
}

// render writes wb with the primary writer, degrading to the fallback on
// failure, and stores the result.
func (s *ExportServiceImpl) render(ctx context.Context, wb export.Workbook) (export.Result, error) {
	writer := s.writers.Primary
	files, err := writer.Write(ctx, wb)
	fallback := false
	if err != nil {
		if s.writers.Fallback == nil {
			return export.Result{}, fmt.Errorf("failed to render %s: %w", wb.Name, err)
		}
		slog.Warn("Export writer failed, falling back",
			"workbook", wb.Name,
			"format", writer.Format(),
			"fallback", s.writers.Fallback.Format(),
			"error", err,
		)
		writer = s.writers.Fallback
		files, err = writer.Write(ctx, wb)
		if err != nil {
			return export.Result{}, fmt.Errorf("failed to render %s: %w", wb.Name, err)
		}
		fallback = true
	}

	artifacts, err := s.fileService.SaveExport(ctx, files)
	if err != nil {
		return export.Result{}, err
	}

	slog.Info("Export generated", "workbook", wb.Name, "format", writer.Format(), "files", len(artifacts))
	return export.Result{Format: writer.Format(), Fallback: fallback, Files: artifacts}, nil
}

// Attendance exports exactly what the session's matrix shows for the query.
func (s *ExportServiceImpl) Attendance(ctx context.Context, req export.AttendanceExportRequest) (export.Result, error) {
	snap, err := s.attendanceService.Snapshot(ctx, req.MatrixQuery)
	if err != nil {
		return export.Result{}, err
	}

	name := "attendance" + export.ScopeTag(snap.Period, snap.Filter.TeamType, snap.Filter.Shift)
	return s.render(ctx, export.Workbook{
		Name:   name,
		Tables: matrixTables(snap, name, s.format),
	})
}

// scope returns the directory as the session may see it, and whether the
// session is restricted.
func scope(ctx context.Context, all []employee.Employee) ([]employee.Employee, bool, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, false, err
	}
	filter, lock := sess.Constrain(employee.Filter{})
	return filter.Apply(all), lock.Any(), nil
}

func (s *ExportServiceImpl) Full(ctx context.Context, req export.FullExportRequest) (export.Result, error) {
	rng := req.Range()
	employeeID := req.EmployeeID
	if req.IsAll() {
		employeeID = ""
	}

	var (
		all      []employee.Employee
		records  []attendance.Record
		compOffs []compoff.CompOff
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		all = list
		return nil
	})
	g.Go(func() error {
		list, err := s.attendanceRepo.List(gCtx, attendance.ListFilter{Range: rng, EmployeeID: employeeID})
		if err != nil {
			return fmt.Errorf("failed to load attendance: %w", err)
		}
		records = list
		return nil
	})
	g.Go(func() error {
		list, err := s.compOffRepo.List(gCtx, employeeID)
		if err != nil {
			return fmt.Errorf("failed to load comp-offs: %w", err)
		}
		compOffs = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return export.Result{}, err
	}

	visible, restricted, err := scope(ctx, all)
	if err != nil {
		return export.Result{}, err
	}

	selected := visible
	label := export.AllEmployees
	if !req.IsAll() {
		selected = nil
		for _, e := range visible {
			if e.ID == req.EmployeeID {
				selected = []employee.Employee{e}
				break
			}
		}
		if selected == nil {
			return export.Result{}, employee.ErrEmployeeNotFound
		}
		label = export.SanitizeLabel(selected[0].Code)
		if label == "" {
			label = "emp"
		}
	}

	names := refsByID(selected)
	// rows of employees missing from the directory only belong in an
	// unrestricted export of everyone
	keepUnknown := req.IsAll() && !restricted
	keep := func(ref employee.Ref) bool {
		if _, ok := names[ref.ID]; ok {
			return true
		}
		return keepUnknown
	}

	inRange := make([]attendance.Record, 0, len(records))
	for _, r := range records {
		if rng.Contains(r.Date) && keep(r.Employee) {
			inRange = append(inRange, r)
		}
	}
	inPeriod := make([]compoff.CompOff, 0, len(compOffs))
	for _, c := range compOffs {
		if c.InPeriod(rng) && keep(c.Employee) {
			inPeriod = append(inPeriod, c)
		}
	}

	tag := fmt.Sprintf("%s_%s_to_%s", label, rng.From, rng.To)
	return s.render(ctx, export.Workbook{
		Name: "alldetails_" + tag,
		Tables: []export.Table{
			employeeTable(selected, "Employees", "Employees_"+tag, "Employee", s.format),
			attendanceListTable(inRange, names, "Attendance_"+tag, s.format),
			compOffTable(inPeriod, names, "CompOff_"+tag, false, s.format),
		},
	})
}

func (s *ExportServiceImpl) CompOff(ctx context.Context) (export.Result, error) {
	var (
		all   []employee.Employee
		items []compoff.CompOff
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		all = list
		return nil
	})
	g.Go(func() error {
		list, err := s.compOffRepo.List(gCtx, "")
		if err != nil {
			return fmt.Errorf("failed to load comp-offs: %w", err)
		}
		items = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return export.Result{}, err
	}

	visible, restricted, err := scope(ctx, all)
	if err != nil {
		return export.Result{}, err
	}
	names := refsByID(visible)
	if restricted {
		kept := items[:0:0]
		for _, c := range items {
			if _, ok := names[c.Employee.ID]; ok {
				kept = append(kept, c)
			}
		}
		items = kept
	}

	const name = "compoff_all"
	return s.render(ctx, export.Workbook{
		Name:   name,
		Tables: []export.Table{compOffTable(items, names, name, true, s.format)},
	})
}

func (s *ExportServiceImpl) Employees(ctx context.Context, req export.EmployeeExportRequest) (export.Result, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return export.Result{}, err
	}
	filter, _ := sess.Constrain(req.Filter)

	all, err := s.employeeRepo.List(ctx)
	if err != nil {
		return export.Result{}, fmt.Errorf("failed to load employees: %w", err)
	}

	name := "employees_" + calendar.FromTime(s.now().In(s.format.loc)).String()
	return s.render(ctx, export.Workbook{
		Name:   name,
		Tables: []export.Table{employeeTable(filter.Apply(all), "Employees", name, "Name", s.format)},
	})
}
