package leave

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"golang.org/x/sync/errgroup"
)

// maxParallelNotes bounds concurrent note writes to the backend.
const maxParallelNotes = 4

type LeaveServiceImpl struct {
	employeeRepo      employee.EmployeeRepository
	attendanceRepo    attendance.AttendanceRepository
	attendanceService attendance.AttendanceService
	loc               *time.Location
}

func NewLeaveService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	attendanceService attendance.AttendanceService,
	loc *time.Location,
) leave.LeaveService {
	return &LeaveServiceImpl{
		employeeRepo:      employeeRepo,
		attendanceRepo:    attendanceRepo,
		attendanceService: attendanceService,
		loc:               loc,
	}
}

// load fetches the employee and their records over the period in parallel.
// Employees outside the session's scope are reported as not found.
func (s *LeaveServiceImpl) load(ctx context.Context, q leave.EmployeePeriodQuery) (employee.Employee, calendar.Range, []attendance.Record, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return employee.Employee{}, calendar.Range{}, nil, err
	}
	scope, _ := sess.Constrain(employee.Filter{})
	rng := q.Range(s.loc)

	var (
		emp     employee.Employee
		found   bool
		records []attendance.Record
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		for _, e := range list {
			if e.ID == q.EmployeeID {
				emp, found = e, true
				break
			}
		}
		return nil
	})
	if rng.Valid() {
		g.Go(func() error {
			list, err := s.attendanceRepo.List(gCtx, attendance.ListFilter{Range: rng, EmployeeID: q.EmployeeID})
			if err != nil {
				return fmt.Errorf("failed to load attendance: %w", err)
			}
			records = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return employee.Employee{}, calendar.Range{}, nil, err
	}

	if !found || !scope.Match(emp) {
		return employee.Employee{}, calendar.Range{}, nil, employee.ErrEmployeeNotFound
	}

	// the backend filters by employee, but a stray row must not skew totals
	own := records[:0:0]
	for _, r := range records {
		if r.Employee.ID == emp.ID && rng.Contains(r.Date) {
			own = append(own, r)
		}
	}
	return emp, rng, own, nil
}

func (s *LeaveServiceImpl) Insight(ctx context.Context, q leave.EmployeePeriodQuery) (leave.InsightResponse, error) {
	emp, rng, records, err := s.load(ctx, q)
	if err != nil {
		return leave.InsightResponse{}, err
	}

	summary := attendance.Summarize(records)
	return leave.InsightResponse{
		Employee: employee.NewEmployeeResponse(emp),
		From:     rng.From,
		To:       rng.To,
		Summary:  summary,
		Chart:    summary.Chart(),
	}, nil
}

func (s *LeaveServiceImpl) Details(ctx context.Context, q leave.EmployeePeriodQuery) (leave.DetailsResponse, error) {
	emp, rng, records, err := s.load(ctx, q)
	if err != nil {
		return leave.DetailsResponse{}, err
	}

	byStatus := make(map[attendance.Status][]attendance.Record)
	for _, r := range records {
		if r.Status.IsLeave() {
			byStatus[r.Status] = append(byStatus[r.Status], r)
		}
	}

	groups := make([]leave.Group, 0, len(byStatus))
	for _, st := range attendance.LeaveStatuses() {
		list := byStatus[st]
		if len(list) == 0 {
			continue
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })

		g := leave.Group{Status: st, Style: st.Style(), Records: make([]attendance.RecordResponse, 0, len(list))}
		for _, r := range list {
			g.Records = append(g.Records, attendance.NewRecordResponse(r))
		}
		groups = append(groups, g)
	}

	return leave.DetailsResponse{
		Employee: emp.Ref(),
		From:     rng.From,
		To:       rng.To,
		Groups:   groups,
	}, nil
}

// SaveNotes compares each submitted note with the stored one and writes
// only the changed ones. Every id must be a leave record of the employee in
// the period.
func (s *LeaveServiceImpl) SaveNotes(ctx context.Context, req leave.SaveNotesRequest) (leave.SaveNotesResponse, error) {
	_, _, records, err := s.load(ctx, req.EmployeePeriodQuery)
	if err != nil {
		return leave.SaveNotesResponse{}, err
	}

	stored := make(map[string]attendance.Record, len(records))
	for _, r := range records {
		if r.ID != "" && r.Status.IsLeave() {
			stored[r.ID] = r
		}
	}

	changed := make([]string, 0, len(req.Notes))
	for id, note := range req.Notes {
		rec, ok := stored[id]
		if !ok {
			return leave.SaveNotesResponse{}, fmt.Errorf("%w: %s", leave.ErrRecordNotInView, id)
		}
		if rec.Note != note {
			changed = append(changed, id)
		}
	}
	if len(changed) == 0 {
		return leave.SaveNotesResponse{}, leave.ErrNothingToSave
	}
	sort.Strings(changed)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelNotes)
	for _, id := range changed {
		g.Go(func() error {
			return s.attendanceService.UpdateNote(gCtx, attendance.NoteRequest{RecordID: id, Note: req.Notes[id]})
		})
	}
	if err := g.Wait(); err != nil {
		return leave.SaveNotesResponse{}, err
	}

	slog.Info("Leave notes saved", "employee_id", req.EmployeeID, "count", len(changed))
	return leave.SaveNotesResponse{Saved: changed}, nil
}
