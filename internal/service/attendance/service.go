package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// placeholderPrefix marks record ids invented locally after a mark the
// backend did not echo. They are swapped for the real id on first use.
const placeholderPrefix = "local-"

func isPlaceholder(id string) bool {
	return strings.HasPrefix(id, placeholderPrefix)
}

type AttendanceServiceImpl struct {
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	views          *ViewStore
	loc            *time.Location
	now            func() time.Time
}

func NewAttendanceService(
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	views *ViewStore,
	loc *time.Location,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		views:          views,
		loc:            loc,
		now:            time.Now,
	}
}

type loaded struct {
	rng        calendar.Range
	employees  []employee.Employee
	index      *attendance.Index
	generation uint64
}

// load returns the session's data for the query's range, reusing the cached
// view unless a refresh is asked for or the range changed.
func (s *AttendanceServiceImpl) load(ctx context.Context, sess auth.Session, q attendance.MatrixQuery) (loaded, error) {
	rng := q.Range(s.loc)
	view := s.views.Get(sess.SessionKey())

	if !q.Refresh {
		if emps, idx, gen, ok := view.Cached(rng, s.now()); ok {
			return loaded{rng: rng, employees: emps, index: idx, generation: gen}, nil
		}
	}

	gen := view.Begin(s.now())

	var (
		employees []employee.Employee
		records   []attendance.Record
	)
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.employeeRepo.List(gCtx)
		if err != nil {
			return fmt.Errorf("failed to load employees: %w", err)
		}
		employees = list
		return nil
	})
	if rng.Valid() {
		g.Go(func() error {
			list, err := s.attendanceRepo.List(gCtx, attendance.ListFilter{Range: rng})
			if err != nil {
				return fmt.Errorf("failed to load attendance: %w", err)
			}
			records = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return loaded{}, err
	}

	idx := attendance.NewIndex(records)
	if !view.Commit(gen, rng, employees, idx.Clone()) {
		slog.Debug("Discarded stale attendance load",
			"user_id", sess.UserID,
			"generation", gen,
			"current", view.Generation(),
		)
	}
	return loaded{rng: rng, employees: employees, index: idx, generation: gen}, nil
}

func (s *AttendanceServiceImpl) Matrix(ctx context.Context, q attendance.MatrixQuery) (attendance.MatrixResponse, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return attendance.MatrixResponse{}, err
	}
	filter, lock := sess.Constrain(q.Filter())

	l, err := s.load(ctx, sess, q)
	if err != nil {
		return attendance.MatrixResponse{}, err
	}

	dates := l.rng.Days()
	return attendance.MatrixResponse{
		From:       l.rng.From,
		To:         l.rng.To,
		Dates:      dates,
		Rows:       attendance.BuildRows(filter.Apply(l.employees), dates, l.index),
		Filter:     filter,
		Lock:       lock,
		Options:    employee.Options(l.employees),
		Generation: l.generation,
	}, nil
}

func (s *AttendanceServiceImpl) Snapshot(ctx context.Context, q attendance.MatrixQuery) (attendance.Snapshot, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return attendance.Snapshot{}, err
	}
	filter, _ := sess.Constrain(q.Filter())

	l, err := s.load(ctx, sess, q)
	if err != nil {
		return attendance.Snapshot{}, err
	}

	return attendance.Snapshot{
		Range:     l.rng,
		Dates:     l.rng.Days(),
		Employees: filter.Apply(l.employees),
		Index:     l.index,
		Filter:    filter,
		Period:    q.Token(s.loc),
	}, nil
}

// Mark records a status upstream, then applies it to the session's view.
// A failed call leaves the view untouched.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req attendance.MarkRequest) (attendance.RecordResponse, error) {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	day := req.Day()
	status := attendance.Status(req.Status)
	rec, err := s.attendanceRepo.Mark(ctx, attendance.Mark{
		EmployeeID: req.EmployeeID,
		Date:       day,
		Status:     status,
		Note:       req.Note,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	})
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	if view, ok := s.views.Peek(sess.SessionKey()); ok {
		view.Update(func(rng calendar.Range, idx *attendance.Index) {
			if !rng.Contains(day) {
				return
			}
			if rec.ID != "" {
				idx.Put(rec)
				return
			}
			template := rec
			if _, exists := idx.Get(req.EmployeeID, day); !exists {
				template.ID = placeholderPrefix + uuid.NewString()
			}
			rec = idx.SetStatus(template, status)
			if req.Note != "" && rec.ID != "" {
				idx.SetNote(rec.ID, req.Note)
				rec.Note = req.Note
			}
		})
	}

	return attendance.NewRecordResponse(rec), nil
}

// UpdateNote saves a note upstream and mirrors it into the session's view.
func (s *AttendanceServiceImpl) UpdateNote(ctx context.Context, req attendance.NoteRequest) error {
	sess, err := auth.SessionFromContext(ctx)
	if err != nil {
		return err
	}

	recordID := req.RecordID
	if isPlaceholder(recordID) {
		recordID, err = s.resolvePlaceholder(ctx, sess, req.RecordID)
		if err != nil {
			return err
		}
	}

	if err := s.attendanceRepo.UpdateNote(ctx, recordID, req.Note); err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	if view, ok := s.views.Peek(sess.SessionKey()); ok {
		view.Update(func(_ calendar.Range, idx *attendance.Index) {
			if recordID == req.RecordID {
				idx.SetNote(recordID, req.Note)
				return
			}
			if rec, ok := idx.GetByID(req.RecordID); ok {
				rec.ID = recordID
				rec.Note = req.Note
				idx.Put(rec)
			}
		})
	}
	return nil
}

// resolvePlaceholder finds the backend id of a locally marked cell by
// re-reading that one employee-day.
func (s *AttendanceServiceImpl) resolvePlaceholder(ctx context.Context, sess auth.Session, placeholder string) (string, error) {
	view, ok := s.views.Peek(sess.SessionKey())
	if !ok {
		return "", attendance.ErrRecordNotFound
	}

	var local attendance.Record
	found := false
	view.Update(func(_ calendar.Range, idx *attendance.Index) {
		local, found = idx.GetByID(placeholder)
	})
	if !found {
		return "", attendance.ErrRecordNotFound
	}

	records, err := s.attendanceRepo.List(ctx, attendance.ListFilter{
		Range:      calendar.Range{From: local.Date, To: local.Date},
		EmployeeID: local.Employee.ID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve record: %w", err)
	}
	for _, r := range records {
		if r.Key() == local.Key() && r.ID != "" {
			return r.ID, nil
		}
	}
	return "", attendance.ErrRecordNotFound
}

func (s *AttendanceServiceImpl) Statuses() []attendance.StatusDefinition {
	return attendance.Catalog()
}

func (s *AttendanceServiceImpl) Forget(sessionKey string) {
	s.views.Forget(sessionKey)
}
