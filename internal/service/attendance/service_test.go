package attendance

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmployeeRepo struct {
	employees []employee.Employee
	calls     atomic.Int32
}

func (f *fakeEmployeeRepo) List(ctx context.Context) ([]employee.Employee, error) {
	f.calls.Add(1)
	return append([]employee.Employee(nil), f.employees...), nil
}

func (f *fakeEmployeeRepo) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	return e, nil
}

func (f *fakeEmployeeRepo) Delete(ctx context.Context, id string) error { return nil }

type fakeAttendanceRepo struct {
	mu      sync.Mutex
	records []attendance.Record
	calls   int
	// gate, when set, is called with the 1-based List call number before
	// the records are returned.
	gate    func(call int, records []attendance.Record) []attendance.Record
	markErr error
	echo    bool
	notes   map[string]string
}

func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	var out []attendance.Record
	for _, r := range f.records {
		if !filter.Range.Contains(r.Date) {
			continue
		}
		if filter.EmployeeID != "" && r.Employee.ID != filter.EmployeeID {
			continue
		}
		out = append(out, r)
	}
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		out = gate(call, out)
	}
	return out, nil
}

func (f *fakeAttendanceRepo) Mark(ctx context.Context, m attendance.Mark) (attendance.Record, error) {
	if f.markErr != nil {
		return attendance.Record{}, f.markErr
	}
	rec := attendance.Record{
		Employee: employee.Ref{ID: m.EmployeeID},
		Date:     m.Date,
		Status:   m.Status,
		Note:     m.Note,
	}
	if f.echo {
		rec.ID = "srv-" + m.EmployeeID + "-" + m.Date.String()
	}
	f.mu.Lock()
	stored := rec
	stored.ID = "srv-" + m.EmployeeID + "-" + m.Date.String()
	f.records = append(f.records, stored)
	f.mu.Unlock()
	return rec, nil
}

func (f *fakeAttendanceRepo) UpdateNote(ctx context.Context, recordID, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notes == nil {
		f.notes = map[string]string{}
	}
	f.notes[recordID] = note
	return nil
}

func (f *fakeAttendanceRepo) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

var (
	jan1 = calendar.New(2024, 1, 1)
	jan2 = calendar.New(2024, 1, 2)
)

func newFixture() (*fakeEmployeeRepo, *fakeAttendanceRepo, *AttendanceServiceImpl) {
	emps := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "a", Name: "Asha", Code: "E1", TeamType: "On Going", Shift: "Day Shift"},
		{ID: "b", Name: "Bala", Code: "E2", TeamType: "FTE", Shift: "Night Shift"},
	}}
	recs := &fakeAttendanceRepo{records: []attendance.Record{
		{ID: "r1", Employee: employee.Ref{ID: "a"}, Date: jan1, Status: attendance.StatusPresent},
	}}
	svc := NewAttendanceService(emps, recs, NewViewStore(time.Hour), time.UTC).(*AttendanceServiceImpl)
	return emps, recs, svc
}

func sessionCtx(role auth.Role, scope auth.Scope) context.Context {
	return auth.WithSession(context.Background(), auth.Session{
		AccessToken: "session-1",
		Role:        role,
		Scope:       scope,
	})
}

func janQuery() attendance.MatrixQuery {
	return attendance.MatrixQuery{PeriodQuery: attendance.PeriodQuery{From: "2024-01-01", To: "2024-01-02"}}
}

func TestMatrix(t *testing.T) {
	_, _, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	resp, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)

	assert.Equal(t, []calendar.Date{jan1, jan2}, resp.Dates)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, 1, resp.Rows[0].Seq)
	assert.Equal(t, attendance.StatusPresent, resp.Rows[0].Cells[0].Status)
	assert.Equal(t, "r1", resp.Rows[0].Cells[0].RecordID)
	assert.Empty(t, resp.Rows[0].Cells[1].Status)
	assert.Equal(t, attendance.DefaultStyle, resp.Rows[1].Cells[0].Style)
	assert.Equal(t, []string{"On Going", "FTE"}, resp.Options.TeamTypes)
	assert.False(t, resp.Lock.Any())
}

func TestMatrix_ScopedAdminIsLocked(t *testing.T) {
	_, _, svc := newFixture()
	ctx := sessionCtx(auth.RoleAdmin, auth.Scope{TeamType: "FTE"})

	q := janQuery()
	q.TeamType = "On Going"
	resp, err := svc.Matrix(ctx, q)
	require.NoError(t, err)

	assert.True(t, resp.Lock.TeamType)
	assert.False(t, resp.Lock.Shift)
	assert.Equal(t, "FTE", resp.Filter.TeamType)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "b", resp.Rows[0].Employee.ID)
}

func TestMatrix_NoSession(t *testing.T) {
	_, _, svc := newFixture()
	_, err := svc.Matrix(context.Background(), janQuery())
	assert.ErrorIs(t, err, auth.ErrNoSession)
}

func TestMatrix_ReusesViewUntilRefresh(t *testing.T) {
	emps, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	_, err = svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, recs.listCalls())
	assert.EqualValues(t, 1, emps.calls.Load())

	q := janQuery()
	q.Refresh = true
	_, err = svc.Matrix(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, recs.listCalls())

	q = attendance.MatrixQuery{PeriodQuery: attendance.PeriodQuery{Month: "2024-02"}}
	resp, err := svc.Matrix(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, recs.listCalls(), "a new range reloads")
	assert.Len(t, resp.Dates, 29)
}

func TestMatrix_InvertedRangeIsEmpty(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	q := attendance.MatrixQuery{PeriodQuery: attendance.PeriodQuery{From: "2024-01-05", To: "2024-01-01"}}
	resp, err := svc.Matrix(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, resp.Dates)
	require.Len(t, resp.Rows, 2)
	assert.Empty(t, resp.Rows[0].Cells)
	assert.Zero(t, recs.listCalls())
}

func TestMatrix_StaleLoadIsNotCommitted(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	release := make(chan struct{})
	started := make(chan struct{})
	recs.gate = func(call int, out []attendance.Record) []attendance.Record {
		if call == 1 {
			close(started)
			<-release
			// the slow response carries outdated data
			return []attendance.Record{{ID: "old", Employee: employee.Ref{ID: "a"}, Date: jan1, Status: attendance.StatusNCNS}}
		}
		return out
	}

	slow := make(chan attendance.MatrixResponse)
	go func() {
		resp, err := svc.Matrix(ctx, janQuery())
		assert.NoError(t, err)
		slow <- resp
	}()
	<-started

	q := janQuery()
	q.Refresh = true
	fresh, err := svc.Matrix(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, fresh.Rows[0].Cells[0].Status)

	close(release)
	stale := <-slow
	assert.Equal(t, attendance.StatusNCNS, stale.Rows[0].Cells[0].Status, "caller still gets its own data")
	assert.Less(t, stale.Generation, fresh.Generation)

	cached, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, cached.Rows[0].Cells[0].Status)
	assert.Equal(t, fresh.Generation, cached.Generation)
}

func TestMark_UpdatesViewInPlace(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)

	req := attendance.MarkRequest{EmployeeID: "b", Date: "2024-01-02", Status: string(attendance.StatusSickLeave)}
	require.NoError(t, req.Validate())
	rec, err := svc.Mark(ctx, req)
	require.NoError(t, err)
	assert.True(t, isPlaceholder(rec.ID), "unechoed marks get a local id")

	resp, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, recs.listCalls(), "no reload needed")
	cell := resp.Rows[1].Cells[1]
	assert.Equal(t, attendance.StatusSickLeave, cell.Status)
	assert.Equal(t, attendance.StatusSickLeave.Style(), cell.Style)
	assert.Equal(t, rec.ID, cell.RecordID)

	// overwrite an existing cell, keeping its id
	req = attendance.MarkRequest{EmployeeID: "a", Date: "2024-01-01", Status: string(attendance.StatusWFH)}
	rec, err = svc.Mark(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.ID)
}

func TestMark_EchoedRecordWins(t *testing.T) {
	_, recs, svc := newFixture()
	recs.echo = true
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)

	rec, err := svc.Mark(ctx, attendance.MarkRequest{EmployeeID: "b", Date: "2024-01-01", Status: string(attendance.StatusWFH)})
	require.NoError(t, err)
	assert.Equal(t, "srv-b-2024-01-01", rec.ID)

	resp, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, "srv-b-2024-01-01", resp.Rows[1].Cells[0].RecordID)
}

func TestMark_FailureLeavesViewUnchanged(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)

	boom := errors.New("upstream down")
	recs.markErr = boom
	_, err = svc.Mark(ctx, attendance.MarkRequest{EmployeeID: "a", Date: "2024-01-01", Status: string(attendance.StatusLOP)})
	assert.ErrorIs(t, err, boom)

	resp, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Rows[0].Cells[0].Status)
}

func TestUpdateNote(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateNote(ctx, attendance.NoteRequest{RecordID: "r1", Note: "late bus"}))
	assert.Equal(t, "late bus", recs.notes["r1"])

	resp, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, "late bus", resp.Rows[0].Cells[0].Note)
}

func TestUpdateNote_ResolvesPlaceholder(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	rec, err := svc.Mark(ctx, attendance.MarkRequest{EmployeeID: "b", Date: "2024-01-02", Status: string(attendance.StatusCasualLeave)})
	require.NoError(t, err)
	require.True(t, isPlaceholder(rec.ID))

	require.NoError(t, svc.UpdateNote(ctx, attendance.NoteRequest{RecordID: rec.ID, Note: "wedding"}))
	assert.Equal(t, "wedding", recs.notes["srv-b-2024-01-02"])

	resp, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	cell := resp.Rows[1].Cells[1]
	assert.Equal(t, "srv-b-2024-01-02", cell.RecordID)
	assert.Equal(t, "wedding", cell.Note)

	err = svc.UpdateNote(ctx, attendance.NoteRequest{RecordID: placeholderPrefix + "missing", Note: "x"})
	assert.ErrorIs(t, err, attendance.ErrRecordNotFound)
}

func TestSnapshot(t *testing.T) {
	_, _, svc := newFixture()
	ctx := sessionCtx(auth.RoleAdmin, auth.Scope{Shift: "Day Shift"})

	snap, err := svc.Snapshot(ctx, attendance.MatrixQuery{PeriodQuery: attendance.PeriodQuery{Month: "2024-01"}})
	require.NoError(t, err)
	assert.Equal(t, "2024-01", snap.Period)
	assert.Len(t, snap.Dates, 31)
	require.Len(t, snap.Employees, 1)
	assert.Equal(t, "a", snap.Employees[0].ID)
	assert.Equal(t, "Day Shift", snap.Filter.Shift)
	assert.Equal(t, 1, snap.Index.Len())
}

func TestForget(t *testing.T) {
	_, recs, svc := newFixture()
	ctx := sessionCtx(auth.RoleSuper, auth.Scope{})

	_, err := svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	svc.Forget("session-1")
	_, err = svc.Matrix(ctx, janQuery())
	require.NoError(t, err)
	assert.Equal(t, 2, recs.listCalls())
}

func TestViewStore_EvictIdle(t *testing.T) {
	store := NewViewStore(10 * time.Minute)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Get("old")
	now = now.Add(8 * time.Minute)
	fresh := store.Get("fresh")
	fresh.Begin(now)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, store.EvictIdle())
	_, ok := store.Peek("old")
	assert.False(t, ok)
	_, ok = store.Peek("fresh")
	assert.True(t, ok)
	assert.Equal(t, 1, store.Len())
}

func TestStatuses(t *testing.T) {
	_, _, svc := newFixture()
	assert.Len(t, svc.Statuses(), 18)
}
