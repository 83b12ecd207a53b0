package compoff

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCompOffRepo struct {
	items   map[string]compoff.CompOff
	updates []compoff.CompOff
}

func (m *memoryCompOffRepo) List(ctx context.Context, employeeID string) ([]compoff.CompOff, error) {
	var out []compoff.CompOff
	for _, c := range m.items {
		if employeeID == "" || c.Employee.ID == employeeID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memoryCompOffRepo) Create(ctx context.Context, c compoff.CompOff) (compoff.CompOff, error) {
	c.ID = "c-new"
	m.items[c.ID] = c
	return c, nil
}

func (m *memoryCompOffRepo) Update(ctx context.Context, c compoff.CompOff) (compoff.CompOff, error) {
	cur, ok := m.items[c.ID]
	if !ok {
		return compoff.CompOff{}, compoff.ErrCompOffNotFound
	}
	m.updates = append(m.updates, c)
	cur.LeaveDate, cur.Status, cur.Remark = c.LeaveDate, c.Status, c.Remark
	m.items[c.ID] = cur
	return cur, nil
}

func (m *memoryCompOffRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return compoff.ErrCompOffNotFound
	}
	delete(m.items, id)
	return nil
}

func TestSave_CreateDefaultsToPending(t *testing.T) {
	repo := &memoryCompOffRepo{items: map[string]compoff.CompOff{}}
	svc := NewCompOffService(repo)

	req := compoff.SaveRequest{EmployeeID: "e1", WorkDate: "2024-03-02"}
	require.NoError(t, req.Validate())
	resp, err := svc.Save(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "c-new", resp.ID)
	assert.Equal(t, compoff.StatusPending, resp.Status)
	assert.Equal(t, "Pending", resp.StatusLabel)
	assert.Equal(t, calendar.New(2024, 3, 2), resp.WorkDate)
	assert.Nil(t, resp.LeaveDate)
}

func TestSave_UpdateAnyTransition(t *testing.T) {
	repo := &memoryCompOffRepo{items: map[string]compoff.CompOff{
		"c1": {ID: "c1", Employee: employee.Ref{ID: "e1", Name: "Asha"}, WorkDate: calendar.New(2024, 3, 2), Status: compoff.StatusPaid},
	}}
	svc := NewCompOffService(repo)

	req := compoff.SaveRequest{ID: "c1", LeaveDate: "2024-03-09", Status: string(compoff.StatusHalfTaken)}
	require.NoError(t, req.Validate())
	resp, err := svc.Save(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, compoff.StatusHalfTaken, resp.Status)
	assert.Equal(t, "0.5 day taken", resp.StatusLabel)
	require.NotNil(t, resp.LeaveDate)
	assert.Equal(t, "2024-03-09", resp.LeaveDate.String())
	assert.Equal(t, "Asha", resp.Employee.Name)
	assert.Equal(t, calendar.New(2024, 3, 2), repo.items["c1"].WorkDate, "work date is immutable")
}

func TestListAndDelete(t *testing.T) {
	repo := &memoryCompOffRepo{items: map[string]compoff.CompOff{
		"c1": {ID: "c1", Employee: employee.Ref{ID: "e1"}, Status: compoff.StatusTaken},
		"c2": {ID: "c2", Employee: employee.Ref{ID: "e2"}, Status: compoff.StatusPending},
	}}
	svc := NewCompOffService(repo)
	ctx := context.Background()

	list, err := svc.List(ctx, compoff.ListFilter{EmployeeID: "e1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "bg-rose-600 text-white", list[0].Style)

	require.NoError(t, svc.Delete(ctx, "c2"))
	assert.ErrorIs(t, svc.Delete(ctx, "c2"), compoff.ErrCompOffNotFound)
}
