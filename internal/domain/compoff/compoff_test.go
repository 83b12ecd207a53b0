package compoff

import (
	"testing"

	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.Label())
	assert.Equal(t, "0.5 day taken", StatusHalfTaken.Label())
	assert.Equal(t, "Leave taken", StatusTaken.Label())
	assert.Equal(t, "Paid", StatusPaid.Label())
	assert.Equal(t, "LEGACY", Status("LEGACY").Label())
	assert.False(t, Status("LEGACY").Valid())
	assert.Len(t, Statuses(), 4)
}

func TestSaveRequest_CreateRequiresEmployeeAndWorkDate(t *testing.T) {
	req := SaveRequest{Remark: "weekend release"}
	err := req.Validate()
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Employee and Work Date are required", verrs.ToMap()["work_date"])
}

func TestSaveRequest_DefaultsToPending(t *testing.T) {
	req := SaveRequest{EmployeeID: "e1", WorkDate: "2024-02-03"}
	require.NoError(t, req.Validate())
	assert.Equal(t, string(StatusPending), req.Status)

	c := req.CompOff()
	assert.Equal(t, "e1", c.Employee.ID)
	assert.Equal(t, calendar.New(2024, 2, 3), c.WorkDate)
	assert.Nil(t, c.LeaveDate)
}

func TestSaveRequest_UpdateAnyTransition(t *testing.T) {
	// workflow is open: PAID back to PENDING is accepted
	req := SaveRequest{ID: "c1", Status: "PENDING", LeaveDate: "2024-02-10"}
	require.NoError(t, req.Validate())
	assert.True(t, req.IsUpdate())

	c := req.CompOff()
	require.NotNil(t, c.LeaveDate)
	assert.Equal(t, "2024-02-10", c.LeaveDate.String())

	bad := SaveRequest{ID: "c1", Status: "DONE"}
	assert.Error(t, bad.Validate())
}

func TestInPeriod(t *testing.T) {
	r := calendar.Range{From: calendar.New(2024, 3, 1), To: calendar.New(2024, 3, 31)}
	leave := calendar.New(2024, 3, 5)

	assert.True(t, CompOff{WorkDate: calendar.New(2024, 3, 31)}.InPeriod(r))
	assert.True(t, CompOff{WorkDate: calendar.New(2024, 2, 20), LeaveDate: &leave}.InPeriod(r))
	assert.False(t, CompOff{WorkDate: calendar.New(2024, 2, 20)}.InPeriod(r))
}
