package export

import (
	"testing"

	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScopeTag(t *testing.T) {
	assert.Equal(t, "2024-01", ScopeTag("2024-01", "", ""))
	assert.Equal(t, "2024-01_On_Going", ScopeTag("2024-01", "On Going", ""))
	assert.Equal(t, "2024-01_On_Going_Night_Shift", ScopeTag("2024-01", "On  Going", "Night\tShift"))
	assert.Equal(t, "2024-01_Day_Shift", ScopeTag("2024-01", "", "Day Shift"))
	assert.Equal(t, "2024-01_R&D_QA", ScopeTag("2024-01", "R&D/QA", ""))
	assert.Equal(t, "2024-01_x_.._.._shared", ScopeTag("2024-01", "x/../../shared", ""))
}

func TestSanitizeLabel(t *testing.T) {
	cases := map[string]string{
		"On Going":      "On_Going",
		`a\b:c*d?e"f`:   "a_b_c_d_e_f",
		"<x>|y":         "_x_y",
		"../etc/passwd": "__etc_passwd",
		".hidden":       "_hidden",
		"a / b":         "a_b",
		"":              "",
	}
	for in, want := range cases {
		got := SanitizeLabel(in)
		assert.Equal(t, want, got, in)
		assert.NotContains(t, got, "/")
	}
}

func TestFullExportRequest(t *testing.T) {
	req := FullExportRequest{From: "2024-01-01", To: "2024-01-31"}
	require.NoError(t, req.Validate())
	assert.True(t, req.IsAll())
	assert.Len(t, req.Range().Days(), 31)

	req = FullExportRequest{EmployeeID: "e1", From: "2024-02-01", To: "2024-01-01"}
	err := req.Validate()
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "From date cannot be after To date", verrs.ToMap()["from"])

	req = FullExportRequest{From: "2024-02-01"}
	require.ErrorAs(t, req.Validate(), &verrs)
	assert.Equal(t, "Please select From and To dates.", verrs.ToMap()["from"])
}
