package calendar

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthRange(t *testing.T) {
	tests := []struct {
		token string
		days  int
		last  string
	}{
		{"2024-01", 31, "2024-01-31"},
		{"2024-02", 29, "2024-02-29"},
		{"2023-02", 28, "2023-02-28"},
		{"1900-02", 28, "1900-02-28"},
		{"2000-02", 29, "2000-02-29"},
		{"2024-04", 30, "2024-04-30"},
		{"2024-12", 31, "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			m, err := ParseMonth(tt.token)
			require.NoError(t, err)

			days := m.Days()
			require.Len(t, days, tt.days)
			assert.Equal(t, 1, days[0].Day)
			assert.Equal(t, tt.last, days[len(days)-1].String())

			for i := 1; i < len(days); i++ {
				assert.Equal(t, days[i-1].AddDays(1), days[i], "gap at %d", i)
			}
		})
	}
}

func TestParseMonth_Invalid(t *testing.T) {
	for _, in := range []string{"", "2024", "2024-13", "Jan 2024"} {
		_, err := ParseMonth(in)
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestRangeDays(t *testing.T) {
	from := New(2024, time.January, 30)
	to := New(2024, time.February, 2)

	days := Days(from, to)
	require.Len(t, days, 4)
	assert.Equal(t, "2024-01-30", days[0].String())
	assert.Equal(t, "2024-02-02", days[3].String())

	single := Days(from, from)
	assert.Equal(t, []Date{from}, single)
}

func TestRangeDays_Inverted(t *testing.T) {
	days := Days(New(2024, time.March, 5), New(2024, time.March, 1))
	assert.NotNil(t, days)
	assert.Empty(t, days)
}

func TestRangeContains(t *testing.T) {
	r := Range{From: New(2024, 1, 10), To: New(2024, 1, 20)}
	assert.True(t, r.Contains(New(2024, 1, 10)))
	assert.True(t, r.Contains(New(2024, 1, 20)))
	assert.False(t, r.Contains(New(2024, 1, 9)))
	assert.False(t, r.Contains(New(2024, 1, 21)))
}

func TestParseIn(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	d, err := ParseIn("2024-03-10", kolkata)
	require.NoError(t, err)
	assert.Equal(t, New(2024, 3, 10), d)

	// 20:00 UTC is already the next day in +05:30
	d, err = ParseIn("2024-03-10T20:00:00.000Z", kolkata)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-11", d.String())

	d, err = ParseIn("2024-03-10T20:00:00Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", d.String())

	_, err = ParseIn("10/03/2024", kolkata)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAddDaysAcrossDST(t *testing.T) {
	// US DST starts 2024-03-10; civil arithmetic must not skip or repeat.
	d := New(2024, 3, 9)
	assert.Equal(t, "2024-03-10", d.AddDays(1).String())
	assert.Equal(t, "2024-03-11", d.AddDays(2).String())
	assert.Equal(t, "2023-12-31", New(2024, 1, 1).AddDays(-1).String())
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Date Date `json:"date"`
	}

	b, err := json.Marshal(payload{Date: New(2024, 5, 7)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-07"}`, string(b))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-05-07"}`), &p))
	assert.Equal(t, New(2024, 5, 7), p.Date)
}

func TestCompare(t *testing.T) {
	a := New(2024, 1, 31)
	b := New(2024, 2, 1)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.Equal(t, 0, a.Compare(New(2024, 1, 31)))
	assert.Equal(t, "31-Jan", a.Format("02-Jan"))
}
