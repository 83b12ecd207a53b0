// Package calendar works with civil days: a year, month and day with no
// time-of-day and no zone. Arithmetic is done on normalized UTC instants so
// daylight-saving shifts never skip or repeat a day.
package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const layoutDay = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

// Date is a civil day. The zero value is not a valid date.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// New normalizes out-of-range components, so New(2024, 2, 30) is 2024-03-01.
func New(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime takes the civil day of t in t's own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current civil day in loc.
func Today(loc *time.Location) Date {
	return FromTime(time.Now().In(loc))
}

// Parse accepts YYYY-MM-DD only.
func Parse(s string) (Date, error) {
	t, err := time.Parse(layoutDay, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return FromTime(t), nil
}

// ParseIn accepts YYYY-MM-DD as-is, or an RFC 3339 timestamp which is
// converted to loc before its civil day is taken.
func ParseIn(s string, loc *time.Location) (Date, error) {
	s = strings.TrimSpace(s)
	if len(s) == len(layoutDay) {
		return Parse(s)
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	if loc == nil {
		loc = time.UTC
	}
	return FromTime(t.In(loc)), nil
}

func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Format renders d with a time layout, e.g. "02-Jan".
func (d Date) Format(layout string) string {
	return d.Time(time.UTC).Format(layout)
}

func (d Date) AddDays(n int) Date {
	return New(d.Year, d.Month, d.Day+n)
}

func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }

func (d Date) MarshalText() ([]byte, error) {
	if d.IsZero() {
		return []byte{}, nil
	}
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseIn(string(b), time.UTC)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
