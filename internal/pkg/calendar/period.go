package calendar

import (
	"fmt"
	"strings"
	"time"
)

const layoutMonth = "2006-01"

// Month is a calendar month token such as "2024-02".
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(layoutMonth, strings.TrimSpace(s))
	if err != nil {
		return Month{}, fmt.Errorf("%w: month %q", ErrInvalidDate, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func MonthOf(d Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

func (m Month) First() Date {
	return Date{Year: m.Year, Month: m.Month, Day: 1}
}

// Last is day zero of the following month, which time.Date normalizes.
func (m Month) Last() Date {
	return New(m.Year, m.Month+1, 0)
}

func (m Month) Range() Range {
	return Range{From: m.First(), To: m.Last()}
}

func (m Month) Days() []Date {
	return m.Range().Days()
}

// Range is an inclusive span of civil days.
type Range struct {
	From Date
	To   Date
}

// Valid reports whether From is on or before To.
func (r Range) Valid() bool {
	return !r.From.After(r.To)
}

// Days lists every day from From to To inclusive. An inverted range yields
// an empty slice rather than an error.
func (r Range) Days() []Date {
	if !r.Valid() {
		return []Date{}
	}
	days := make([]Date, 0, 31)
	for d := r.From; !d.After(r.To); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

func (r Range) Contains(d Date) bool {
	return !d.Before(r.From) && !d.After(r.To)
}

// Days is shorthand for Range{from, to}.Days().
func Days(from, to Date) []Date {
	return Range{From: from, To: to}.Days()
}
