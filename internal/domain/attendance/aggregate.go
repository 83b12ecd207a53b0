package attendance

import "github.com/shopspring/decimal"

// SummaryRow is one weighted status that occurred at least once.
type SummaryRow struct {
	Status     Status  `json:"status"`
	Count      int     `json:"count"`
	Equivalent float64 `json:"equivalent"`
}

// Summary is the leave accounting for a set of records.
type Summary struct {
	Counts         map[Status]int `json:"counts"`
	DayRows        []SummaryRow   `json:"day_rows"`
	HourRows       []SummaryRow   `json:"hour_rows"`
	DayEquivalent  float64        `json:"day_equivalent"`
	HourEquivalent float64        `json:"hour_equivalent"`
}

// Summarize counts every catalog status and totals day and hour
// equivalents. Records with codes outside the catalog are ignored.
func Summarize(records []Record) Summary {
	counts := make(map[Status]int, len(catalog))
	for _, d := range catalog {
		counts[d.Code] = 0
	}
	for _, r := range records {
		if _, ok := counts[r.Status]; ok {
			counts[r.Status]++
		}
	}

	s := Summary{
		Counts:   counts,
		DayRows:  []SummaryRow{},
		HourRows: []SummaryRow{},
	}
	// half-day weights are summed exactly
	days, hours := decimal.Zero, decimal.Zero
	for _, d := range catalog {
		n := counts[d.Code]
		if n == 0 {
			continue
		}
		switch {
		case d.IsDayLeave():
			eq := decimal.NewFromFloat(d.DayWeight).Mul(decimal.NewFromInt(int64(n)))
			s.DayRows = append(s.DayRows, SummaryRow{Status: d.Code, Count: n, Equivalent: eq.InexactFloat64()})
			days = days.Add(eq)
		case d.IsHourLeave():
			eq := decimal.NewFromFloat(d.HourWeight).Mul(decimal.NewFromInt(int64(n)))
			s.HourRows = append(s.HourRows, SummaryRow{Status: d.Code, Count: n, Equivalent: eq.InexactFloat64()})
			hours = hours.Add(eq)
		}
	}
	s.DayEquivalent = days.InexactFloat64()
	s.HourEquivalent = hours.InexactFloat64()
	return s
}

// ChartPoint is one bar of the per-status chart.
type ChartPoint struct {
	Status Status `json:"status"`
	Days   int    `json:"days"`
}

// Chart projects the counts onto ChartStatuses, keeping zero bars.
func (s Summary) Chart() []ChartPoint {
	statuses := ChartStatuses()
	out := make([]ChartPoint, len(statuses))
	for i, st := range statuses {
		out[i] = ChartPoint{Status: st, Days: s.Counts[st]}
	}
	return out
}
