package attendance

// Status is an attendance code as stored by the backend, e.g. "CASUAL LEAVE".
type Status string

const (
	StatusPresent         Status = "PRESENT"
	StatusWFH             Status = "WFH"
	StatusCasualLeave     Status = "CASUAL LEAVE"
	StatusSickLeave       Status = "SICK LEAVE"
	StatusSession1Leave   Status = "SESSION_01 LEAVE"
	StatusSession2Leave   Status = "SESSION_02 LEAVE"
	StatusCompOff         Status = "COMP-OFF"
	StatusPhoneIntimation Status = "PHONE INTIMATION"
	StatusNoIntimation    Status = "NO INTIMATION"
	StatusNCNS            Status = "NCNS"
	StatusLOP             Status = "L.O.P."
	StatusHoliday         Status = "HOLIDAY"
	StatusRelieved        Status = "RELIEVED"
	StatusOneHourMorning  Status = "1 Hr Per MORN"
	StatusTwoHourMorning  Status = "2 Hr Per MORN"
	StatusOneHourEvening  Status = "1 Hr Per EVE"
	StatusTwoHourEvening  Status = "2 Hr Per EVE"
	StatusSunday          Status = "SUNDAY"
)

// DefaultStyle is used for cells without a record or with an unknown code.
const DefaultStyle = "bg-white"

// StatusDefinition describes one catalog entry. A status carries either a
// day weight or an hour weight, never both.
type StatusDefinition struct {
	Code       Status  `json:"code"`
	Style      string  `json:"style"`
	DayWeight  float64 `json:"day_weight,omitempty"`
	HourWeight float64 `json:"hour_weight,omitempty"`
}

func (d StatusDefinition) IsDayLeave() bool  { return d.DayWeight > 0 }
func (d StatusDefinition) IsHourLeave() bool { return d.HourWeight > 0 }
func (d StatusDefinition) IsLeave() bool     { return d.IsDayLeave() || d.IsHourLeave() }

var catalog = []StatusDefinition{
	{Code: StatusPresent, Style: "bg-green-600 text-white"},
	{Code: StatusWFH, Style: "bg-blue-400 text-white"},
	{Code: StatusCasualLeave, Style: "bg-cyan-500 text-white", DayWeight: 1},
	{Code: StatusSickLeave, Style: "bg-lime-500 text-black", DayWeight: 1},
	{Code: StatusSession1Leave, Style: "bg-amber-300 text-black", DayWeight: 0.5},
	{Code: StatusSession2Leave, Style: "bg-yellow-400 text-black", DayWeight: 0.5},
	{Code: StatusCompOff, Style: "bg-yellow-300 text-black", DayWeight: 1},
	{Code: StatusPhoneIntimation, Style: "bg-black text-white", DayWeight: 1},
	{Code: StatusNoIntimation, Style: "bg-red-700 text-white", DayWeight: 1},
	{Code: StatusNCNS, Style: "bg-pink-700 text-white"},
	{Code: StatusLOP, Style: "bg-red-600 text-white", DayWeight: 1},
	{Code: StatusHoliday, Style: "bg-emerald-400 text-black"},
	{Code: StatusRelieved, Style: "bg-gray-400 text-black"},
	{Code: StatusOneHourMorning, Style: "bg-amber-200 text-black", HourWeight: 1},
	{Code: StatusTwoHourMorning, Style: "bg-orange-300 text-black", HourWeight: 2},
	{Code: StatusOneHourEvening, Style: "bg-teal-200 text-black", HourWeight: 1},
	{Code: StatusTwoHourEvening, Style: "bg-teal-300 text-black", HourWeight: 2},
	{Code: StatusSunday, Style: "bg-gray-700 text-white"},
}

var catalogByCode = func() map[Status]StatusDefinition {
	m := make(map[Status]StatusDefinition, len(catalog))
	for _, d := range catalog {
		m[d.Code] = d
	}
	return m
}()

// Catalog returns the fixed status list in display order. The slice is a copy.
func Catalog() []StatusDefinition {
	out := make([]StatusDefinition, len(catalog))
	copy(out, catalog)
	return out
}

func Lookup(s Status) (StatusDefinition, bool) {
	d, ok := catalogByCode[s]
	return d, ok
}

func (s Status) Valid() bool {
	_, ok := catalogByCode[s]
	return ok
}

// Style returns the display class for s, or DefaultStyle.
func (s Status) Style() string {
	if d, ok := catalogByCode[s]; ok {
		return d.Style
	}
	return DefaultStyle
}

func (s Status) IsLeave() bool {
	d, ok := catalogByCode[s]
	return ok && d.IsLeave()
}

// DayLeaveStatuses lists day-weighted statuses in catalog order.
func DayLeaveStatuses() []Status {
	return filterCatalog(StatusDefinition.IsDayLeave)
}

// HourLeaveStatuses lists hour-weighted statuses in catalog order.
func HourLeaveStatuses() []Status {
	return filterCatalog(StatusDefinition.IsHourLeave)
}

// LeaveStatuses is day leaves followed by hour leaves.
func LeaveStatuses() []Status {
	return append(DayLeaveStatuses(), HourLeaveStatuses()...)
}

// ChartStatuses is PRESENT followed by every leave status.
func ChartStatuses() []Status {
	return append([]Status{StatusPresent}, LeaveStatuses()...)
}

func StatusCodes() []string {
	out := make([]string, len(catalog))
	for i, d := range catalog {
		out[i] = string(d.Code)
	}
	return out
}

func filterCatalog(keep func(StatusDefinition) bool) []Status {
	var out []Status
	for _, d := range catalog {
		if keep(d) {
			out = append(out, d.Code)
		}
	}
	return out
}
