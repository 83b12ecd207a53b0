package employee

import (
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
)

type Employee struct {
	ID                string
	Name              string
	Code              string
	Gender            Gender
	BloodGroup        string
	DOB               *calendar.Date
	CertDOB           *calendar.Date
	DOJ               *calendar.Date
	Designation       Designation
	Shift             string
	TeamType          string
	Department        string
	PersonalEmail     string
	OfficialEmail     string
	PersonalPhone     string
	ParentPhone       string
	LaptopStatus      LaptopStatus
	PresentLocation   string
	PermanentLocation string
	Remarks           string
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
}

// Ref returns the compact reference carried by attendance and comp-off records.
func (e Employee) Ref() Ref {
	return Ref{ID: e.ID, Name: e.Name, Code: e.Code}
}

// Ref identifies an employee on a record. The upstream sends either a bare
// id or an embedded employee object; both are reduced to this shape.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Code string `json:"code,omitempty"`
}

func (r Ref) IsZero() bool {
	return r.ID == ""
}

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
	Others Gender = "Others"
)

type Designation string

const (
	DesignationSeniorProcessAssociate  Designation = "Senior Process Associate"
	DesignationProcessAssociate        Designation = "Process Associate"
	DesignationTraineeProcessAssociate Designation = "Trainee Process Associate"
	DesignationSME                     Designation = "SME"
	DesignationATL                     Designation = "ATL"
)

type LaptopStatus string

const (
	LaptopPC     LaptopStatus = "PC"
	LaptopLaptop LaptopStatus = "Laptop"
)

const (
	ShiftDay   = "Day Shift"
	ShiftNight = "Night Shift"

	TeamOnGoing = "On Going"
	TeamOneTime = "One Time"
	TeamFTE     = "FTE"
)

var (
	Genders      = []string{string(Male), string(Female), string(Others)}
	Shifts       = []string{ShiftDay, ShiftNight}
	TeamTypes    = []string{TeamOnGoing, TeamOneTime, TeamFTE}
	Designations = []string{
		string(DesignationSeniorProcessAssociate),
		string(DesignationProcessAssociate),
		string(DesignationTraineeProcessAssociate),
		string(DesignationSME),
		string(DesignationATL),
	}
	LaptopStatuses = []string{string(LaptopPC), string(LaptopLaptop)}
)
