package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// UpsertRequest is the body of both create and update. ID is taken from the
// URL on update and is empty on create.
type UpsertRequest struct {
	ID                string `json:"-"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	Gender            string `json:"gender"`
	BloodGroup        string `json:"blood_group"`
	DOB               string `json:"dob"`
	CertDOB           string `json:"cert_dob"`
	DOJ               string `json:"doj"`
	Designation       string `json:"designation"`
	Shift             string `json:"shift"`
	TeamType          string `json:"team_type"`
	Department        string `json:"department"`
	PersonalEmail     string `json:"personal_email"`
	OfficialEmail     string `json:"official_email"`
	PersonalPhone     string `json:"personal_phone"`
	ParentPhone       string `json:"parent_phone"`
	LaptopStatus      string `json:"laptop_status"`
	PresentLocation   string `json:"present_location"`
	PermanentLocation string `json:"permanent_location"`
}

func (r *UpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Code = strings.TrimSpace(r.Code)

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{
			Field:   "code",
			Message: "code is required",
		})
	}

	enums := []struct {
		field, value string
		allowed      []string
	}{
		{"gender", r.Gender, Genders},
		{"designation", r.Designation, Designations},
		{"shift", r.Shift, Shifts},
		{"team_type", r.TeamType, TeamTypes},
		{"laptop_status", r.LaptopStatus, LaptopStatuses},
	}
	for _, e := range enums {
		if e.value != "" && !validator.IsInSlice(e.value, e.allowed) {
			errs = append(errs, validator.ValidationError{
				Field:   e.field,
				Message: e.field + " must be one of: " + strings.Join(e.allowed, ", "),
			})
		}
	}

	for field, value := range map[string]string{"dob": r.DOB, "cert_dob": r.CertDOB, "doj": r.DOJ} {
		if value == "" {
			continue
		}
		if _, ok := validator.IsValidDate(value); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be in YYYY-MM-DD format",
			})
		}
	}

	for field, value := range map[string]string{"personal_email": r.PersonalEmail, "official_email": r.OfficialEmail} {
		if value != "" && !validator.IsValidEmail(value) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must be a valid email address",
			})
		}
	}

	for field, value := range map[string]string{"personal_phone": r.PersonalPhone, "parent_phone": r.ParentPhone} {
		if value != "" && !validator.IsValidPhoneNumber(value) {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must contain 7 to 15 digits",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Employee converts a validated request into the entity sent upstream.
func (r UpsertRequest) Employee() Employee {
	return Employee{
		ID:                r.ID,
		Name:              r.Name,
		Code:              r.Code,
		Gender:            Gender(r.Gender),
		BloodGroup:        r.BloodGroup,
		DOB:               optionalDate(r.DOB),
		CertDOB:           optionalDate(r.CertDOB),
		DOJ:               optionalDate(r.DOJ),
		Designation:       Designation(r.Designation),
		Shift:             r.Shift,
		TeamType:          r.TeamType,
		Department:        r.Department,
		PersonalEmail:     r.PersonalEmail,
		OfficialEmail:     r.OfficialEmail,
		PersonalPhone:     r.PersonalPhone,
		ParentPhone:       r.ParentPhone,
		LaptopStatus:      LaptopStatus(r.LaptopStatus),
		PresentLocation:   r.PresentLocation,
		PermanentLocation: r.PermanentLocation,
	}
}

func optionalDate(s string) *calendar.Date {
	if s == "" {
		return nil
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return nil
	}
	return &d
}

// Filter narrows an employee list by team type and shift. Empty fields match all.
type Filter struct {
	TeamType string `json:"team_type"`
	Shift    string `json:"shift"`
}

func (f Filter) Match(e Employee) bool {
	if f.TeamType != "" && e.TeamType != f.TeamType {
		return false
	}
	if f.Shift != "" && e.Shift != f.Shift {
		return false
	}
	return true
}

func (f Filter) Apply(list []Employee) []Employee {
	out := make([]Employee, 0, len(list))
	for _, e := range list {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// FilterOptions are the distinct non-empty team types and shifts, in
// first-seen order.
type FilterOptions struct {
	TeamTypes []string `json:"team_types"`
	Shifts    []string `json:"shifts"`
}

func Options(list []Employee) FilterOptions {
	opts := FilterOptions{TeamTypes: []string{}, Shifts: []string{}}
	seenTeam := map[string]bool{}
	seenShift := map[string]bool{}
	for _, e := range list {
		if e.TeamType != "" && !seenTeam[e.TeamType] {
			seenTeam[e.TeamType] = true
			opts.TeamTypes = append(opts.TeamTypes, e.TeamType)
		}
		if e.Shift != "" && !seenShift[e.Shift] {
			seenShift[e.Shift] = true
			opts.Shifts = append(opts.Shifts, e.Shift)
		}
	}
	return opts
}

type EmployeeResponse struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Code              string     `json:"code"`
	Gender            string     `json:"gender,omitempty"`
	BloodGroup        string     `json:"blood_group,omitempty"`
	DOB               string     `json:"dob,omitempty"`
	CertDOB           string     `json:"cert_dob,omitempty"`
	DOJ               string     `json:"doj,omitempty"`
	Designation       string     `json:"designation,omitempty"`
	Shift             string     `json:"shift,omitempty"`
	TeamType          string     `json:"team_type,omitempty"`
	Department        string     `json:"department,omitempty"`
	PersonalEmail     string     `json:"personal_email,omitempty"`
	OfficialEmail     string     `json:"official_email,omitempty"`
	PersonalPhone     string     `json:"personal_phone,omitempty"`
	ParentPhone       string     `json:"parent_phone,omitempty"`
	LaptopStatus      string     `json:"laptop_status,omitempty"`
	PresentLocation   string     `json:"present_location,omitempty"`
	PermanentLocation string     `json:"permanent_location,omitempty"`
	CreatedAt         *time.Time `json:"created_at,omitempty"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
}

func NewEmployeeResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		Name:              e.Name,
		Code:              e.Code,
		Gender:            string(e.Gender),
		BloodGroup:        e.BloodGroup,
		DOB:               dateString(e.DOB),
		CertDOB:           dateString(e.CertDOB),
		DOJ:               dateString(e.DOJ),
		Designation:       string(e.Designation),
		Shift:             e.Shift,
		TeamType:          e.TeamType,
		Department:        e.Department,
		PersonalEmail:     e.PersonalEmail,
		OfficialEmail:     e.OfficialEmail,
		PersonalPhone:     e.PersonalPhone,
		ParentPhone:       e.ParentPhone,
		LaptopStatus:      string(e.LaptopStatus),
		PresentLocation:   e.PresentLocation,
		PermanentLocation: e.PermanentLocation,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

type ListEmployeeResponse struct {
	Employees []EmployeeResponse `json:"employees"`
	Options   FilterOptions      `json:"options"`
}

func dateString(d *calendar.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}
