package rest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
)

type employeeDoc struct {
	ID                string  `json:"_id,omitempty"`
	Name              string  `json:"name"`
	Code              string  `json:"code"`
	Gender            string  `json:"gender,omitempty"`
	BloodGroup        string  `json:"bloodGroup,omitempty"`
	DOB               *string `json:"dob"`
	CertDOB           *string `json:"certDob"`
	DOJ               *string `json:"doj"`
	Designation       string  `json:"designation,omitempty"`
	Shift             string  `json:"shift,omitempty"`
	TeamType          string  `json:"teamType,omitempty"`
	Department        string  `json:"department,omitempty"`
	PersonalEmail     string  `json:"personalEmail,omitempty"`
	OfficialEmail     string  `json:"officialEmail,omitempty"`
	PersonalPhone     string  `json:"personalPhone,omitempty"`
	ParentPhone       string  `json:"parentPhone,omitempty"`
	LaptopStatus      string  `json:"laptopStatus,omitempty"`
	PresentLocation   string  `json:"presentLocation,omitempty"`
	PermanentLocation string  `json:"permanentLocation,omitempty"`
	Remarks           string  `json:"remarks,omitempty"`
	CreatedAt         *string `json:"createdAt,omitempty"`
	UpdatedAt         *string `json:"updatedAt,omitempty"`
}

type employeeRepositoryImpl struct {
	client *upstream.Client
	loc    *time.Location
}

func NewEmployeeRepository(client *upstream.Client, loc *time.Location) employee.EmployeeRepository {
	return &employeeRepositoryImpl{client: client, loc: loc}
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	var docs []employeeDoc
	if err := r.client.Get(ctx, "/employees", nil, &docs); err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	employees := make([]employee.Employee, 0, len(docs))
	for _, d := range docs {
		e, err := r.toEntity(d)
		if err != nil {
			return nil, fmt.Errorf("employee %s: %w", d.ID, err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	var out employeeDoc
	if err := r.client.Post(ctx, "/employees", fromEmployee(e), &out); err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return r.echo(out, e)
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	if e.ID == "" {
		return employee.Employee{}, employee.ErrEmployeeIDEmpty
	}
	var out employeeDoc
	err := r.client.Put(ctx, "/employees/"+url.PathEscape(e.ID), fromEmployee(e), &out)
	if upstream.IsNotFound(err) {
		return employee.Employee{}, fmt.Errorf("%w: %w", employee.ErrEmployeeNotFound, err)
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to update employee %s: %w", e.ID, err)
	}
	return r.echo(out, e)
}

// Delete implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, "/employees/"+url.PathEscape(id))
	if upstream.IsNotFound(err) {
		return fmt.Errorf("%w: %w", employee.ErrEmployeeNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete employee %s: %w", id, err)
	}
	return nil
}

// echo prefers the stored document the backend returns, falling back to
// what was sent when the response body is empty.
func (r *employeeRepositoryImpl) echo(out employeeDoc, sent employee.Employee) (employee.Employee, error) {
	if out.ID == "" {
		return sent, nil
	}
	return r.toEntity(out)
}

func (r *employeeRepositoryImpl) toEntity(d employeeDoc) (employee.Employee, error) {
	dob, err := civilDate(d.DOB, r.loc)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("dob: %w", err)
	}
	certDOB, err := civilDate(d.CertDOB, r.loc)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("certDob: %w", err)
	}
	doj, err := civilDate(d.DOJ, r.loc)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("doj: %w", err)
	}

	return employee.Employee{
		ID:                d.ID,
		Name:              d.Name,
		Code:              d.Code,
		Gender:            employee.Gender(d.Gender),
		BloodGroup:        d.BloodGroup,
		DOB:               dob,
		CertDOB:           certDOB,
		DOJ:               doj,
		Designation:       employee.Designation(d.Designation),
		Shift:             d.Shift,
		TeamType:          d.TeamType,
		Department:        d.Department,
		PersonalEmail:     d.PersonalEmail,
		OfficialEmail:     d.OfficialEmail,
		PersonalPhone:     d.PersonalPhone,
		ParentPhone:       d.ParentPhone,
		LaptopStatus:      employee.LaptopStatus(d.LaptopStatus),
		PresentLocation:   d.PresentLocation,
		PermanentLocation: d.PermanentLocation,
		Remarks:           d.Remarks,
		CreatedAt:         timestamp(d.CreatedAt),
		UpdatedAt:         timestamp(d.UpdatedAt),
	}, nil
}

func fromEmployee(e employee.Employee) employeeDoc {
	return employeeDoc{
		Name:              e.Name,
		Code:              e.Code,
		Gender:            string(e.Gender),
		BloodGroup:        e.BloodGroup,
		DOB:               dateOrNil(e.DOB),
		CertDOB:           dateOrNil(e.CertDOB),
		DOJ:               dateOrNil(e.DOJ),
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
	}
}
