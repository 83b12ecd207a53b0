package rest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
)

type compOffDoc struct {
	ID        string      `json:"_id"`
	Employee  employeeRef `json:"employee"`
	WorkDate  string      `json:"workDate"`
	LeaveDate *string     `json:"leaveDate"`
	Status    string      `json:"status"`
	Remark    string      `json:"remark"`
	CreatedAt *string     `json:"createdAt"`
}

// The backend creates on POST /compoff and updates on the same route when
// an id is present.
type compOffCreateBody struct {
	EmployeeID string  `json:"employeeId"`
	WorkDate   string  `json:"workDate"`
	LeaveDate  *string `json:"leaveDate,omitempty"`
	Status     string  `json:"status"`
	Remark     string  `json:"remark"`
}

type compOffUpdateBody struct {
	ID        string  `json:"id"`
	LeaveDate *string `json:"leaveDate"`
	Status    string  `json:"status"`
	Remark    string  `json:"remark"`
}

type compOffRepositoryImpl struct {
	client *upstream.Client
	loc    *time.Location
}

func NewCompOffRepository(client *upstream.Client, loc *time.Location) compoff.CompOffRepository {
	return &compOffRepositoryImpl{client: client, loc: loc}
}

// List implements compoff.CompOffRepository.
func (r *compOffRepositoryImpl) List(ctx context.Context, employeeID string) ([]compoff.CompOff, error) {
	var query url.Values
	if employeeID != "" {
		query = url.Values{"employeeId": {employeeID}}
	}

	var docs []compOffDoc
	if err := r.client.Get(ctx, "/compoff", query, &docs); err != nil {
		return nil, fmt.Errorf("failed to list comp-off: %w", err)
	}

	items := make([]compoff.CompOff, 0, len(docs))
	for _, d := range docs {
		c, err := r.toEntity(d)
		if err != nil {
			return nil, fmt.Errorf("comp-off %s: %w", d.ID, err)
		}
		items = append(items, c)
	}
	return items, nil
}

// Create implements compoff.CompOffRepository.
func (r *compOffRepositoryImpl) Create(ctx context.Context, c compoff.CompOff) (compoff.CompOff, error) {
	body := compOffCreateBody{
		EmployeeID: c.Employee.ID,
		WorkDate:   c.WorkDate.String(),
		LeaveDate:  dateOrNil(c.LeaveDate),
		Status:     string(c.Status),
		Remark:     c.Remark,
	}

	var out compOffDoc
	if err := r.client.Post(ctx, "/compoff", body, &out); err != nil {
		return compoff.CompOff{}, fmt.Errorf("failed to create comp-off: %w", err)
	}
	if out.ID == "" {
		return c, nil
	}
	return r.toEntity(out)
}

// Update implements compoff.CompOffRepository.
func (r *compOffRepositoryImpl) Update(ctx context.Context, c compoff.CompOff) (compoff.CompOff, error) {
	body := compOffUpdateBody{
		ID:        c.ID,
		LeaveDate: dateOrNil(c.LeaveDate),
		Status:    string(c.Status),
		Remark:    c.Remark,
	}

	var out compOffDoc
	err := r.client.Post(ctx, "/compoff", body, &out)
	if upstream.IsNotFound(err) {
		return compoff.CompOff{}, fmt.Errorf("%w: %w", compoff.ErrCompOffNotFound, err)
	}
	if err != nil {
		return compoff.CompOff{}, fmt.Errorf("failed to update comp-off %s: %w", c.ID, err)
	}
	if out.ID == "" {
		return c, nil
	}
	return r.toEntity(out)
}

// Delete implements compoff.CompOffRepository.
func (r *compOffRepositoryImpl) Delete(ctx context.Context, id string) error {
	err := r.client.Delete(ctx, "/compoff/"+url.PathEscape(id))
	if upstream.IsNotFound(err) {
		return fmt.Errorf("%w: %w", compoff.ErrCompOffNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete comp-off %s: %w", id, err)
	}
	return nil
}

func (r *compOffRepositoryImpl) toEntity(d compOffDoc) (compoff.CompOff, error) {
	work, err := calendar.ParseIn(d.WorkDate, r.loc)
	if err != nil {
		return compoff.CompOff{}, fmt.Errorf("workDate: %w", err)
	}
	leave, err := civilDate(d.LeaveDate, r.loc)
	if err != nil {
		return compoff.CompOff{}, fmt.Errorf("leaveDate: %w", err)
	}
	return compoff.CompOff{
		ID:        d.ID,
		Employee:  employee.Ref(d.Employee),
		WorkDate:  work,
		LeaveDate: leave,
		Status:    compoff.Status(d.Status),
		Remark:    d.Remark,
		CreatedAt: timestamp(d.CreatedAt),
	}, nil
}
