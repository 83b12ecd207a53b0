package rest

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
)

type recordDoc struct {
	ID       string      `json:"_id"`
	Employee employeeRef `json:"employee"`
	Date     string      `json:"date"`
	Status   string      `json:"status"`
	Note     string      `json:"note"`
	CheckIn  string      `json:"checkIn"`
	CheckOut string      `json:"checkOut"`
}

type markBody struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
	Note       string `json:"note,omitempty"`
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
}

type noteBody struct {
	RecordID string `json:"recordId"`
	Note     string `json:"note"`
}

type attendanceRepositoryImpl struct {
	client *upstream.Client
	loc    *time.Location
}

func NewAttendanceRepository(client *upstream.Client, loc *time.Location) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{client: client, loc: loc}
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Record, error) {
	query := url.Values{}
	query.Set("from", filter.Range.From.String())
	query.Set("to", filter.Range.To.String())
	if filter.EmployeeID != "" {
		query.Set("employeeId", filter.EmployeeID)
	}

	var docs []recordDoc
	if err := r.client.Get(ctx, "/attendance", query, &docs); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	records := make([]attendance.Record, 0, len(docs))
	for _, d := range docs {
		rec, err := r.toEntity(d)
		if err != nil {
			return nil, fmt.Errorf("attendance record %s: %w", d.ID, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Mark implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Mark(ctx context.Context, m attendance.Mark) (attendance.Record, error) {
	body := markBody{
		EmployeeID: m.EmployeeID,
		Date:       m.Date.String(),
		Status:     string(m.Status),
		Note:       m.Note,
		CheckIn:    m.CheckIn,
		CheckOut:   m.CheckOut,
	}

	var out recordDoc
	if err := r.client.Post(ctx, "/attendance/mark", body, &out); err != nil {
		return attendance.Record{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	if out.ID == "" {
		return attendance.Record{
			Employee: employee.Ref{ID: m.EmployeeID},
			Date:     m.Date,
			Status:   m.Status,
			Note:     m.Note,
			CheckIn:  m.CheckIn,
			CheckOut: m.CheckOut,
		}, nil
	}

	rec, err := r.toEntity(out)
	if err != nil {
		return attendance.Record{}, err
	}
	if rec.Employee.ID == "" {
		rec.Employee.ID = m.EmployeeID
	}
	return rec, nil
}

// UpdateNote implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateNote(ctx context.Context, recordID, note string) error {
	err := r.client.Post(ctx, "/attendance/note", noteBody{RecordID: recordID, Note: note}, nil)
	if upstream.IsNotFound(err) {
		return fmt.Errorf("%w: %w", attendance.ErrRecordNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("failed to update note of record %s: %w", recordID, err)
	}
	return nil
}

func (r *attendanceRepositoryImpl) toEntity(d recordDoc) (attendance.Record, error) {
	date, err := calendar.ParseIn(d.Date, r.loc)
	if err != nil {
		return attendance.Record{}, err
	}
	return attendance.Record{
		ID:       d.ID,
		Employee: employee.Ref(d.Employee),
		Date:     date,
		Status:   attendance.Status(d.Status),
		Note:     d.Note,
		CheckIn:  d.CheckIn,
		CheckOut: d.CheckOut,
	}, nil
}
