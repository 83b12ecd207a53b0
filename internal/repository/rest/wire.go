// Package rest implements the domain repositories over the attendance
// backend's JSON API. Loosely typed fields are normalized here and nowhere
// else: employee references become employee.Ref and timestamps become
// civil days in the configured location.
package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// employeeRef decodes the backend's "employee" field, which is either a
// bare id or an embedded employee document.
type employeeRef employee.Ref

func (r *employeeRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = employeeRef{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = employeeRef{ID: id}
		return nil
	}

	var doc struct {
		ID   string `json:"_id"`
		Name string `json:"name"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode employee reference: %w", err)
	}
	*r = employeeRef{ID: doc.ID, Name: doc.Name, Code: doc.Code}
	return nil
}

// civilDate parses an optional backend date into a civil day in loc.
func civilDate(s *string, loc *time.Location) (*calendar.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	d, err := calendar.ParseIn(*s, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// timestamp keeps well-formed RFC 3339 values and drops anything else.
func timestamp(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, ok := validator.IsValidDateTime(strings.TrimSpace(*s))
	if !ok {
		return nil
	}
	return &t
}

func dateOrNil(d *calendar.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
