package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
)

type AttendanceHandler interface {
	Matrix(w http.ResponseWriter, r *http.Request)
	Mark(w http.ResponseWriter, r *http.Request)
	UpdateNote(w http.ResponseWriter, r *http.Request)
	Statuses(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

func periodQuery(q url.Values) attendance.PeriodQuery {
	return attendance.PeriodQuery{
		Month: q.Get("month"),
		From:  q.Get("from"),
		To:    q.Get("to"),
	}
}

func matrixQuery(q url.Values) attendance.MatrixQuery {
	refresh, _ := strconv.ParseBool(q.Get("refresh"))
	return attendance.MatrixQuery{
		PeriodQuery: periodQuery(q),
		TeamType:    q.Get("team_type"),
		Shift:       q.Get("shift"),
		Refresh:     refresh,
	}
}

// Matrix implements AttendanceHandler.
func (h *attendanceHandlerImpl) Matrix(w http.ResponseWriter, r *http.Request) {
	q := matrixQuery(r.URL.Query())
	if err := q.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Matrix(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Mark decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.Mark(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance marked", result)
}

// UpdateNote implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req attendance.NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateNote decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := h.attendanceService.UpdateNote(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Note saved", nil)
}

// Statuses implements AttendanceHandler.
func (h *attendanceHandlerImpl) Statuses(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.attendanceService.Statuses())
}
