package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
)

type LeaveHandler interface {
	Insight(w http.ResponseWriter, r *http.Request)
	Details(w http.ResponseWriter, r *http.Request)
	SaveNotes(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

func employeePeriodQuery(r *http.Request) leave.EmployeePeriodQuery {
	return leave.EmployeePeriodQuery{
		PeriodQuery: periodQuery(r.URL.Query()),
		EmployeeID:  r.URL.Query().Get("employee_id"),
	}
}

// Insight implements LeaveHandler.
func (l *LeaveHandlerImpl) Insight(w http.ResponseWriter, r *http.Request) {
	q := employeePeriodQuery(r)
	if err := q.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.Insight(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Details implements LeaveHandler.
func (l *LeaveHandlerImpl) Details(w http.ResponseWriter, r *http.Request) {
	q := employeePeriodQuery(r)
	if err := q.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.Details(r.Context(), q)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SaveNotes implements LeaveHandler.
func (l *LeaveHandlerImpl) SaveNotes(w http.ResponseWriter, r *http.Request) {
	var req leave.SaveNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SaveNotes decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.SaveNotes(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Remarks saved", result)
}
