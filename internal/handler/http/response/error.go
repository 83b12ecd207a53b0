package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/admin"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-desk/internal/domain/leave"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/upstream"
	"github.com/cmlabs-hris/attendance-desk/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrNoSession):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrSessionExpired):
		SessionExpired(w, "Session expired. Please log in again.")
	case errors.Is(err, auth.ErrSuperRequired):
		Forbidden(w, "Super admin access required")
	case errors.Is(err, auth.ErrSuperExists):
		Conflict(w, "A super admin already exists")

	// Admin domain errors
	case errors.Is(err, admin.ErrAdminNotFound):
		NotFound(w, "Admin not found")
	case errors.Is(err, admin.ErrCannotDeleteSuper):
		Forbidden(w, "Super admin cannot be deleted")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDEmpty):
		BadRequest(w, "Employee ID is required", nil)

	// Attendance and leave errors
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, leave.ErrRecordNotInView):
		NotFound(w, err.Error())
	case errors.Is(err, leave.ErrNothingToSave):
		BadRequest(w, "Nothing to save", nil)

	// Comp-off errors
	case errors.Is(err, compoff.ErrCompOffNotFound):
		NotFound(w, "Comp-off entry not found")

	default:
		handleUpstreamError(w, err)
	}
}

// handleUpstreamError passes the backend's client errors through with its
// own message. Anything else from the backend is a bad gateway.
func handleUpstreamError(w http.ResponseWriter, err error) {
	apiErr, ok := upstream.AsAPIError(err)
	if !ok {
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
		return
	}

	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		BadRequest(w, apiErr.Message, nil)
	case http.StatusForbidden:
		Forbidden(w, apiErr.Message)
	case http.StatusNotFound:
		NotFound(w, apiErr.Message)
	case http.StatusConflict:
		Conflict(w, apiErr.Message)
	default:
		slog.Error("Upstream request failed", "status", apiErr.StatusCode, "path", apiErr.Path, "error", apiErr.Message)
		BadGateway(w, apiErr.Message)
	}
}
