package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/export"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
)

type ExportHandler interface {
	Attendance(w http.ResponseWriter, r *http.Request)
	Full(w http.ResponseWriter, r *http.Request)
	CompOff(w http.ResponseWriter, r *http.Request)
	Employees(w http.ResponseWriter, r *http.Request)
}

type exportHandlerImpl struct {
	exportService export.ExportService
}

func NewExportHandler(exportService export.ExportService) ExportHandler {
	return &exportHandlerImpl{exportService: exportService}
}

// decodeOptional decodes a JSON body into v, treating an empty body as {}.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeExport(w http.ResponseWriter, result export.Result) {
	if result.Fallback {
		response.SuccessWithMessage(w, "Spreadsheet output unavailable, exported as CSV", result)
		return
	}
	response.SuccessWithMessage(w, "Export ready", result)
}

// Attendance implements ExportHandler.
func (h *exportHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	var req export.AttendanceExportRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Attendance export decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.exportService.Attendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeExport(w, result)
}

// Full implements ExportHandler.
func (h *exportHandlerImpl) Full(w http.ResponseWriter, r *http.Request) {
	var req export.FullExportRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Full export decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.exportService.Full(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeExport(w, result)
}

// CompOff implements ExportHandler.
func (h *exportHandlerImpl) CompOff(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.CompOff(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeExport(w, result)
}

// Employees implements ExportHandler.
func (h *exportHandlerImpl) Employees(w http.ResponseWriter, r *http.Request) {
	var req export.EmployeeExportRequest
	if err := decodeOptional(r, &req); err != nil {
		slog.Error("Employee export decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.exportService.Employees(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	writeExport(w, result)
}
