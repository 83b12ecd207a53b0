package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/compoff"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CompOffHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Save(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type compOffHandlerImpl struct {
	compOffService compoff.CompOffService
}

func NewCompOffHandler(compOffService compoff.CompOffService) CompOffHandler {
	return &compOffHandlerImpl{compOffService: compOffService}
}

// List implements CompOffHandler.
func (h *compOffHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := compoff.ListFilter{EmployeeID: r.URL.Query().Get("employee_id")}

	result, err := h.compOffService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Save implements CompOffHandler. A body with an id updates that entry.
func (h *compOffHandlerImpl) Save(w http.ResponseWriter, r *http.Request) {
	var req compoff.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CompOff save decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.compOffService.Save(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	if req.IsUpdate() {
		response.SuccessWithMessage(w, "Comp-off updated", result)
		return
	}
	response.Created(w, "Comp-off added", result)
}

// Delete implements CompOffHandler.
func (h *compOffHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Comp-off ID is required", nil)
		return
	}

	if err := h.compOffService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Comp-off deleted", nil)
}
