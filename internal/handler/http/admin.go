package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/admin"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AdminHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	adminService admin.AdminService
}

func NewAdminHandler(adminService admin.AdminService) AdminHandler {
	return &adminHandlerImpl{adminService: adminService}
}

// List implements AdminHandler.
func (h *adminHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements AdminHandler.
func (h *adminHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req admin.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Admin create decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.adminService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin created", "email", result.Email, "team_type", result.AllowedTeamType)
	response.Created(w, "Admin created", result)
}

// Delete implements AdminHandler.
func (h *adminHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Admin ID is required", nil)
		return
	}

	if err := h.adminService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Admin deleted", nil)
}
