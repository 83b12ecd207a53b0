package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-desk/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-desk/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	HasSuper(w http.ResponseWriter, r *http.Request)
	SetupSuper(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		slog.Error("Login decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := loginReq.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Admin logged in", "role", tokenResponse.Role)
	response.Created(w, "Logged in successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.authService.Logout(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Logged out successfully", nil)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	me, err := a.authService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}

// HasSuper implements AuthHandler.
func (a *AuthHandlerImpl) HasSuper(w http.ResponseWriter, r *http.Request) {
	res, err := a.authService.HasSuper(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, res)
}

// SetupSuper implements AuthHandler.
func (a *AuthHandlerImpl) SetupSuper(w http.ResponseWriter, r *http.Request) {
	var req auth.SetupSuperRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SetupSuper decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	if err := a.authService.SetupSuper(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Super admin created")
	response.Created(w, "Super admin created. You can log in now.", nil)
}
