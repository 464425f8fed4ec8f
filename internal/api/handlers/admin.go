package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/greenloop/greenloop/internal/admin"
	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/tasks"
	"github.com/hibiken/asynq"
)

type AdminHandler struct {
	store       *admin.CredentialStore
	jwtService  *auth.JWTService
	asynqClient *asynq.Client
	logger      *slog.Logger
}

func NewAdminHandler(store *admin.CredentialStore, jwtService *auth.JWTService, asynqClient *asynq.Client, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:       store,
		jwtService:  jwtService,
		asynqClient: asynqClient,
		logger:      logger,
	}
}

// SetupStatus handles GET /api/v1/admin/setup-status.
func (h *AdminHandler) SetupStatus(w http.ResponseWriter, r *http.Request) {
	needed, err := h.store.SetupNeeded(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to check setup status"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"setup_needed": needed})
}

// Setup handles POST /api/v1/admin/setup, the one-time first-run creation
// of the admin account.
func (h *AdminHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminSetupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if err := h.store.Create(r.Context(), req.Name, req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, admin.ErrAdminExists):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Admin account already exists"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Setup failed"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, dto.SuccessResponse{Message: "Admin account created"})
}

// Login handles POST /api/v1/admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	identity, err := h.store.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrAdminNotFound), errors.Is(err, admin.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Error: "Invalid credentials"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	token, err := h.jwtService.GenerateToken(identity.SubjectID, true)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  identity,
	})
}

// GetProfile handles GET /api/v1/admin/profile.
func (h *AdminHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.store.GetProfile(r.Context())
	if err != nil {
		if errors.Is(err, admin.ErrAdminNotFound) {
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Admin not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load profile"})
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/admin/profile. The request restates the
// account's current email as a confirmation; blank fields keep their current
// values.
func (h *AdminHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	profile, err := h.store.UpdateProfile(r.Context(), req.CurrentEmail, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrAdminNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Admin not found"})
		case errors.Is(err, admin.ErrEmailMismatch):
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "Current email does not match"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update profile"})
		}
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// ForgotPassword handles POST /api/v1/admin/forgot-password. The response
// is the same whether or not the email matched, so the endpoint cannot be
// used to probe for the admin address.
func (h *AdminHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	reset, err := h.store.RequestReset(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, admin.ErrAdminNotFound) || errors.Is(err, admin.ErrEmailMismatch) {
			writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "If the email matches the admin account, a reset link has been sent"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to request reset"})
		return
	}

	h.enqueueResetEmail(reset)

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "If the email matches the admin account, a reset link has been sent"})
}

func (h *AdminHandler) enqueueResetEmail(reset *admin.ResetRequest) {
	if h.asynqClient == nil {
		h.logger.Warn("task queue unavailable, reset email not sent", "email", reset.Email)
		return
	}

	task, err := tasks.NewResetEmailTask(tasks.ResetEmailPayload{
		To:        reset.Email,
		AdminName: reset.AdminName,
		Token:     reset.Token,
	})
	if err != nil {
		h.logger.Error("failed to build reset email task", "error", err)
		return
	}
	if _, err := h.asynqClient.Enqueue(task); err != nil {
		h.logger.Error("failed to enqueue reset email", "error", err)
	}
}

// ResetPassword handles POST /api/v1/admin/reset-password.
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	if err := h.store.ConsumeReset(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidResetToken):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid reset token"})
		case errors.Is(err, admin.ErrResetTokenExpired):
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Reset token has expired"})
		case errors.Is(err, admin.ErrAdminNotFound):
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Admin not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to reset password"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Password has been reset"})
}

// VerifyPassword handles POST /api/v1/admin/verify-password, used to
// re-confirm the admin's password before sensitive operations.
func (h *AdminHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	valid, err := h.store.VerifyPassword(r.Context(), req.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to verify password"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": valid})
}
