package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/auth"
)

type AuthHandler struct {
	authService *auth.Service
}

func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Session handles POST /api/v1/auth/session. It exchanges a verified
// external identity for a local session token, creating the user row on
// first sight.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	resp, err := h.authService.LoginWithExternalIdentity(r.Context(), auth.ExternalIdentity{
		ExternalID: req.ExternalID,
		Email:      req.Email,
		Name:       req.Name,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAccountSuspended):
			writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Account is suspended"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Login failed"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	sub := middleware.GetSubject(r.Context())
	if sub == auth.AdminSubject {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"user_id":  auth.AdminSubject,
			"is_admin": true,
		})
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), sub)
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}
