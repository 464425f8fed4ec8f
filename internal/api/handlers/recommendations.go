package handlers

import (
	"errors"
	"net/http"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/catalog"
	"github.com/greenloop/greenloop/internal/recommend"
)

// RecommendationHandler builds a catalog summary and asks the text
// generator for suggestions. A nil generator means the feature is off.
type RecommendationHandler struct {
	catalogService *catalog.Service
	authService    *auth.Service
	generator      recommend.TextGenerator
}

func NewRecommendationHandler(catalogService *catalog.Service, authService *auth.Service, generator recommend.TextGenerator) *RecommendationHandler {
	return &RecommendationHandler{
		catalogService: catalogService,
		authService:    authService,
		generator:      generator,
	}
}

// Get handles GET /api/v1/recommendations.
func (h *RecommendationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		writeJSON(w, http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Recommendations are not enabled"})
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.authService.GetUserByID(r.Context(), userID.String())
	if err != nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "User not found"})
		return
	}

	available, err := h.catalogService.Feed(r.Context(), catalog.FeedFilter{
		ApprovedOnly: true,
		Status:       "available",
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load items"})
		return
	}

	owned, err := h.catalogService.ListByOwner(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load items"})
		return
	}

	prompt := recommend.BuildPrompt(user.Name, available, owned)
	text, err := h.generator.Generate(r.Context(), prompt)
	if err != nil {
		if errors.Is(err, recommend.ErrEmptyResult) {
			writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: "Recommendation service returned nothing"})
			return
		}
		writeJSON(w, http.StatusBadGateway, dto.ErrorResponse{Error: "Recommendation service failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"recommendations": text})
}
