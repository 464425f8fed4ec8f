package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/greenloop/greenloop/internal/api/dto"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/database/models"
	"gorm.io/gorm"
)

// Categories is the fixed set of item categories.
var Categories = []string{
	"Plastic Bottles",
	"Glass Containers",
	"Paper Products",
	"Electronics",
	"Textiles",
	"Metal Items",
	"Cardboard",
	"Other",
}

const defaultTerms = `Welcome to GreenLoop!

By using this application, you agree to the following terms:

1. Community Guidelines
   - Respect all community members
   - Only post items you genuinely want to share
   - Be honest about item conditions

2. Item Sharing Rules
   - Items must be in good, usable condition
   - No illegal, dangerous, or inappropriate items
   - You are responsible for arranging pickup or delivery

3. Account Responsibility
   - Keep your account information accurate
   - Do not share your login credentials
   - Report any suspicious activity

4. Privacy and Safety
   - Contact details are only shared between exchange participants
   - Admins may moderate content for community safety

5. Liability
   - Use the app at your own risk
   - Users are responsible for their own safety during exchanges

By clicking "I Accept", you agree to these terms and conditions.`

// LocationHandler serves pickup locations, the category list and the terms
// of service content.
type LocationHandler struct {
	db *gorm.DB
}

func NewLocationHandler(db *gorm.DB) *LocationHandler {
	return &LocationHandler{db: db}
}

// List handles GET /api/v1/locations, returning active locations only.
func (h *LocationHandler) List(w http.ResponseWriter, r *http.Request) {
	var locations []models.Location
	if err := h.db.WithContext(r.Context()).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&locations).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list locations"})
		return
	}
	writeJSON(w, http.StatusOK, locations)
}

// Create handles POST /api/v1/admin/locations.
func (h *LocationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	location := models.Location{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := h.db.WithContext(r.Context()).Create(&location).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create location"})
		return
	}

	writeJSON(w, http.StatusCreated, location)
}

// Delete handles DELETE /api/v1/admin/locations/{id}.
func (h *LocationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid location ID"})
		return
	}

	res := h.db.WithContext(r.Context()).Delete(&models.Location{}, "id = ?", id)
	if res.Error != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete location"})
		return
	}
	if res.RowsAffected == 0 {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Location not found"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Location deleted"})
}

// Categories handles GET /api/v1/categories.
func (h *LocationHandler) Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Categories)
}

// Terms handles GET /api/v1/terms. A stored value wins; otherwise the
// built-in default is returned.
func (h *LocationHandler) Terms(w http.ResponseWriter, r *http.Request) {
	var row models.AppSetting
	err := h.db.WithContext(r.Context()).
		Where("setting_key = ?", models.SettingTermsContent).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeJSON(w, http.StatusOK, map[string]string{"content": defaultTerms})
			return
		}
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load terms"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"content": row.Value})
}

// UpdateTerms handles PUT /api/v1/admin/terms.
func (h *LocationHandler) UpdateTerms(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTermsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errs})
		return
	}

	row := models.AppSetting{
		Key:       models.SettingTermsContent,
		Value:     req.Content,
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: middleware.GetSubject(r.Context()),
	}
	if err := h.db.WithContext(r.Context()).Save(&row).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update terms"})
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Terms updated"})
}
