package dto

import "github.com/greenloop/greenloop/internal/api/validation"

// SessionRequest carries a verified external identity. The caller has
// already authenticated with the identity provider; this exchanges the
// profile for a local session token.
type SessionRequest struct {
	ExternalID string `json:"external_id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url,omitempty"`
}

func (r SessionRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.ExternalID == "" {
		errors["external_id"] = "External ID is required"
	}
	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}

	return errors
}
