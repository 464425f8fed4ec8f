package catalog

import (
	"fmt"
	"strings"
	"time"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// validateCreate checks every rule and returns all violations together.
func (s *Service) validateCreate(input CreateInput, images []ImageUpload) *ValidationError {
	var violations []string

	name := trimmed(input.Name)
	if len(name) < minNameLen || len(name) > maxNameLen {
		violations = append(violations, fmt.Sprintf("Item name must be between %d and %d characters", minNameLen, maxNameLen))
	}

	desc := trimmed(input.Description)
	if len(desc) < minDescLen || len(desc) > maxDescLen {
		violations = append(violations, fmt.Sprintf("Description must be between %d and %d characters", minDescLen, maxDescLen))
	}

	if len(trimmed(input.ContactInfo)) > maxContactLen {
		violations = append(violations, fmt.Sprintf("Contact info must be at most %d characters", maxContactLen))
	}

	if input.Quantity < 1 || input.Quantity > maxQuantity {
		violations = append(violations, fmt.Sprintf("Quantity must be between 1 and %d", maxQuantity))
	}

	if trimmed(input.Category) == "" {
		violations = append(violations, "Category is required")
	}
	if trimmed(input.Location) == "" {
		violations = append(violations, "Location is required")
	}

	if input.ExpiryDate == "" {
		violations = append(violations, "Expiry date is required")
	} else if expiry, err := time.Parse(time.RFC3339, input.ExpiryDate); err != nil {
		violations = append(violations, "Invalid expiry date format")
	} else if expiry.Before(startOfToday()) {
		violations = append(violations, "Expiry date cannot be in the past")
	}

	if len(images) == 0 {
		violations = append(violations, "At least one image is required")
	}
	for i, img := range images {
		if !allowedImageTypes[normalizeContentType(img.ContentType)] {
			violations = append(violations, fmt.Sprintf("Image %d has an unsupported type; allowed: jpeg, jpg, png, gif", i+1))
		}
		if int64(len(img.Data)) > s.maxUploadBytes {
			violations = append(violations, fmt.Sprintf("Image %d exceeds the maximum size of %d bytes", i+1, s.maxUploadBytes))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func normalizeContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	return ct
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
