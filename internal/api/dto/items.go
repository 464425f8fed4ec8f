package dto

// UpdateItemRequest patches an item; absent fields are left untouched.
type UpdateItemRequest struct {
	Name         *string `json:"name,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	Category     *string `json:"category,omitempty"`
	Location     *string `json:"location,omitempty"`
	ExpiryDate   *string `json:"expiry_date,omitempty"`
	DurationDays *int    `json:"duration_days,omitempty"`
	Description  *string `json:"description,omitempty"`
	ContactInfo  *string `json:"contact_info,omitempty"`
}

type RejectItemRequest struct {
	Reason string `json:"reason"`
}

func (r RejectItemRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Reason == "" {
		errors["reason"] = "Rejection reason is required"
	}

	return errors
}
