package dto

import "strings"

type PostMessageRequest struct {
	Message string `json:"message"`
}

func (r PostMessageRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Message) == "" {
		errors["message"] = "Message is required"
	} else if len(r.Message) > 2000 {
		errors["message"] = "Message must be at most 2000 characters"
	}

	return errors
}
