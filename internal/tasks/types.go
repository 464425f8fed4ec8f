package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeResetEmail = "email:admin_reset"
)

// ResetEmailPayload contains the data for an admin password reset email
type ResetEmailPayload struct {
	To        string `json:"to"`
	AdminName string `json:"admin_name"`
	Token     string `json:"token"`
}

func NewResetEmailTask(payload ResetEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResetEmail, data, asynq.Queue("critical")), nil
}
