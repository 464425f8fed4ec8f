package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/greenloop/greenloop/internal/mailer"
	"github.com/hibiken/asynq"
)

type Handler struct {
	logger          *slog.Logger
	mail            mailer.Mailer
	frontendBaseURL string
}

func NewHandler(logger *slog.Logger, mail mailer.Mailer, frontendBaseURL string) *Handler {
	return &Handler{
		logger:          logger,
		mail:            mail,
		frontendBaseURL: frontendBaseURL,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeResetEmail, h.HandleResetEmail)
}

func (h *Handler) HandleResetEmail(ctx context.Context, t *asynq.Task) error {
	var payload ResetEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	h.logger.Info("sending admin reset email", "to", payload.To)

	link := fmt.Sprintf("%s/admin/reset-password?token=%s", h.frontendBaseURL, payload.Token)
	body := fmt.Sprintf(
		"Hi %s,\n\nA password reset was requested for your admin account.\n\n"+
			"Reset your password here (valid for one hour):\n%s\n\n"+
			"If you did not request this, you can ignore this email.\n",
		payload.AdminName, link,
	)

	if err := h.mail.Send(payload.To, "Admin Password Reset", body); err != nil {
		h.logger.Error("reset email delivery failed", "to", payload.To, "error", err)
		return err
	}

	h.logger.Info("reset email sent", "to", payload.To)
	return nil
}
