package tasks_test

import (
	"context"
	"errors"
	"testing"

	"github.com/greenloop/greenloop/internal/mailer"
	"github.com/greenloop/greenloop/internal/tasks"
	"github.com/greenloop/greenloop/internal/testutil"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleResetEmail(t *testing.T) {
	t.Run("sends the email with the reset link", func(t *testing.T) {
		mail := &mailer.MemoryMailer{}
		handler := tasks.NewHandler(testutil.SilentLogger(), mail, "https://app.example.com")

		task, err := tasks.NewResetEmailTask(tasks.ResetEmailPayload{
			To:        "admin@example.com",
			AdminName: "Root Admin",
			Token:     "tok-123",
		})
		require.NoError(t, err)

		require.NoError(t, handler.HandleResetEmail(context.Background(), task))

		require.Len(t, mail.Sent, 1)
		sent := mail.Sent[0]
		assert.Equal(t, "admin@example.com", sent.To)
		assert.Contains(t, sent.Body, "Root Admin")
		assert.Contains(t, sent.Body, "https://app.example.com/admin/reset-password?token=tok-123")
	})

	t.Run("delivery failure is returned for retry", func(t *testing.T) {
		mail := &mailer.MemoryMailer{Err: errors.New("smtp down")}
		handler := tasks.NewHandler(testutil.SilentLogger(), mail, "https://app.example.com")

		task, err := tasks.NewResetEmailTask(tasks.ResetEmailPayload{To: "admin@example.com"})
		require.NoError(t, err)

		assert.Error(t, handler.HandleResetEmail(context.Background(), task))
	})

	t.Run("bad payload", func(t *testing.T) {
		handler := tasks.NewHandler(testutil.SilentLogger(), &mailer.MemoryMailer{}, "https://app.example.com")
		task := asynq.NewTask(tasks.TypeResetEmail, []byte("{not json"))
		assert.Error(t, handler.HandleResetEmail(context.Background(), task))
	})
}
