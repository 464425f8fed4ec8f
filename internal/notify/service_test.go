package notify_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/internal/notify"
	"github.com/greenloop/greenloop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := notify.NewService(db, testutil.SilentLogger())
	ctx := testutil.TestContext(t)

	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)

	svc.Notify(ctx, user.ID, "First", "body", models.NotificationItemApproved, nil, "/dashboard")
	svc.Notify(ctx, user.ID, "Second", "body", models.NotificationNewMessage, nil, "/dashboard")
	svc.Notify(ctx, other.ID, "Not yours", "body", models.NotificationItemClaimed, nil, "/dashboard")

	t.Run("list is scoped to the user", func(t *testing.T) {
		list, err := svc.ListForUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("unread count", func(t *testing.T) {
		count, err := svc.UnreadCount(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("mark read is owner scoped", func(t *testing.T) {
		list, err := svc.ListForUser(ctx, user.ID)
		require.NoError(t, err)

		// Another user's id does not change it.
		found, err := svc.MarkRead(ctx, list[0].ID, other.ID)
		require.NoError(t, err)
		assert.False(t, found)

		found, err = svc.MarkRead(ctx, list[0].ID, user.ID)
		require.NoError(t, err)
		assert.True(t, found)

		// Marking again still succeeds.
		found, err = svc.MarkRead(ctx, list[0].ID, user.ID)
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("unknown id reports not found", func(t *testing.T) {
		found, err := svc.MarkRead(ctx, uuid.New(), user.ID)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("mark all read", func(t *testing.T) {
		count, err := svc.MarkAllRead(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		unread, err := svc.UnreadCount(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), unread)

		// Other user's mailbox untouched.
		unread, err = svc.UnreadCount(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)
	})
}
