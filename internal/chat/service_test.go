package chat_test

import (
	"fmt"
	"testing"

	"github.com/greenloop/greenloop/internal/chat"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/internal/notify"
	"github.com/greenloop/greenloop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupChat(t *testing.T) (*gorm.DB, *chat.Service, *models.User, *models.User, *models.Item) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	svc := chat.NewService(db, notify.NewService(db, testutil.SilentLogger()), testutil.SilentLogger())

	owner := testutil.CreateTestUser(t, db)
	claimant := testutil.CreateTestUser(t, db)

	item := testutil.CreateTestItem(t, db, owner)
	testutil.ApproveTestItem(t, db, item)
	require.NoError(t, db.Model(item).Updates(map[string]interface{}{
		"status":     models.ItemStatusClaimed,
		"claimed_by": claimant.ID,
	}).Error)
	item.ClaimedBy = &claimant.ID

	return db, svc, owner, claimant, item
}

func TestPost(t *testing.T) {
	db, svc, owner, claimant, item := setupChat(t)
	ctx := testutil.TestContext(t)

	t.Run("claimant message notifies the owner", func(t *testing.T) {
		msg, err := svc.Post(ctx, item.ID, claimant.ID, "Hi, is this still available?")
		require.NoError(t, err)
		assert.Equal(t, claimant.Name, msg.SenderName)
		assert.Equal(t, item.ID, msg.ItemID)

		var n models.Notification
		require.NoError(t, db.Where("user_id = ? AND type = ?", owner.ID, models.NotificationNewMessage).First(&n).Error)
	})

	t.Run("owner reply notifies the claimant", func(t *testing.T) {
		_, err := svc.Post(ctx, item.ID, owner.ID, "Yes, it is!")
		require.NoError(t, err)

		var n models.Notification
		require.NoError(t, db.Where("user_id = ? AND type = ?", claimant.ID, models.NotificationNewMessage).First(&n).Error)
	})

	t.Run("outsider is rejected", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db)
		_, err := svc.Post(ctx, item.ID, stranger.ID, "Let me in")
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})

	t.Run("empty message is rejected", func(t *testing.T) {
		_, err := svc.Post(ctx, item.ID, owner.ID, "")
		assert.ErrorIs(t, err, chat.ErrEmptyMessage)
	})

	t.Run("whitespace-only message is rejected", func(t *testing.T) {
		_, err := svc.Post(ctx, item.ID, owner.ID, "   \n\t ")
		assert.ErrorIs(t, err, chat.ErrEmptyMessage)
	})

	t.Run("surrounding whitespace is trimmed", func(t *testing.T) {
		msg, err := svc.Post(ctx, item.ID, owner.ID, "  see you at noon  ")
		require.NoError(t, err)
		assert.Equal(t, "see you at noon", msg.Body)
	})

	t.Run("owner message on an unclaimed item notifies nobody", func(t *testing.T) {
		unclaimed := testutil.CreateTestItem(t, db, owner)

		var before int64
		db.Model(&models.Notification{}).Count(&before)

		_, err := svc.Post(ctx, unclaimed.ID, owner.ID, "Talking to myself")
		require.NoError(t, err)

		var after int64
		db.Model(&models.Notification{}).Count(&after)
		assert.Equal(t, before, after)
	})
}

func TestList(t *testing.T) {
	db, svc, owner, claimant, item := setupChat(t)
	ctx := testutil.TestContext(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Post(ctx, item.ID, claimant.ID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	t.Run("participants read in order", func(t *testing.T) {
		messages, err := svc.List(ctx, item.ID, owner.ID)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "message 0", messages[0].Body)
		assert.Equal(t, "message 2", messages[2].Body)
	})

	t.Run("outsider cannot read", func(t *testing.T) {
		stranger := testutil.CreateTestUser(t, db)
		_, err := svc.List(ctx, item.ID, stranger.ID)
		assert.ErrorIs(t, err, chat.ErrNotParticipant)
	})
}
