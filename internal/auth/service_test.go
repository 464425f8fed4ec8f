package auth_test

import (
	"testing"

	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginWithExternalIdentity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := testutil.TestContext(t)

	ident := auth.ExternalIdentity{
		ExternalID: "provider|12345",
		Email:      "maria@example.com",
		Name:       "Maria",
	}

	t.Run("first login creates the user", func(t *testing.T) {
		resp, err := svc.LoginWithExternalIdentity(ctx, ident)
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "maria@example.com", resp.User.Email)
		assert.True(t, resp.User.IsActive)
		assert.False(t, resp.User.IsAdmin)
		require.NotNil(t, resp.User.LastLogin)
	})

	t.Run("second login reuses the same row", func(t *testing.T) {
		first, err := svc.LoginWithExternalIdentity(ctx, ident)
		require.NoError(t, err)
		second, err := svc.LoginWithExternalIdentity(ctx, ident)
		require.NoError(t, err)
		assert.Equal(t, first.User.ID, second.User.ID)

		var count int64
		db.Model(&models.User{}).Where("external_id = ?", ident.ExternalID).Count(&count)
		assert.Equal(t, int64(1), count)
	})

	t.Run("suspended account cannot log in", func(t *testing.T) {
		resp, err := svc.LoginWithExternalIdentity(ctx, ident)
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.User{}).
			Where("id = ?", resp.User.ID).
			Update("is_active", false).Error)

		_, err = svc.LoginWithExternalIdentity(ctx, ident)
		assert.ErrorIs(t, err, auth.ErrAccountSuspended)
	})
}

func TestGetUserByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := auth.NewService(db, testutil.CreateTestJWTService())
	ctx := testutil.TestContext(t)

	user := testutil.CreateTestUser(t, db)

	got, err := svc.GetUserByID(ctx, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = svc.GetUserByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
