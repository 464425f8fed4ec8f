package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/greenloop/greenloop/internal/api/handlers"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupUserTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup) {
	tc := testutil.NewTestContext(t)

	userHandler := handlers.NewUserHandler(tc.DB)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Use(middleware.RequireAdmin)
		r.Get("/api/v1/admin/users", userHandler.List)
		r.Post("/api/v1/admin/users/{id}/suspend", userHandler.Suspend)
		r.Post("/api/v1/admin/users/{id}/activate", userHandler.Activate)
		r.Delete("/api/v1/admin/users/{id}", userHandler.Delete)
	})

	return r, tc
}

func TestUserList(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	testutil.CreateTestUser(t, tc.DB)

	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/users", nil, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var users []models.User
	testutil.ParseJSONResponse(t, rr, &users)
	assert.Len(t, users, 2)
}

func TestUserSuspendActivate(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/users/"+tc.User.ID.String()+"/suspend", nil, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var user models.User
	require.NoError(t, tc.DB.First(&user, "id = ?", tc.User.ID).Error)
	assert.False(t, user.IsActive)

	req = testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/users/"+tc.User.ID.String()+"/activate", nil, tc.AdminToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	require.NoError(t, tc.DB.First(&user, "id = ?", tc.User.ID).Error)
	assert.True(t, user.IsActive)
}

func TestUserSuspendUnknownID(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/users/00000000-0000-0000-0000-000000000001/suspend", nil, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestUserDeleteCascades(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	victim := testutil.CreateTestUser(t, tc.DB)
	other := testutil.CreateTestUser(t, tc.DB)

	// An item owned by the victim with a chat thread on it, plus a message
	// the victim sent on someone else's item and a notification for them.
	ownItem := testutil.CreateTestItem(t, tc.DB, victim)
	require.NoError(t, tc.DB.Create(&models.ChatMessage{
		ItemID:     ownItem.ID,
		SenderID:   other.ID,
		SenderName: other.Name,
		Body:       "is this still available?",
	}).Error)

	otherItem := testutil.CreateTestItem(t, tc.DB, other)
	require.NoError(t, tc.DB.Create(&models.ChatMessage{
		ItemID:     otherItem.ID,
		SenderID:   victim.ID,
		SenderName: victim.Name,
		Body:       "I can pick it up tomorrow",
	}).Error)

	require.NoError(t, tc.DB.Create(&models.Notification{
		UserID: victim.ID,
		Type:   models.NotificationItemApproved,
		Title:  "Item approved",
	}).Error)

	req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/admin/users/"+victim.ID.String(), nil, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var count int64
	tc.DB.Model(&models.User{}).Where("id = ?", victim.ID).Count(&count)
	assert.Zero(t, count)

	tc.DB.Model(&models.Item{}).Where("owner_id = ?", victim.ID).Count(&count)
	assert.Zero(t, count)

	tc.DB.Model(&models.ChatMessage{}).Where("item_id = ?", ownItem.ID).Count(&count)
	assert.Zero(t, count)

	tc.DB.Model(&models.ChatMessage{}).Where("sender_id = ?", victim.ID).Count(&count)
	assert.Zero(t, count)

	tc.DB.Model(&models.Notification{}).Where("user_id = ?", victim.ID).Count(&count)
	assert.Zero(t, count)

	// The other user's item and data survive.
	tc.DB.Model(&models.Item{}).Where("owner_id = ?", other.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUserDeleteUnknownID(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	req := testutil.AuthenticatedRequest(t, "DELETE", "/api/v1/admin/users/00000000-0000-0000-0000-000000000001", nil, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestUserRoutesRequireAdmin(t *testing.T) {
	router, tc := setupUserTestRouter(t)
	defer tc.Cleanup()

	req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/users", nil, tc.Token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusForbidden)
}
