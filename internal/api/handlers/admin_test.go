package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/greenloop/greenloop/internal/admin"
	"github.com/greenloop/greenloop/internal/api/handlers"
	"github.com/greenloop/greenloop/internal/api/middleware"
	"github.com/greenloop/greenloop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAdminTestRouter(t *testing.T) (*chi.Mux, *testutil.TestSetup, *admin.CredentialStore) {
	tc := testutil.NewTestContext(t)

	store := admin.NewCredentialStore(tc.DB, testutil.SilentLogger())
	adminHandler := handlers.NewAdminHandler(store, tc.JWTService, nil, testutil.SilentLogger())

	r := chi.NewRouter()
	r.Get("/api/v1/admin/setup-status", adminHandler.SetupStatus)
	r.Post("/api/v1/admin/setup", adminHandler.Setup)
	r.Post("/api/v1/admin/login", adminHandler.Login)
	r.Post("/api/v1/admin/forgot-password", adminHandler.ForgotPassword)
	r.Post("/api/v1/admin/reset-password", adminHandler.ResetPassword)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(tc.JWTService))
		r.Use(middleware.RequireAdmin)
		r.Get("/api/v1/admin/profile", adminHandler.GetProfile)
		r.Put("/api/v1/admin/profile", adminHandler.UpdateProfile)
		r.Post("/api/v1/admin/verify-password", adminHandler.VerifyPassword)
	})

	return r, tc, store
}

func createAdmin(t *testing.T, router *chi.Mux) {
	t.Helper()

	req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/setup", map[string]string{
		"name":     "Site Admin",
		"email":    "admin@greenloop.org",
		"password": "Sup3rsecret",
	})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusCreated)
}

func TestAdminSetup(t *testing.T) {
	t.Run("setup status flips after creation", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		req := testutil.UnauthenticatedRequest(t, "GET", "/api/v1/admin/setup-status", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var status map[string]bool
		testutil.ParseJSONResponse(t, rr, &status)
		assert.True(t, status["setup_needed"])

		createAdmin(t, router)

		req = testutil.UnauthenticatedRequest(t, "GET", "/api/v1/admin/setup-status", nil)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.ParseJSONResponse(t, rr, &status)
		assert.False(t, status["setup_needed"])
	})

	t.Run("second setup attempt conflicts", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/setup", map[string]string{
			"name":     "Second Admin",
			"email":    "other@greenloop.org",
			"password": "Sup3rsecret",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusConflict)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/setup", map[string]string{
			"name":     "Site Admin",
			"email":    "admin@greenloop.org",
			"password": "short",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestAdminLogin(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/login", map[string]string{
			"email":    "admin@greenloop.org",
			"password": "Sup3rsecret",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var resp struct {
			Token string `json:"token"`
			User  struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"user"`
		}
		testutil.ParseJSONResponse(t, rr, &resp)
		require.NotEmpty(t, resp.Token)
		assert.Equal(t, "Site Admin", resp.User.Name)

		claims, err := tc.JWTService.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.True(t, claims.IsAdmin)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/login", map[string]string{
			"email":    "admin@greenloop.org",
			"password": "WrongPassw0rd",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("login before setup is unauthorized", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/login", map[string]string{
			"email":    "admin@greenloop.org",
			"password": "Sup3rsecret",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})
}

func TestAdminProfile(t *testing.T) {
	t.Run("requires admin token", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/profile", nil, tc.Token)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusForbidden)
	})

	t.Run("get and update", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/profile", nil, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var profile struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		testutil.ParseJSONResponse(t, rr, &profile)
		assert.Equal(t, "admin@greenloop.org", profile.Email)

		req = testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/profile", map[string]string{
			"current_email": "admin@greenloop.org",
			"name":          "Renamed Admin",
		}, tc.AdminToken)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		testutil.ParseJSONResponse(t, rr, &profile)
		assert.Equal(t, "Renamed Admin", profile.Name)
		assert.Equal(t, "admin@greenloop.org", profile.Email)
	})

	t.Run("update with wrong current email conflicts", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/profile", map[string]string{
			"current_email": "impostor@greenloop.org",
			"name":          "Renamed Admin",
		}, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusConflict)

		req = testutil.AuthenticatedRequest(t, "GET", "/api/v1/admin/profile", nil, tc.AdminToken)
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		var profile struct {
			Name string `json:"name"`
		}
		testutil.ParseJSONResponse(t, rr, &profile)
		assert.Equal(t, "Site Admin", profile.Name)
	})

	t.Run("update without current email is a validation failure", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.AuthenticatedRequest(t, "PUT", "/api/v1/admin/profile", map[string]string{
			"name": "Renamed Admin",
		}, tc.AdminToken)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}

func TestAdminVerifyPassword(t *testing.T) {
	router, tc, _ := setupAdminTestRouter(t)
	defer tc.Cleanup()

	createAdmin(t, router)

	req := testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/verify-password", map[string]string{
		"password": "Sup3rsecret",
	}, tc.AdminToken)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]bool
	testutil.ParseJSONResponse(t, rr, &resp)
	assert.True(t, resp["valid"])

	req = testutil.AuthenticatedRequest(t, "POST", "/api/v1/admin/verify-password", map[string]string{
		"password": "WrongPassw0rd",
	}, tc.AdminToken)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	testutil.ParseJSONResponse(t, rr, &resp)
	assert.False(t, resp["valid"])
}

func TestAdminPasswordReset(t *testing.T) {
	t.Run("forgot password response does not reveal a mismatch", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/forgot-password", map[string]string{
			"email": "admin@greenloop.org",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		matched := rr.Body.String()

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/forgot-password", map[string]string{
			"email": "nobody@greenloop.org",
		})
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, matched, rr.Body.String())
	})

	t.Run("reset with a valid token changes the password", func(t *testing.T) {
		router, tc, store := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		reset, err := store.RequestReset(testutil.TestContext(t), "admin@greenloop.org")
		require.NoError(t, err)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/reset-password", map[string]string{
			"token":        reset.Token,
			"new_password": "BrandNewPass1",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/login", map[string]string{
			"email":    "admin@greenloop.org",
			"password": "BrandNewPass1",
		})
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusOK)

		req = testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/login", map[string]string{
			"email":    "admin@greenloop.org",
			"password": "Sup3rsecret",
		})
		rr = httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		router, tc, _ := setupAdminTestRouter(t)
		defer tc.Cleanup()

		createAdmin(t, router)

		req := testutil.UnauthenticatedRequest(t, "POST", "/api/v1/admin/reset-password", map[string]string{
			"token":        "not-a-real-token",
			"new_password": "BrandNewPass1",
		})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})
}
