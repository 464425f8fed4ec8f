package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/database/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// Each sqlite :memory: connection is its own database, so pin the
	// pool to one connection. Concurrent callers serialize on it.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Item{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.Location{},
		&models.AppSetting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// SilentLogger returns a logger that discards everything
func SilentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestUser creates an active community member
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	suffix := uuid.New().String()[:8]
	now := time.Now().Unix()
	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		ExternalID: "ext-" + suffix,
		Email:      "test-" + suffix + "@example.com",
		Name:       "Test User " + suffix,
		IsActive:   true,
		LastLogin:  &now,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	return user
}

// CreateTestItem creates an item owned by the given user. It starts
// unreviewed and available, same as a fresh submission.
func CreateTestItem(t *testing.T, db *gorm.DB, owner *models.User) *models.Item {
	t.Helper()

	item := &models.Item{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:         "Test Item " + uuid.New().String()[:8],
		Quantity:     1,
		Category:     "Other",
		Location:     "Main Campus",
		OwnerID:      owner.ID,
		OwnerName:    owner.Name,
		OwnerEmail:   owner.Email,
		ExpiryDate:   time.Now().Add(14 * 24 * time.Hour),
		DurationDays: 7,
		Description:  "A perfectly usable test item",
		ImageURLs:    models.StringArray{"https://example.com/img.jpg"},
		Status:       models.ItemStatusAvailable,
	}

	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create test item: %v", err)
	}

	return item
}

// ApproveTestItem flips the item into the approved bucket
func ApproveTestItem(t *testing.T, db *gorm.DB, item *models.Item) {
	t.Helper()

	now := time.Now()
	err := db.Model(item).Updates(map[string]interface{}{
		"approved":    true,
		"approved_at": now,
	}).Error
	if err != nil {
		t.Fatalf("failed to approve test item: %v", err)
	}
	item.Approved = true
	item.ApprovedAt = &now
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// GenerateTestToken generates a valid token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID.String(), user.IsAdmin)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// GenerateAdminToken generates a token carrying the admin flag
func GenerateAdminToken(t *testing.T, jwtService *auth.JWTService) string {
	t.Helper()

	token, err := jwtService.GenerateToken(auth.AdminSubject, true)
	if err != nil {
		t.Fatalf("failed to generate admin token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	User       *models.User
	Token      string
	AdminToken string
}

// NewTestContext creates a complete test setup with DB, user and tokens
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	user := CreateTestUser(t, db)
	token := GenerateTestToken(t, jwtService, user)
	adminToken := GenerateAdminToken(t, jwtService)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		User:       user,
		Token:      token,
		AdminToken: adminToken,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
