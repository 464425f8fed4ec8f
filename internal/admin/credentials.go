// Package admin persists the singleton administrator credential inside the
// generic app_settings table, under a fixed key, as a versioned JSON blob.
// It is deliberately separate from the users table: the admin is a service
// credential, not a community member.
package admin

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/greenloop/greenloop/internal/auth"
	"github.com/greenloop/greenloop/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrAdminExists        = errors.New("admin already exists")
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailMismatch      = errors.New("email does not match admin account")
	ErrInvalidResetToken  = errors.New("invalid reset token")
	ErrResetTokenExpired  = errors.New("reset token expired")
)

const (
	profileSchemaVersion = 1
	resetTokenTTL        = time.Hour
)

// profile is the encoded shape of the admin blob. SchemaVersion guards the
// decode path against blobs written by a future layout.
type profile struct {
	SchemaVersion int    `json:"schema_version"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	PasswordHash  string `json:"password_hash"`
	CreatedAt     string `json:"created_at"`
	LastLogin     string `json:"last_login,omitempty"`
	ResetToken    string `json:"reset_token,omitempty"`
	ResetExpires  string `json:"reset_expires,omitempty"`
}

// Identity is the minimal admin view returned by authentication.
type Identity struct {
	SubjectID string `json:"user_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
}

// Profile is the admin view exposed to the profile endpoint.
type Profile struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
	LastLogin string `json:"last_login,omitempty"`
}

type CredentialStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCredentialStore(db *gorm.DB, logger *slog.Logger) *CredentialStore {
	return &CredentialStore{db: db, logger: logger}
}

// SetupNeeded reports whether first-run admin setup is still required.
func (s *CredentialStore) SetupNeeded(ctx context.Context) (bool, error) {
	_, err := s.load(ctx)
	if errors.Is(err, ErrAdminNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// Create persists the singleton admin. Fails with ErrAdminExists once one
// exists; there is never more than one.
func (s *CredentialStore) Create(ctx context.Context, name, email, password string) error {
	if _, err := s.load(ctx); err == nil {
		return ErrAdminExists
	} else if !errors.Is(err, ErrAdminNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	p := &profile{
		SchemaVersion: profileSchemaVersion,
		Name:          strings.TrimSpace(name),
		Email:         strings.TrimSpace(email),
		PasswordHash:  hash,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	return s.save(ctx, p, "system")
}

// Authenticate checks email+password and stamps last-login on success.
func (s *CredentialStore) Authenticate(ctx context.Context, email, password string) (*Identity, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if p.Email != email || !auth.CheckPassword(password, p.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	p.LastLogin = time.Now().UTC().Format(time.RFC3339)
	if err := s.save(ctx, p, auth.AdminSubject); err != nil {
		return nil, err
	}

	return &Identity{
		SubjectID: auth.AdminSubject,
		Name:      p.Name,
		Email:     p.Email,
		IsAdmin:   true,
	}, nil
}

// VerifyPassword checks the password against the stored hash without
// touching last-login.
func (s *CredentialStore) VerifyPassword(ctx context.Context, password string) (bool, error) {
	p, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	return auth.CheckPassword(password, p.PasswordHash), nil
}

// GetProfile returns the admin view without credential material.
func (s *CredentialStore) GetProfile(ctx context.Context) (*Profile, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &Profile{
		Name:      p.Name,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		LastLogin: p.LastLogin,
	}, nil
}

// UpdateProfile overwrites each provided non-blank field. The caller must
// present the current email; a new password is re-hashed before storing.
func (s *CredentialStore) UpdateProfile(ctx context.Context, currentEmail, newName, newEmail, newPassword string) (*Profile, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if p.Email != currentEmail {
		return nil, ErrEmailMismatch
	}

	if v := strings.TrimSpace(newName); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(newEmail); v != "" {
		p.Email = v
	}
	if v := strings.TrimSpace(newPassword); v != "" {
		hash, err := auth.HashPassword(v)
		if err != nil {
			return nil, err
		}
		p.PasswordHash = hash
	}

	if err := s.save(ctx, p, auth.AdminSubject); err != nil {
		return nil, err
	}
	return &Profile{Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt, LastLogin: p.LastLogin}, nil
}

// ResetRequest carries what the mailer needs to deliver the reset link.
type ResetRequest struct {
	Token     string
	AdminName string
	Email     string
}

// RequestReset issues a single-use URL-safe token valid for one hour. The
// supplied email must equal the stored admin email, so a reset can never be
// pointed at an arbitrary address.
func (s *CredentialStore) RequestReset(ctx context.Context, email string) (*ResetRequest, error) {
	p, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if p.Email != email {
		s.logger.Warn("reset requested for non-admin email", "email", email)
		return nil, ErrEmailMismatch
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("generating reset token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(buf)

	p.ResetToken = token
	p.ResetExpires = time.Now().UTC().Add(resetTokenTTL).Format(time.RFC3339)
	if err := s.save(ctx, p, auth.AdminSubject); err != nil {
		return nil, err
	}

	return &ResetRequest{Token: token, AdminName: p.Name, Email: p.Email}, nil
}

// ConsumeReset validates the token, re-hashes the password and clears the
// token fields so a second use fails with ErrInvalidResetToken.
func (s *CredentialStore) ConsumeReset(ctx context.Context, token, newPassword string) error {
	p, err := s.load(ctx)
	if err != nil {
		return err
	}

	if p.ResetToken == "" || p.ResetToken != token {
		return ErrInvalidResetToken
	}

	expires, err := time.Parse(time.RFC3339, p.ResetExpires)
	if err != nil || time.Now().UTC().After(expires) {
		return ErrResetTokenExpired
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	p.PasswordHash = hash
	p.ResetToken = ""
	p.ResetExpires = ""
	return s.save(ctx, p, auth.AdminSubject)
}

func (s *CredentialStore) load(ctx context.Context) (*profile, error) {
	var row models.AppSetting
	err := s.db.WithContext(ctx).Where("setting_key = ?", models.SettingAdminProfile).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}

	var p profile
	if err := json.Unmarshal([]byte(row.Value), &p); err != nil {
		return nil, fmt.Errorf("decoding admin profile: %w", err)
	}
	if p.SchemaVersion != profileSchemaVersion {
		return nil, fmt.Errorf("unsupported admin profile schema version %d", p.SchemaVersion)
	}
	return &p, nil
}

func (s *CredentialStore) save(ctx context.Context, p *profile, updatedBy string) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding admin profile: %w", err)
	}

	row := models.AppSetting{
		Key:       models.SettingAdminProfile,
		Value:     string(data),
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: updatedBy,
	}
	return s.db.WithContext(ctx).Save(&row).Error
}
