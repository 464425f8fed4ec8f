package auth

import (
	"context"
	"errors"
	"time"

	"github.com/greenloop/greenloop/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrAccountSuspended = errors.New("account suspended")
)

type Service struct {
	db  *gorm.DB
	jwt *JWTService
}

func NewService(db *gorm.DB, jwt *JWTService) *Service {
	return &Service{db: db, jwt: jwt}
}

// ExternalIdentity is the already-verified identity handed over by the
// identity provider. This service never validates provider tokens itself.
type ExternalIdentity struct {
	ExternalID string
	Email      string
	Name       string
	AvatarURL  string
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// LoginWithExternalIdentity upserts the user keyed by external id. New users
// start as active non-admins; returning users get their last-login stamped.
// Suspended accounts fail with ErrAccountSuspended before a token is issued.
func (s *Service) LoginWithExternalIdentity(ctx context.Context, ident ExternalIdentity) (*AuthResponse, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("external_id = ?", ident.ExternalID).First(&user).Error

	now := time.Now().Unix()
	switch {
	case err == nil:
		if !user.IsActive {
			return nil, ErrAccountSuspended
		}
		user.LastLogin = &now
		if err := s.db.WithContext(ctx).Model(&user).Update("last_login", now).Error; err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ExternalID: ident.ExternalID,
			Email:      ident.Email,
			Name:       ident.Name,
			AvatarURL:  ident.AvatarURL,
			IsAdmin:    false,
			IsActive:   true,
			LastLogin:  &now,
		}
		if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	token, err := s.jwt.GenerateToken(user.ID.String(), user.IsAdmin)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{Token: token, User: &user}, nil
}

func (s *Service) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
