// Package catalog owns the item lifecycle state machine: submission,
// moderation (approve/reject), claiming and completion. Moderation outcome
// and transactional status are independent axes; see models.Item.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/greenloop/greenloop/internal/database/models"
	"github.com/greenloop/greenloop/internal/notify"
	"github.com/greenloop/greenloop/internal/storage"
	"gorm.io/gorm"
)

var (
	ErrItemNotFound = errors.New("item not found")
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("not authorized for this item")
	ErrNotApproved  = errors.New("item not approved")
	ErrNotAvailable = errors.New("item not available")
	ErrSelfClaim    = errors.New("cannot claim your own item")
)

const (
	claimWindow   = 72 * time.Hour
	imageFolder   = "items"
	minNameLen    = 2
	maxNameLen    = 100
	minDescLen    = 10
	maxDescLen    = 500
	maxContactLen = 100
	maxQuantity   = 999
)

// ValidationError carries every violated rule, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d rule(s) violated", len(e.Violations))
}

// Actor identifies who is performing an operation. The admin acts with
// IsAdmin set and a nil ID, since the admin is not a row in users.
type Actor struct {
	ID      uuid.UUID
	IsAdmin bool
}

func (a Actor) owns(item *models.Item) bool {
	return a.ID != uuid.Nil && a.ID == item.OwnerID
}

func (a Actor) claims(item *models.Item) bool {
	return item.ClaimedBy != nil && a.ID == *item.ClaimedBy
}

// ImageUpload is one image attached to a submission.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateInput carries the fields of a new submission. ExpiryDate is RFC3339.
type CreateInput struct {
	Name         string
	Quantity     int
	Category     string
	Location     string
	ExpiryDate   string
	DurationDays int
	Description  string
	ContactInfo  string
}

// UpdateInput patches an item; nil fields are left untouched.
type UpdateInput struct {
	Name         *string
	Quantity     *int
	Category     *string
	Location     *string
	ExpiryDate   *string
	DurationDays *int
	Description  *string
	ContactInfo  *string
}

type Service struct {
	db             *gorm.DB
	blobs          storage.BlobStore
	notifier       *notify.Service
	logger         *slog.Logger
	maxUploadBytes int64
}

func NewService(db *gorm.DB, blobs storage.BlobStore, notifier *notify.Service, logger *slog.Logger, maxUploadBytes int64) *Service {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 * 1024 * 1024
	}
	return &Service{
		db:             db,
		blobs:          blobs,
		notifier:       notifier,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Create validates the submission, uploads every image, then persists the
// item pending review. Validation failures precede any upload; an upload
// failure aborts the whole operation with nothing persisted.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input CreateInput, images []ImageUpload) (*models.Item, error) {
	if verr := s.validateCreate(input, images); verr != nil {
		return nil, verr
	}

	var owner models.User
	if err := s.db.WithContext(ctx).First(&owner, "id = ?", ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	urls := make(models.StringArray, 0, len(images))
	for _, img := range images {
		url, err := s.blobs.Store(ctx, img.Data, normalizeContentType(img.ContentType), imageFolder)
		if err != nil {
			s.logger.Error("image upload failed", "filename", img.Filename, "error", err)
			return nil, err
		}
		urls = append(urls, url)
	}

	expiry, _ := time.Parse(time.RFC3339, input.ExpiryDate) // validated above

	item := models.Item{
		Name:         trimmed(input.Name),
		Quantity:     input.Quantity,
		Category:     trimmed(input.Category),
		Location:     trimmed(input.Location),
		OwnerID:      owner.ID,
		OwnerName:    owner.Name,
		OwnerEmail:   owner.Email,
		ExpiryDate:   expiry,
		DurationDays: input.DurationDays,
		Description:  trimmed(input.Description),
		ContactInfo:  trimmed(input.ContactInfo),
		ImageURLs:    urls,
		Status:       models.ItemStatusAvailable,
		Approved:     false,
	}
	if item.DurationDays <= 0 {
		item.DurationDays = 7
	}

	if err := s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}

	s.logger.Info("item submitted for review", "item_id", item.ID, "owner_id", owner.ID)
	return &item, nil
}

// Update applies the provided fields. A non-admin edit clears the moderation
// outcome (approval flag and any rejection) so the item lands back in the
// pending bucket.
func (s *Service) Update(ctx context.Context, id uuid.UUID, actor Actor, patch UpdateInput) (*models.Item, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(item) && !actor.IsAdmin {
		return nil, ErrForbidden
	}

	updates := map[string]interface{}{}
	if patch.Name != nil {
		updates["name"] = trimmed(*patch.Name)
	}
	if patch.Quantity != nil {
		updates["quantity"] = *patch.Quantity
	}
	if patch.Category != nil {
		updates["category"] = trimmed(*patch.Category)
	}
	if patch.Location != nil {
		updates["location"] = trimmed(*patch.Location)
	}
	if patch.ExpiryDate != nil {
		expiry, perr := time.Parse(time.RFC3339, *patch.ExpiryDate)
		if perr != nil {
			return nil, &ValidationError{Violations: []string{"Invalid expiry date format"}}
		}
		updates["expiry_date"] = expiry
	}
	if patch.DurationDays != nil {
		updates["duration_days"] = *patch.DurationDays
	}
	if patch.Description != nil {
		updates["description"] = trimmed(*patch.Description)
	}
	if patch.ContactInfo != nil {
		updates["contact_info"] = trimmed(*patch.ContactInfo)
	}

	if !actor.IsAdmin {
		updates["approved"] = false
		updates["rejection_reason"] = nil
		updates["rejected_at"] = nil
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return s.get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID, actor Actor) error {
	item, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.owns(item) && !actor.IsAdmin {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&models.Item{}, "id = ?", id).Error
}

// Approve marks the item publicly visible and notifies the owner. Approving
// a previously rejected item clears the rejection fields so the admin
// buckets stay disjoint.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"approved":         true,
		"approved_at":      now,
		"rejection_reason": nil,
		"rejected_at":      nil,
	}
	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, item.OwnerID,
		"Item Approved",
		fmt.Sprintf("Your item %q has been approved and is now live!", item.Name),
		models.NotificationItemApproved, &item.ID, "/dashboard")

	return s.get(ctx, id)
}

// Reject records the moderation outcome with its reason and notifies the
// owner.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*models.Item, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{
		"approved":         false,
		"rejection_reason": reason,
		"rejected_at":      now,
	}
	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, item.OwnerID,
		"Item Rejected",
		fmt.Sprintf("Your item %q was rejected. Reason: %s", item.Name, reason),
		models.NotificationItemRejected, &item.ID, "/dashboard")

	return s.get(ctx, id)
}

// Claim reserves an approved, available item for claimantID. The transition
// is an atomic conditional update so concurrent claims race safely: the
// status and approval guards in the WHERE clause let exactly one caller
// through and the rest observe ErrNotAvailable. The approval guard also
// covers an owner edit un-approving the item between the read above and
// the write.
func (s *Service) Claim(ctx context.Context, id, claimantID uuid.UUID) (*models.Item, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !item.Approved {
		return nil, ErrNotApproved
	}
	if item.Status != models.ItemStatusAvailable {
		return nil, ErrNotAvailable
	}
	if item.OwnerID == claimantID {
		return nil, ErrSelfClaim
	}

	var claimant models.User
	if err := s.db.WithContext(ctx).First(&claimant, "id = ?", claimantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	expires := time.Now().Add(claimWindow)
	res := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND status = ? AND approved = ?", id, models.ItemStatusAvailable, true).
		Updates(map[string]interface{}{
			"status":           models.ItemStatusClaimed,
			"claimed_by":       claimant.ID,
			"claimant_email":   claimant.Email,
			"claim_expires_at": expires,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race to another claimant.
		return nil, ErrNotAvailable
	}

	s.notifier.Notify(ctx, item.OwnerID,
		"Someone Claimed Your Item!",
		fmt.Sprintf("%s wants to claim your %q. You can now chat with them!", claimant.Name, item.Name),
		models.NotificationItemClaimed, &item.ID, "/dashboard")

	return s.get(ctx, id)
}

// Complete marks the hand-off done. Only the owner or the current claimant
// may complete. Lapsed claim_expires_at is advisory; no sweep reacts to it.
func (s *Service) Complete(ctx context.Context, id uuid.UUID, actor Actor) (*models.Item, error) {
	item, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.owns(item) && !actor.claims(item) {
		return nil, ErrForbidden
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.ItemStatusCompleted,
		"completed_at": now,
	}
	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	return s.get(ctx, id)
}

// FeedFilter narrows the public listing.
type FeedFilter struct {
	Category     string
	Status       string
	ApprovedOnly bool
}

// Feed returns the public listing, newest first.
func (s *Service) Feed(ctx context.Context, filter FeedFilter) ([]models.Item, error) {
	query := s.db.WithContext(ctx).Model(&models.Item{})
	if filter.ApprovedOnly {
		query = query.Where("approved = ?", true)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var items []models.Item
	err := query.Order("created_at DESC").Find(&items).Error
	return items, err
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) ListClaimedBy(ctx context.Context, claimantID uuid.UUID) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("claimed_by = ?", claimantID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

// The three admin buckets partition all items: pending has no moderation
// outcome yet, approved passed review, rejected carries a reason. A
// non-admin edit clears the rejection fields precisely so an item can never
// sit in two buckets at once.

func (s *Service) ListPending(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("approved = ? AND rejection_reason IS NULL", false).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) ListApproved(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("approved = ?", true).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) ListRejected(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := s.db.WithContext(ctx).
		Where("rejection_reason IS NOT NULL").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}
