package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yeremiapane/personnel-api/models"
	"gorm.io/gorm"
)

type GormNotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{DB: db}
}

func (r *GormNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	if err := r.DB.WithContext(ctx).Create(n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (r *GormNotificationRepository) ListForRecipient(ctx context.Context, recipientID uint, isRead *bool) ([]models.Notification, error) {
	db := r.DB.WithContext(ctx).Scopes(ownedBy(recipientID))
	if isRead != nil {
		db = db.Where("is_read = ?", *isRead)
	}

	var notifs []models.Notification
	if err := db.Order("created_at DESC").Order("id DESC").Find(&notifs).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifs, nil
}

func (r *GormNotificationRepository) FindForRecipient(ctx context.Context, recipientID, id uint) (*models.Notification, error) {
	var notif models.Notification
	if err := r.DB.WithContext(ctx).Scopes(ownedBy(recipientID)).First(&notif, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &notif, nil
}

func (r *GormNotificationRepository) CountUnread(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Scopes(ownedBy(recipientID), unread).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead is idempotent: an already read notification keeps its read_at.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, recipientID, id uint, at time.Time) (*models.Notification, error) {
	notif, err := r.FindForRecipient(ctx, recipientID, id)
	if err != nil {
		return nil, err
	}
	if notif.IsRead {
		return notif, nil
	}

	err = r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notif.ID).
		Scopes(ownedBy(recipientID), unread).
		Updates(map[string]interface{}{"is_read": true, "read_at": at}).Error
	if err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}

	notif.IsRead = true
	notif.ReadAt = &at
	return notif, nil
}

// MarkUnread clears the read state of one notification.
func (r *GormNotificationRepository) MarkUnread(ctx context.Context, recipientID, id uint) (*models.Notification, error) {
	notif, err := r.FindForRecipient(ctx, recipientID, id)
	if err != nil {
		return nil, err
	}
	if !notif.IsRead {
		return notif, nil
	}

	err = r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notif.ID).
		Scopes(ownedBy(recipientID)).
		Updates(map[string]interface{}{"is_read": false, "read_at": nil}).Error
	if err != nil {
		return nil, fmt.Errorf("mark notification %d unread: %w", id, err)
	}

	notif.IsRead = false
	notif.ReadAt = nil
	return notif, nil
}

// MarkAllRead flips every unread notification of the recipient in one UPDATE
// and reports how many rows changed.
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, recipientID uint, at time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Scopes(ownedBy(recipientID), unread).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	if res.Error != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormNotificationRepository) Delete(ctx context.Context, recipientID, id uint) error {
	res := r.DB.WithContext(ctx).
		Scopes(ownedBy(recipientID)).
		Where("id = ?", id).
		Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("delete notification %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func ownedBy(recipientID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("recipient_id = ?", recipientID)
	}
}

func unread(db *gorm.DB) *gorm.DB {
	return db.Where("is_read = ?", false)
}
