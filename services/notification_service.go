package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/personnel-api/models"
	"github.com/yeremiapane/personnel-api/repository"
	"github.com/yeremiapane/personnel-api/utils"
)

// Publisher receives a user's unread count whenever it may have changed.
type Publisher interface {
	PublishUnreadCount(userID uint, count int64)
}

type CreateNotificationInput struct {
	RecipientID uint
	Type        string
	Title       string
	Message     string
	Link        *string
}

// NotificationService scopes every operation to the calling user; a caller
// never sees, counts or changes another user's notifications.
type NotificationService struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	publisher     Publisher
	Clock         func() time.Time
}

// NewNotificationService accepts a nil publisher.
func NewNotificationService(notifications repository.NotificationRepository, users repository.UserRepository, publisher Publisher) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		users:         users,
		publisher:     publisher,
		Clock:         time.Now,
	}
}

func (s *NotificationService) List(ctx context.Context, callerID uint, isRead *bool) ([]models.Notification, error) {
	return s.notifications.ListForRecipient(ctx, callerID, isRead)
}

func (s *NotificationService) Get(ctx context.Context, callerID, id uint) (*models.Notification, error) {
	notif, err := s.notifications.FindForRecipient(ctx, callerID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	return notif, err
}

func (s *NotificationService) UnreadCount(ctx context.Context, callerID uint) (int64, error) {
	return s.notifications.CountUnread(ctx, callerID)
}

// MarkAllRead returns the number of notifications that changed state.
func (s *NotificationService) MarkAllRead(ctx context.Context, callerID uint) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, callerID, s.Clock().UTC())
	if err != nil {
		return 0, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"user_id": callerID,
		"updated": updated,
	}).Info("notifications marked read")

	if updated > 0 {
		s.publishCurrent(ctx, callerID)
	}
	return updated, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, callerID, id uint) (*models.Notification, error) {
	notif, err := s.notifications.MarkRead(ctx, callerID, id, s.Clock().UTC())
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.publishCurrent(ctx, callerID)
	return notif, nil
}

// SetRead marks one notification read or unread.
func (s *NotificationService) SetRead(ctx context.Context, callerID, id uint, isRead bool) (*models.Notification, error) {
	if isRead {
		return s.MarkRead(ctx, callerID, id)
	}

	notif, err := s.notifications.MarkUnread(ctx, callerID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	s.publishCurrent(ctx, callerID)
	return notif, nil
}

func (s *NotificationService) Delete(ctx context.Context, callerID, id uint) error {
	err := s.notifications.Delete(ctx, callerID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("notification %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return err
	}

	s.publishCurrent(ctx, callerID)
	return nil
}

// Create is reserved to staff members.
func (s *NotificationService) Create(ctx context.Context, callerID uint, in CreateNotificationInput) (*models.Notification, error) {
	caller, err := s.users.FindByID(ctx, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}
	if !caller.IsStaff {
		return nil, ErrForbidden
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" || in.Message == "" {
		return nil, fmt.Errorf("title and message are required: %w", ErrInvalidInput)
	}
	if in.Type == "" {
		in.Type = models.NotificationTypeGeneral
	}

	if _, err := s.users.FindByID(ctx, in.RecipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("recipient %d: %w", in.RecipientID, ErrNotFound)
		}
		return nil, err
	}

	notif := &models.Notification{
		RecipientID: in.RecipientID,
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		Link:        in.Link,
	}
	if err := s.notifications.Create(ctx, notif); err != nil {
		return nil, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"notification_id": notif.ID,
		"recipient_id":    notif.RecipientID,
		"author_id":       callerID,
	}).Info("notification created")

	s.publishCurrent(ctx, in.RecipientID)
	return notif, nil
}

func (s *NotificationService) publishCurrent(ctx context.Context, userID uint) {
	if s.publisher == nil {
		return
	}
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", userID).Error("unread count for publish failed")
		return
	}
	s.publisher.PublishUnreadCount(userID, count)
}
