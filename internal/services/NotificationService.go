package services

import (
	"context"
	"studytime/internal/models"
)

const (
	DefaultNotificationLimit = 10
	MaxNotificationLimit     = 100
)

type NotificationServiceInterface interface {
	ListNotifications(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)
	MarkNotificationRead(ctx context.Context, userID, notificationID int64) (*models.Notification, error)
}

type NotificationService struct {
	store models.Store
}

func NewNotificationService(store models.Store) NotificationServiceInterface {
	return &NotificationService{store: store}
}

// ListNotifications returns newest first. A non-positive limit means the default.
func (ns *NotificationService) ListNotifications(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	switch {
	case limit <= 0:
		limit = DefaultNotificationLimit
	case limit > MaxNotificationLimit:
		limit = MaxNotificationLimit
	}
	return ns.store.Notifications().ListByUser(ctx, userID, limit)
}

func (ns *NotificationService) MarkNotificationRead(ctx context.Context, userID, notificationID int64) (*models.Notification, error) {
	n, err := ns.store.Notifications().Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, models.NotFoundf("notification %d", notificationID)
	}
	return ns.store.Notifications().MarkRead(ctx, notificationID)
}
