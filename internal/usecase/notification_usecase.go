package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"job-portal/internal/domain/notification"
	"job-portal/internal/infrastructure/events"

	"github.com/google/uuid"
)

const notificationListLimit = 10

type NotificationUsecase interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
}

// Notifications stores notifications and fans them out to live websocket
// sessions and the event bus. Delivery beyond the database is best effort.
type Notifications struct {
	repo   notification.Repository
	pusher Pusher
	events EventPublisher
	logger *log.Logger
	now    func() time.Time
}

func NewNotifications(repo notification.Repository, pusher Pusher, events EventPublisher, logger *log.Logger) *Notifications {
	if logger == nil {
		logger = log.Default()
	}
	return &Notifications{repo: repo, pusher: pusher, events: events, logger: logger, now: time.Now}
}

func (n *Notifications) ListForUser(ctx context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	if userID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	items, err := n.repo.ListForUser(ctx, userID, notificationListLimit)
	if err != nil {
		return nil, ErrInternal
	}
	return items, nil
}

func (n *Notifications) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	if err := n.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return ErrInternal
	}
	return nil
}

// Send persists items in one batch, then pushes each one to its recipient.
// IDs and timestamps are assigned here.
func (n *Notifications) Send(ctx context.Context, items []notification.Notification) ([]notification.Notification, error) {
	if len(items) == 0 {
		return items, nil
	}
	now := n.now().UTC()
	for i := range items {
		if items[i].ID == uuid.Nil {
			items[i].ID = uuid.New()
		}
		items[i].CreatedAt = now
		items[i].Read = false
	}
	if err := n.repo.CreateMany(ctx, items); err != nil {
		return nil, ErrInternal
	}

	for _, it := range items {
		if n.pusher != nil {
			n.pusher.Notify(it.UserID, "notification", it)
		}
		if n.events != nil {
			if err := n.events.Publish(ctx, events.KeyNotificationCreated, it); err != nil {
				n.logger.Printf("[Notifications] publish failed id=%s user=%s err=%v", it.ID, it.UserID, err)
			}
		}
	}
	return items, nil
}

// sendOne is Send for a single item where failure must not fail the caller.
func (n *Notifications) sendOne(ctx context.Context, item notification.Notification) {
	if n == nil {
		return
	}
	if _, err := n.Send(ctx, []notification.Notification{item}); err != nil {
		n.logger.Printf("[Notifications] store failed user=%s type=%s err=%v", item.UserID, item.Type, err)
	}
}
