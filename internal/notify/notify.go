// Package notify records notification rows for like/comment/reply
// activity and serves the recipient's inbox. Delivery fan-out is the
// backend's job; this side records who should be told about what and
// lets them read and dismiss it.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	"github.com/moyim-dev/moyim/shared/logger"
)

type Storage interface {
	CreateNotification(ctx context.Context, rec api.NotificationRecord) error
}

type Creator struct {
	storage Storage
}

func New(storage Storage) *Creator {
	return &Creator{storage: storage}
}

type Event struct {
	Type      domain.NotificationType
	UserId    domain.UserId // recipient
	ActorId   domain.UserId
	PostId    domain.PostId
	CommentId domain.CommentId
	BoardId   domain.BoardId
	GroupId   domain.GroupId
}

// Create is fire-and-forget: acting on your own content notifies
// nobody, and a failed insert never fails the mutation that caused it.
func (c *Creator) Create(ctx context.Context, ev Event) {
	if ev.UserId == ev.ActorId {
		return
	}

	err := c.storage.CreateNotification(ctx, api.NotificationRecord{
		Id:        uuid.NewString(),
		Type:      ev.Type,
		UserId:    ev.UserId,
		ActorId:   ev.ActorId,
		PostId:    ev.PostId,
		CommentId: ev.CommentId,
		BoardId:   ev.BoardId,
		GroupId:   ev.GroupId,
	})
	if err != nil {
		logger.Log.Error("failed to create notification",
			"component", "notify",
			"type", ev.Type,
			"error", err)
	}
}

type InboxStorage interface {
	FetchNotifications(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error)
	MarkNotificationRead(ctx context.Context, notificationId string) error
}

// Inbox is the read side: the recipient's notification list plus
// mark-as-read. Unlike Create, inbox operations report their errors —
// the caller asked for them explicitly.
type Inbox struct {
	storage InboxStorage
}

func NewInbox(storage InboxStorage) *Inbox {
	return &Inbox{storage: storage}
}

// List returns the user's notifications, newest first.
func (i *Inbox) List(ctx context.Context, userId domain.UserId) ([]domain.Notification, error) {
	records, err := i.storage.FetchNotifications(ctx, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	return api.MapNotifications(records), nil
}

func (i *Inbox) MarkRead(ctx context.Context, notificationId string) error {
	if err := i.storage.MarkNotificationRead(ctx, notificationId); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}
