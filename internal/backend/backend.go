// Package backend defines the contract the sync engine consumes.
//
// Adapters return backend-shaped api records; callers map them to
// domain types at their ingestion boundary (shared/api). Two adapters
// implement this contract: pg (direct Postgres, change stream over
// LISTEN/NOTIFY) and rest (HTTP API, change stream over a websocket).
package backend

import (
	"context"

	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
)

// Filter scopes the working set to a board or a whole group. A board id
// takes precedence when both are set.
type Filter struct {
	BoardId domain.BoardId
	GroupId domain.GroupId
}

func (f Filter) Empty() bool {
	return f.BoardId == "" && f.GroupId == ""
}

type Backend interface {
	// FetchPosts returns posts in the filter scope, newest first, each
	// with denormalized author, flat comment list and like list.
	FetchPosts(ctx context.Context, f Filter) ([]api.PostRecord, error)
	FetchBoardGroups(ctx context.Context) ([]api.BoardGroupRecord, error)
	FetchProfile(ctx context.Context, userId domain.UserId) (api.UserRecord, error)

	CreatePost(ctx context.Context, authorId domain.UserId, data domain.PostCreationData) error
	UpdatePost(ctx context.Context, postId domain.PostId, data domain.PostUpdateData) error
	DeletePost(ctx context.Context, postId domain.PostId) error

	// CreateComment inserts a top-level comment when parentId is empty,
	// a reply otherwise. The returned record carries the canonical id,
	// server timestamp and denormalized author.
	CreateComment(ctx context.Context, postId domain.PostId, parentId domain.CommentId, authorId domain.UserId, content domain.ContentText) (api.CommentRecord, error)
	UpdateComment(ctx context.Context, commentId domain.CommentId, content domain.ContentText) error
	DeleteComment(ctx context.Context, commentId domain.CommentId) error

	CreateLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error
	DeleteLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error

	CreateNotification(ctx context.Context, rec api.NotificationRecord) error
	// FetchNotifications returns the recipient's inbox, newest first.
	FetchNotifications(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error)
	MarkNotificationRead(ctx context.Context, notificationId string) error

	// Subscribe opens a change-event stream scoped to the filter. The
	// returned channel is closed when ctx is cancelled or the stream
	// dies; events are delivered at-least-once and may be reordered
	// relative to request responses.
	Subscribe(ctx context.Context, f Filter) (<-chan api.ChangeEvent, error)
}
