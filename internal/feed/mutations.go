package feed

import (
	"context"
	"strings"
	"time"

	"github.com/moyim-dev/moyim/internal/metrics"
	"github.com/moyim-dev/moyim/internal/notify"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
	"github.com/moyim-dev/moyim/shared/logger"
)

// The optimistic create path (comments, replies, like toggling) mutates
// the store before the backend confirms; everything else is
// write-then-refresh, trading latency for guaranteed correctness on
// edits and deletes whose denormalized side effects are error-prone to
// patch incrementally.

func validateContent(content domain.ContentText) error {
	if strings.TrimSpace(content) == "" {
		return &internal_errors.ValidationError{Message: "content must not be empty"}
	}
	return nil
}

// AddPost validates, writes and refreshes. Posts are not spliced in
// optimistically: the refreshed result arrives with the canonical id
// and ordering.
func (f *Feed) AddPost(ctx context.Context, data domain.PostCreationData) error {
	user, err := f.identity.Current()
	if err != nil {
		return err
	}
	if err := f.validate.Struct(data); err != nil {
		return &internal_errors.ValidationError{Message: err.Error()}
	}

	if err := f.backend.CreatePost(ctx, user.Id, data); err != nil {
		f.setErr(err)
		return err
	}
	return f.Refresh(ctx)
}

func (f *Feed) EditPost(ctx context.Context, postId domain.PostId, data domain.PostUpdateData) error {
	if _, err := f.identity.Current(); err != nil {
		return err
	}
	if err := f.validate.Struct(data); err != nil {
		return &internal_errors.ValidationError{Message: err.Error()}
	}
	return f.writeThenRefresh(ctx, func() error {
		return f.backend.UpdatePost(ctx, postId, data)
	})
}

func (f *Feed) DeletePost(ctx context.Context, postId domain.PostId) error {
	if _, err := f.identity.Current(); err != nil {
		return err
	}
	return f.writeThenRefresh(ctx, func() error {
		return f.backend.DeletePost(ctx, postId)
	})
}

// LikePost toggles the acting user's membership in the post's liked
// set. The flip is applied to the store immediately; a failed backend
// write triggers a full refresh instead of a rollback, because
// concurrent likes by other users may already have moved the count.
func (f *Feed) LikePost(ctx context.Context, postId domain.PostId) error {
	user, err := f.identity.Current()
	if err != nil {
		return err
	}
	post, ok := f.store.FindPost(postId)
	if !ok {
		return internal_errors.ErrNotFound
	}

	liked := post.Likes.Contains(user.Id)
	if liked {
		f.store.RemoveLike(postId, user.Id)
		err = f.backend.DeleteLike(ctx, postId, user.Id)
	} else {
		f.store.AddLike(postId, user)
		err = f.backend.CreateLike(ctx, postId, user.Id)
	}

	if err != nil {
		metrics.OptimisticMutations.WithLabelValues("like", "rolled_back").Inc()
		f.setErr(err)
		// resync; the exact prior count may already be stale
		if rerr := f.Refresh(ctx); rerr != nil {
			logger.Log.Warn("resync after failed like write failed",
				"component", "feed", "post_id", postId, "error", rerr)
		}
		return err
	}

	metrics.OptimisticMutations.WithLabelValues("like", "confirmed").Inc()
	if !liked {
		f.notifier.Create(ctx, notify.Event{
			Type:    domain.NotificationLike,
			UserId:  post.Author.Id,
			ActorId: user.Id,
			PostId:  postId,
			BoardId: post.BoardId,
			GroupId: post.GroupId,
		})
	}
	return nil
}

// AddComment inserts a placeholder synchronously, then swaps in the
// canonical comment on success or removes the placeholder on failure.
func (f *Feed) AddComment(ctx context.Context, postId domain.PostId, content domain.ContentText) error {
	user, err := f.identity.Current()
	if err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}
	post, ok := f.store.FindPost(postId)
	if !ok {
		return internal_errors.ErrNotFound
	}

	tempId := f.ids.Comment()
	f.store.InsertComment(postId, domain.Comment{
		Id:        tempId,
		Content:   content,
		Author:    user,
		Replies:   []domain.Reply{},
		CreatedAt: time.Now(),
	})

	rec, err := f.backend.CreateComment(ctx, postId, "", user.Id, content)
	if err != nil {
		if !f.isClosed() {
			f.store.RemoveComment(postId, tempId)
			f.setErr(err)
		}
		metrics.OptimisticMutations.WithLabelValues("comment", "rolled_back").Inc()
		return err
	}
	if f.isClosed() {
		return nil
	}

	f.store.ResolveComment(postId, tempId, api.MapComment(rec))
	metrics.OptimisticMutations.WithLabelValues("comment", "confirmed").Inc()

	f.notifier.Create(ctx, notify.Event{
		Type:    domain.NotificationComment,
		UserId:  post.Author.Id,
		ActorId: user.Id,
		PostId:  postId,
		BoardId: post.BoardId,
		GroupId: post.GroupId,
	})
	return nil
}

func (f *Feed) EditComment(ctx context.Context, postId domain.PostId, commentId domain.CommentId, content domain.ContentText) error {
	if _, err := f.identity.Current(); err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}
	return f.writeThenRefresh(ctx, func() error {
		return f.backend.UpdateComment(ctx, commentId, content)
	})
}

func (f *Feed) DeleteComment(ctx context.Context, postId domain.PostId, commentId domain.CommentId) error {
	if _, err := f.identity.Current(); err != nil {
		return err
	}
	return f.writeThenRefresh(ctx, func() error {
		return f.backend.DeleteComment(ctx, commentId)
	})
}

// AddReply appends a placeholder reply under the parent comment, then
// resolves or rolls back like AddComment.
func (f *Feed) AddReply(ctx context.Context, postId domain.PostId, commentId domain.CommentId, content domain.ContentText) error {
	user, err := f.identity.Current()
	if err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}
	post, ok := f.store.FindPost(postId)
	if !ok {
		return internal_errors.ErrNotFound
	}
	var parent *domain.Comment
	for i := range post.Comments {
		if post.Comments[i].Id == commentId {
			parent = &post.Comments[i]
			break
		}
	}
	if parent == nil {
		return internal_errors.ErrNotFound
	}

	tempId := f.ids.Reply()
	f.store.InsertReply(postId, commentId, domain.Reply{
		Id:        tempId,
		Content:   content,
		Author:    user,
		CreatedAt: time.Now(),
	})

	rec, err := f.backend.CreateComment(ctx, postId, commentId, user.Id, content)
	if err != nil {
		if !f.isClosed() {
			f.store.RemoveReply(postId, commentId, tempId)
			f.setErr(err)
		}
		metrics.OptimisticMutations.WithLabelValues("reply", "rolled_back").Inc()
		return err
	}
	if f.isClosed() {
		return nil
	}

	f.store.ResolveReply(postId, commentId, tempId, api.MapReply(rec))
	metrics.OptimisticMutations.WithLabelValues("reply", "confirmed").Inc()

	f.notifier.Create(ctx, notify.Event{
		Type:      domain.NotificationReply,
		UserId:    parent.Author.Id,
		ActorId:   user.Id,
		PostId:    postId,
		CommentId: commentId,
		BoardId:   post.BoardId,
		GroupId:   post.GroupId,
	})
	return nil
}

func (f *Feed) EditReply(ctx context.Context, postId domain.PostId, commentId domain.CommentId, replyId domain.ReplyId, content domain.ContentText) error {
	if _, err := f.identity.Current(); err != nil {
		return err
	}
	if err := validateContent(content); err != nil {
		return err
	}
	return f.writeThenRefresh(ctx, func() error {
		return f.backend.UpdateComment(ctx, replyId, content)
	})
}

func (f *Feed) DeleteReply(ctx context.Context, postId domain.PostId, commentId domain.CommentId, replyId domain.ReplyId) error {
	if _, err := f.identity.Current(); err != nil {
		return err
	}
	return f.writeThenRefresh(ctx, func() error {
		return f.backend.DeleteComment(ctx, replyId)
	})
}

// writeThenRefresh issues the backend write and refreshes afterwards.
// The refresh runs even when the write failed: the exact prior state
// may already be stale, so a full resync is the recovery path.
func (f *Feed) writeThenRefresh(ctx context.Context, write func() error) error {
	writeErr := write()
	if writeErr != nil {
		f.setErr(writeErr)
	}
	if err := f.Refresh(ctx); err != nil {
		return err
	}
	return writeErr
}
