package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

func (s *Storage) CreatePost(ctx context.Context, authorId domain.UserId, data domain.PostCreationData) error {
	createdTs := time.Now().UTC().Round(time.Microsecond) // database anyway rounds to microsecond
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO posts(id, board_id, group_id, title, content, author_id, images, created_at)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.NewString(), data.BoardId, data.GroupId, data.Title, data.Content, authorId, pq.Array([]string(data.Images)), createdTs)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (s *Storage) UpdatePost(ctx context.Context, postId domain.PostId, data domain.PostUpdateData) error {
	result, err := s.db.ExecContext(ctx, `
	UPDATE posts SET title = $1, content = $2 WHERE id = $3`,
		data.Title, data.Content, postId)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return requireAffected(result)
}

func (s *Storage) DeletePost(ctx context.Context, postId domain.PostId) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postId)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return requireAffected(result)
}

// CreateComment inserts a comment (or a reply, when parentId is set)
// and returns the stored row with its denormalized author.
func (s *Storage) CreateComment(ctx context.Context, postId domain.PostId, parentId domain.CommentId, authorId domain.UserId, content domain.ContentText) (api.CommentRecord, error) {
	var parent sql.NullString
	if parentId != "" {
		parent = sql.NullString{String: parentId, Valid: true}
	}

	createdTs := time.Now().UTC().Round(time.Microsecond)
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO comments(id, post_id, parent_id, author_id, content, created_at)
	VALUES($1, $2, $3, $4, $5, $6)`,
		id, postId, parent, authorId, content, createdTs)
	if err != nil {
		return api.CommentRecord{}, fmt.Errorf("failed to insert comment: %w", err)
	}

	return s.fetchComment(ctx, id)
}

func (s *Storage) fetchComment(ctx context.Context, commentId domain.CommentId) (api.CommentRecord, error) {
	var rec api.CommentRecord
	err := s.db.QueryRowContext(ctx, `
	SELECT
		c.id, c.post_id, COALESCE(c.parent_id, ''), c.content, c.created_at,
		u.id, u.name, COALESCE(u.profile_image, '')
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.id = $1`, commentId).Scan(
		&rec.Id, &rec.PostId, &rec.ParentId, &rec.Content, &rec.CreatedAt,
		&rec.Author.Id, &rec.Author.Name, &rec.Author.ProfileImage,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.CommentRecord{}, internal_errors.ErrNotFound
		}
		return api.CommentRecord{}, fmt.Errorf("failed to query comment: %w", err)
	}
	return rec, nil
}

func (s *Storage) UpdateComment(ctx context.Context, commentId domain.CommentId, content domain.ContentText) error {
	result, err := s.db.ExecContext(ctx, `
	UPDATE comments SET content = $1 WHERE id = $2`, content, commentId)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}
	return requireAffected(result)
}

func (s *Storage) DeleteComment(ctx context.Context, commentId domain.CommentId) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentId)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return requireAffected(result)
}

// CreateLike is idempotent: inserting an existing (post, user) pair is
// a no-op, so the liked set can never hold a user twice.
func (s *Storage) CreateLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO likes(id, post_id, user_id, created_at)
	VALUES($1, $2, $3, $4)
	ON CONFLICT (post_id, user_id) DO NOTHING`,
		uuid.NewString(), postId, userId, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}
	return nil
}

func (s *Storage) DeleteLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error {
	_, err := s.db.ExecContext(ctx, `
	DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postId, userId)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

func (s *Storage) CreateNotification(ctx context.Context, rec api.NotificationRecord) error {
	id := rec.Id
	if id == "" {
		id = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO notifications(id, type, user_id, actor_id, post_id, comment_id, board_id, group_id, created_at)
	VALUES($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), $9)`,
		id, rec.Type, rec.UserId, rec.ActorId, rec.PostId, rec.CommentId, rec.BoardId, rec.GroupId, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

func (s *Storage) MarkNotificationRead(ctx context.Context, notificationId string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1`, notificationId)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return requireAffected(result)
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return internal_errors.ErrNotFound
	}
	return nil
}
