package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

// FetchPosts returns posts in the filter scope, newest first, with
// denormalized authors, the flat comment list and like memberships.
func (s *Storage) FetchPosts(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
	where := ""
	args := []interface{}{}
	if f.BoardId != "" {
		where = "WHERE p.board_id = $1"
		args = append(args, f.BoardId)
	} else if f.GroupId != "" {
		where = "WHERE p.group_id = $1"
		args = append(args, f.GroupId)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
	SELECT
		p.id, p.board_id, p.group_id, p.title, p.content, p.images, p.created_at,
		u.id, u.name, COALESCE(u.profile_image, '')
	FROM posts p
	JOIN users u ON u.id = p.author_id
	%s
	ORDER BY p.created_at DESC`, where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	var records []api.PostRecord
	index := make(map[string]int) // post id -> position
	var ids []string
	for rows.Next() {
		var rec api.PostRecord
		var images pq.StringArray
		if err := rows.Scan(
			&rec.Id, &rec.BoardId, &rec.GroupId, &rec.Title, &rec.Content, &images, &rec.CreatedAt,
			&rec.Author.Id, &rec.Author.Name, &rec.Author.ProfileImage,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		rec.Images = images
		rec.Comments = []api.CommentRecord{}
		rec.Likes = []api.LikeRecord{}
		index[rec.Id] = len(records)
		records = append(records, rec)
		ids = append(ids, rec.Id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	if len(records) == 0 {
		return []api.PostRecord{}, nil
	}

	if err := s.attachComments(ctx, ids, index, records); err != nil {
		return nil, err
	}
	if err := s.attachLikes(ctx, ids, index, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Storage) attachComments(ctx context.Context, ids []string, index map[string]int, records []api.PostRecord) error {
	rows, err := s.db.QueryContext(ctx, `
	SELECT
		c.id, c.post_id, COALESCE(c.parent_id, ''), c.content, c.created_at,
		u.id, u.name, COALESCE(u.profile_image, '')
	FROM comments c
	JOIN users u ON u.id = c.author_id
	WHERE c.post_id = ANY($1)
	ORDER BY c.created_at ASC`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec api.CommentRecord
		if err := rows.Scan(
			&rec.Id, &rec.PostId, &rec.ParentId, &rec.Content, &rec.CreatedAt,
			&rec.Author.Id, &rec.Author.Name, &rec.Author.ProfileImage,
		); err != nil {
			return fmt.Errorf("failed to scan comment row: %w", err)
		}
		pos, ok := index[rec.PostId]
		if !ok {
			continue
		}
		records[pos].Comments = append(records[pos].Comments, rec)
	}
	return rows.Err()
}

func (s *Storage) attachLikes(ctx context.Context, ids []string, index map[string]int, records []api.PostRecord) error {
	rows, err := s.db.QueryContext(ctx, `
	SELECT
		l.id, l.post_id,
		u.id, u.name, COALESCE(u.profile_image, '')
	FROM likes l
	JOIN users u ON u.id = l.user_id
	WHERE l.post_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to query likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec api.LikeRecord
		if err := rows.Scan(
			&rec.Id, &rec.PostId,
			&rec.User.Id, &rec.User.Name, &rec.User.ProfileImage,
		); err != nil {
			return fmt.Errorf("failed to scan like row: %w", err)
		}
		pos, ok := index[rec.PostId]
		if !ok {
			continue
		}
		records[pos].Likes = append(records[pos].Likes, rec)
	}
	return rows.Err()
}

func (s *Storage) FetchBoardGroups(ctx context.Context) ([]api.BoardGroupRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT g.id, g.name, b.id, b.group_id, b.name, b.created_at
	FROM board_groups g
	LEFT JOIN boards b ON b.group_id = g.id
	ORDER BY g.name, b.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query board groups: %w", err)
	}
	defer rows.Close()

	var groups []api.BoardGroupRecord
	index := make(map[string]int)
	for rows.Next() {
		var groupId, groupName string
		var board api.BoardRecord
		var boardId, boardGroupId, boardName sql.NullString
		var boardCreated sql.NullTime
		if err := rows.Scan(&groupId, &groupName, &boardId, &boardGroupId, &boardName, &boardCreated); err != nil {
			return nil, fmt.Errorf("failed to scan board group row: %w", err)
		}
		pos, ok := index[groupId]
		if !ok {
			pos = len(groups)
			index[groupId] = pos
			groups = append(groups, api.BoardGroupRecord{Id: groupId, Name: groupName, Boards: []api.BoardRecord{}})
		}
		if boardId.Valid {
			board = api.BoardRecord{Id: boardId.String, GroupId: boardGroupId.String, Name: boardName.String, CreatedAt: boardCreated.Time}
			groups[pos].Boards = append(groups[pos].Boards, board)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	if groups == nil {
		groups = []api.BoardGroupRecord{}
	}
	return groups, nil
}

func (s *Storage) FetchNotifications(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT
		id, type, user_id, actor_id,
		COALESCE(post_id, ''), COALESCE(comment_id, ''), COALESCE(board_id, ''), COALESCE(group_id, ''),
		is_read, created_at
	FROM notifications
	WHERE user_id = $1
	ORDER BY created_at DESC`, userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	records := []api.NotificationRecord{}
	for rows.Next() {
		var rec api.NotificationRecord
		if err := rows.Scan(
			&rec.Id, &rec.Type, &rec.UserId, &rec.ActorId,
			&rec.PostId, &rec.CommentId, &rec.BoardId, &rec.GroupId,
			&rec.IsRead, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return records, nil
}

func (s *Storage) FetchProfile(ctx context.Context, userId domain.UserId) (api.UserRecord, error) {
	var rec api.UserRecord
	err := s.db.QueryRowContext(ctx, `
	SELECT id, name, COALESCE(profile_image, '')
	FROM users
	WHERE id = $1`, userId).Scan(&rec.Id, &rec.Name, &rec.ProfileImage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.UserRecord{}, internal_errors.ErrNotFound
		}
		return api.UserRecord{}, fmt.Errorf("failed to query profile: %w", err)
	}
	return rec, nil
}
