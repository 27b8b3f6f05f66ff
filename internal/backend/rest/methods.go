package rest

import (
	"context"
	"net/url"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
)

func (c *Client) FetchPosts(ctx context.Context, f backend.Filter) ([]api.PostRecord, error) {
	q := url.Values{}
	if f.BoardId != "" {
		q.Set("board_id", f.BoardId)
	} else if f.GroupId != "" {
		q.Set("group_id", f.GroupId)
	}
	path := "/v1/posts"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var records []api.PostRecord
	if err := c.doJSON(ctx, "GET", path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) FetchBoardGroups(ctx context.Context) ([]api.BoardGroupRecord, error) {
	var records []api.BoardGroupRecord
	if err := c.doJSON(ctx, "GET", "/v1/board_groups", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) FetchProfile(ctx context.Context, userId domain.UserId) (api.UserRecord, error) {
	var record api.UserRecord
	if err := c.doJSON(ctx, "GET", "/v1/users/"+url.PathEscape(userId), nil, &record); err != nil {
		return api.UserRecord{}, err
	}
	return record, nil
}

type createPostRequest struct {
	AuthorId string `json:"author_id"`
	domain.PostCreationData
}

func (c *Client) CreatePost(ctx context.Context, authorId domain.UserId, data domain.PostCreationData) error {
	body := createPostRequest{AuthorId: authorId, PostCreationData: data}
	return c.doJSON(ctx, "POST", "/v1/posts", body, nil)
}

func (c *Client) UpdatePost(ctx context.Context, postId domain.PostId, data domain.PostUpdateData) error {
	return c.doJSON(ctx, "PATCH", "/v1/posts/"+url.PathEscape(postId), data, nil)
}

func (c *Client) DeletePost(ctx context.Context, postId domain.PostId) error {
	return c.doJSON(ctx, "DELETE", "/v1/posts/"+url.PathEscape(postId), nil, nil)
}

type createCommentRequest struct {
	PostId   string `json:"post_id"`
	ParentId string `json:"parent_id,omitempty"`
	AuthorId string `json:"author_id"`
	Content  string `json:"content"`
}

func (c *Client) CreateComment(ctx context.Context, postId domain.PostId, parentId domain.CommentId, authorId domain.UserId, content domain.ContentText) (api.CommentRecord, error) {
	body := createCommentRequest{
		PostId:   postId,
		ParentId: parentId,
		AuthorId: authorId,
		Content:  content,
	}
	var record api.CommentRecord
	if err := c.doJSON(ctx, "POST", "/v1/comments", body, &record); err != nil {
		return api.CommentRecord{}, err
	}
	return record, nil
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

func (c *Client) UpdateComment(ctx context.Context, commentId domain.CommentId, content domain.ContentText) error {
	return c.doJSON(ctx, "PATCH", "/v1/comments/"+url.PathEscape(commentId), updateCommentRequest{Content: content}, nil)
}

func (c *Client) DeleteComment(ctx context.Context, commentId domain.CommentId) error {
	return c.doJSON(ctx, "DELETE", "/v1/comments/"+url.PathEscape(commentId), nil, nil)
}

func (c *Client) CreateLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error {
	return c.doJSON(ctx, "PUT", "/v1/posts/"+url.PathEscape(postId)+"/likes/"+url.PathEscape(userId), nil, nil)
}

func (c *Client) DeleteLike(ctx context.Context, postId domain.PostId, userId domain.UserId) error {
	return c.doJSON(ctx, "DELETE", "/v1/posts/"+url.PathEscape(postId)+"/likes/"+url.PathEscape(userId), nil, nil)
}

func (c *Client) CreateNotification(ctx context.Context, rec api.NotificationRecord) error {
	return c.doJSON(ctx, "POST", "/v1/notifications", rec, nil)
}

func (c *Client) FetchNotifications(ctx context.Context, userId domain.UserId) ([]api.NotificationRecord, error) {
	var records []api.NotificationRecord
	if err := c.doJSON(ctx, "GET", "/v1/users/"+url.PathEscape(userId)+"/notifications", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, notificationId string) error {
	return c.doJSON(ctx, "POST", "/v1/notifications/"+url.PathEscape(notificationId)+"/read", nil, nil)
}
