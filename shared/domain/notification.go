package domain

import "time"

type NotificationType = string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationReply   NotificationType = "reply"
)

type Notification struct {
	Id        string           `json:"id"`
	Type      NotificationType `json:"type"`
	UserId    UserId           `json:"user_id"`  // recipient
	ActorId   UserId           `json:"actor_id"` // who triggered it
	PostId    PostId           `json:"post_id"`
	CommentId CommentId        `json:"comment_id,omitempty"`
	BoardId   BoardId          `json:"board_id,omitempty"`
	GroupId   GroupId          `json:"group_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
