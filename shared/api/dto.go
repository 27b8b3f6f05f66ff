package api

import "time"

// Row shapes as the backend returns them. These never leave the
// ingestion boundary: every record is mapped to a shared/domain type
// exactly once (see ingest.go) so internal components never handle
// backend-shaped data.

type UserRecord struct {
	Id           string `json:"id"`
	Name         string `json:"name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// CommentRecord covers both top-level comments and replies; a non-empty
// ParentId marks a reply.
type CommentRecord struct {
	Id        string     `json:"id"`
	PostId    string     `json:"post_id"`
	ParentId  string     `json:"parent_id,omitempty"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Author    UserRecord `json:"users"`
}

type LikeRecord struct {
	Id     string     `json:"id"`
	PostId string     `json:"post_id"`
	User   UserRecord `json:"users"`
}

type PostRecord struct {
	Id        string          `json:"id"`
	BoardId   string          `json:"board_id"`
	GroupId   string          `json:"group_id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Images    []string        `json:"images"`
	CreatedAt time.Time       `json:"created_at"`
	Author    UserRecord      `json:"users"`
	Comments  []CommentRecord `json:"comments"` // flat; replies carry parent_id
	Likes     []LikeRecord    `json:"likes"`
}

type BoardRecord struct {
	Id        string    `json:"id"`
	GroupId   string    `json:"group_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type BoardGroupRecord struct {
	Id     string        `json:"id"`
	Name   string        `json:"name"`
	Boards []BoardRecord `json:"boards"`
}

type NotificationRecord struct {
	Id        string    `json:"id,omitempty"`
	Type      string    `json:"type"`
	UserId    string    `json:"user_id"`
	ActorId   string    `json:"actor_id"`
	PostId    string    `json:"post_id,omitempty"`
	CommentId string    `json:"comment_id,omitempty"`
	BoardId   string    `json:"board_id,omitempty"`
	GroupId   string    `json:"group_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
