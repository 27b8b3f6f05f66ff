package domain

import (
	"time"
)

type Post struct {
	Id        PostId      `json:"id"`
	BoardId   BoardId     `json:"board_id"`
	GroupId   GroupId     `json:"group_id"`
	Title     PostTitle   `json:"title"`
	Content   ContentText `json:"content"`
	Author    UserSummary `json:"author"`
	Images    Images      `json:"images"`
	Likes     Likes       `json:"likes"`
	Comments  []Comment   `json:"comments"` // top-level only, ascending creation order
	CreatedAt time.Time   `json:"created_at"`
}

// to iterate thru layers: feed -> backend
type PostCreationData struct {
	BoardId BoardId     `json:"board_id" validate:"required"`
	GroupId GroupId     `json:"group_id"`
	Title   PostTitle   `json:"title" validate:"required"`
	Content ContentText `json:"content" validate:"required"`
	Images  Images      `json:"images"`
}

type PostUpdateData struct {
	Title   PostTitle   `json:"title" validate:"required"`
	Content ContentText `json:"content" validate:"required"`
}
