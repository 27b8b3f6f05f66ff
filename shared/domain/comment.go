package domain

import "time"

// Comment is a top-level entry under a post. Replies hang off the
// comment and never nest further.
type Comment struct {
	Id        CommentId   `json:"id"`
	Content   ContentText `json:"content"`
	Author    UserSummary `json:"author"`
	Replies   []Reply     `json:"replies"`
	CreatedAt time.Time   `json:"created_at"`
}

type Reply struct {
	Id        ReplyId     `json:"id"`
	Content   ContentText `json:"content"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}
