package domain

import "github.com/lib/pq"

type (
	UserId  = string
	PostId  = string
	BoardId = string
	GroupId = string

	CommentId = string
	ReplyId   = string

	PostTitle   = string
	ContentText = string

	Images = pq.StringArray // image urls, stored as a postgres text[]
)
