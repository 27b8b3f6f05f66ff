package domain

import "strings"

// Temporary identifiers are client-minted placeholders for entities the
// backend has not confirmed yet. They carry a recognizable prefix so the
// realtime reconciler and the store can tell them apart from canonical
// ids. A temporary id never leaves the current session.
const (
	TempCommentPrefix = "temp-comment-"
	TempReplyPrefix   = "temp-reply-"
	TempPostPrefix    = "temp-post-"

	tempPrefix = "temp-"
)

func IsTempId(id string) bool {
	return strings.HasPrefix(id, tempPrefix)
}

func IsTempComment(id CommentId) bool {
	return strings.HasPrefix(id, TempCommentPrefix)
}

func IsTempReply(id ReplyId) bool {
	return strings.HasPrefix(id, TempReplyPrefix)
}
