package store

import (
	"github.com/moyim-dev/moyim/shared/domain"
)

// Pure snapshot transforms. Every function returns a new []domain.Post
// and never mutates its input, so a published snapshot stays immutable
// for readers. Transforms targeting a post or comment that no longer
// exists return an equivalent snapshot unchanged: the target may have
// been swept away by a concurrent full refresh, which is expected under
// eventual consistency and must not be treated as an error.

func clone(posts []domain.Post) []domain.Post {
	out := make([]domain.Post, len(posts))
	copy(out, posts)
	return out
}

func cloneComments(comments []domain.Comment) []domain.Comment {
	out := make([]domain.Comment, len(comments))
	copy(out, comments)
	return out
}

func cloneReplies(replies []domain.Reply) []domain.Reply {
	out := make([]domain.Reply, len(replies))
	copy(out, replies)
	return out
}

// AppendComment appends a top-level comment to the post's list.
func AppendComment(posts []domain.Post, postId domain.PostId, c domain.Comment) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		out[i].Comments = append(cloneComments(out[i].Comments), c)
		break
	}
	return out
}

// ResolveComment substitutes the canonical comment for the placeholder
// with tempId, keeping its position in the list. Replies accumulated
// under the placeholder are carried over so none are orphaned.
func ResolveComment(posts []domain.Post, postId domain.PostId, tempId domain.CommentId, c domain.Comment) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		comments := cloneComments(out[i].Comments)
		for j := range comments {
			if comments[j].Id != tempId {
				continue
			}
			if len(comments[j].Replies) > 0 {
				c.Replies = comments[j].Replies
			}
			comments[j] = c
			out[i].Comments = comments
			break
		}
		break
	}
	return out
}

// RemoveComment drops the comment with the given id (used for rollback).
func RemoveComment(posts []domain.Post, postId domain.PostId, commentId domain.CommentId) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		comments := make([]domain.Comment, 0, len(out[i].Comments))
		for _, c := range out[i].Comments {
			if c.Id != commentId {
				comments = append(comments, c)
			}
		}
		out[i].Comments = comments
		break
	}
	return out
}

// AppendReply appends a reply to the comment's list.
func AppendReply(posts []domain.Post, postId domain.PostId, commentId domain.CommentId, r domain.Reply) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		comments := cloneComments(out[i].Comments)
		for j := range comments {
			if comments[j].Id != commentId {
				continue
			}
			comments[j].Replies = append(cloneReplies(comments[j].Replies), r)
			out[i].Comments = comments
			break
		}
		break
	}
	return out
}

// ResolveReply substitutes the canonical reply for the placeholder with
// tempId, keeping its position.
func ResolveReply(posts []domain.Post, postId domain.PostId, commentId domain.CommentId, tempId domain.ReplyId, r domain.Reply) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		comments := cloneComments(out[i].Comments)
		for j := range comments {
			if comments[j].Id != commentId {
				continue
			}
			replies := cloneReplies(comments[j].Replies)
			for k := range replies {
				if replies[k].Id == tempId {
					replies[k] = r
					comments[j].Replies = replies
					out[i].Comments = comments
					break
				}
			}
			break
		}
		break
	}
	return out
}

// RemoveReply drops the reply with the given id (used for rollback).
func RemoveReply(posts []domain.Post, postId domain.PostId, commentId domain.CommentId, replyId domain.ReplyId) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		comments := cloneComments(out[i].Comments)
		for j := range comments {
			if comments[j].Id != commentId {
				continue
			}
			replies := make([]domain.Reply, 0, len(comments[j].Replies))
			for _, rep := range comments[j].Replies {
				if rep.Id != replyId {
					replies = append(replies, rep)
				}
			}
			comments[j].Replies = replies
			out[i].Comments = comments
			break
		}
		break
	}
	return out
}

// AddLike inserts the user into the post's liked set. Inserting a user
// who is already a member is a no-op: membership is a set.
func AddLike(posts []domain.Post, postId domain.PostId, user domain.UserSummary) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		if out[i].Likes.Contains(user.Id) {
			break
		}
		users := make([]domain.UserSummary, len(out[i].Likes.Users), len(out[i].Likes.Users)+1)
		copy(users, out[i].Likes.Users)
		users = append(users, user)
		out[i].Likes = domain.Likes{Count: len(users), Users: users}
		break
	}
	return out
}

// RemoveLike drops the user from the post's liked set.
func RemoveLike(posts []domain.Post, postId domain.PostId, userId domain.UserId) []domain.Post {
	out := clone(posts)
	for i := range out {
		if out[i].Id != postId {
			continue
		}
		users := make([]domain.UserSummary, 0, len(out[i].Likes.Users))
		for _, u := range out[i].Likes.Users {
			if u.Id != userId {
				users = append(users, u)
			}
		}
		out[i].Likes = domain.Likes{Count: len(users), Users: users}
		break
	}
	return out
}
