// Package merge folds realtime change events into a posts snapshot.
//
// The reducer is pure: it takes a snapshot and an event and returns a
// new snapshot plus an outcome describing what happened, so
// reconciliation is testable without a live stream. Only inserts are
// merged incrementally; updates and deletes wait for the next full
// refresh.
package merge

import (
	"github.com/moyim-dev/moyim/internal/store"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
)

type Outcome int

const (
	// Ignored: not an event this reducer merges (updates, deletes,
	// other tables).
	Ignored Outcome = iota
	// Merged: a canonical entity was appended to its target list.
	Merged
	// Suppressed: the insert matched a still-pending optimistic entity
	// and is presumed to be its echo; resolution will replace the
	// placeholder instead.
	Suppressed
	// Duplicate: an entity with this canonical id is already present
	// (the echo arrived after resolution).
	Duplicate
	// NoTarget: the target post or parent comment is not in the working
	// set; nothing to do.
	NoTarget
)

// Apply folds one change event into the snapshot.
//
// An insert is suppressed only when the target parent holds an
// unresolved placeholder of the same kind with the same author and the
// same content. Matching on author and content (rather than on mere
// placeholder presence) keeps a genuine third-party insert from being
// swallowed while two local mutations are pending under the same post.
func Apply(posts []domain.Post, ev api.ChangeEvent) ([]domain.Post, Outcome) {
	if ev.Table != api.TableComments || ev.Comment == nil {
		return posts, Ignored
	}
	if ev.Op != api.OpInsert {
		return posts, Ignored
	}

	rec := *ev.Comment
	if rec.ParentId != "" {
		return applyReplyInsert(posts, rec)
	}
	return applyCommentInsert(posts, rec)
}

func applyCommentInsert(posts []domain.Post, rec api.CommentRecord) ([]domain.Post, Outcome) {
	post, ok := findPost(posts, rec.PostId)
	if !ok {
		return posts, NoTarget
	}

	for _, c := range post.Comments {
		if c.Id == rec.Id {
			return posts, Duplicate
		}
		if domain.IsTempComment(c.Id) && c.Author.Id == rec.Author.Id && c.Content == rec.Content {
			return posts, Suppressed
		}
	}

	return store.AppendComment(posts, rec.PostId, api.MapComment(rec)), Merged
}

func applyReplyInsert(posts []domain.Post, rec api.CommentRecord) ([]domain.Post, Outcome) {
	post, ok := findPost(posts, rec.PostId)
	if !ok {
		return posts, NoTarget
	}

	var parent *domain.Comment
	for i := range post.Comments {
		if post.Comments[i].Id == rec.ParentId {
			parent = &post.Comments[i]
			break
		}
	}
	if parent == nil {
		return posts, NoTarget
	}

	for _, r := range parent.Replies {
		if r.Id == rec.Id {
			return posts, Duplicate
		}
		if domain.IsTempReply(r.Id) && r.Author.Id == rec.Author.Id && r.Content == rec.Content {
			return posts, Suppressed
		}
	}

	return store.AppendReply(posts, rec.PostId, rec.ParentId, api.MapReply(rec)), Merged
}

func findPost(posts []domain.Post, postId domain.PostId) (domain.Post, bool) {
	for _, p := range posts {
		if p.Id == postId {
			return p, true
		}
	}
	return domain.Post{}, false
}
