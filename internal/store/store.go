// Package store holds the normalized in-memory graph of posts with
// their comments, replies and like memberships.
//
// The Store publishes immutable snapshots: every mutator builds a new
// []domain.Post via the pure transforms in transform.go and swaps it in
// under the lock, so readers never observe a partial mutation. Its only
// writers are the optimistic mutation pipeline, the realtime reconciler
// and the consistency refresh; everything else reads snapshots.
package store

import (
	"sync"

	"github.com/moyim-dev/moyim/shared/domain"
)

type Store struct {
	mu    sync.RWMutex
	posts []domain.Post
}

func New() *Store {
	return &Store{posts: []domain.Post{}}
}

// Posts returns the current snapshot. Callers borrow it read-only.
func (s *Store) Posts() []domain.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.posts
}

func (s *Store) FindPost(postId domain.PostId) (domain.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Id == postId {
			return p, true
		}
	}
	return domain.Post{}, false
}

// ReplaceAll swaps the whole working set for the server's current truth.
func (s *Store) ReplaceAll(posts []domain.Post) {
	if posts == nil {
		posts = []domain.Post{}
	}
	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
}

// Apply runs a pure transform against the current snapshot and
// publishes the result as one atomic step.
func (s *Store) Apply(transform func(posts []domain.Post) []domain.Post) {
	s.mu.Lock()
	s.posts = transform(s.posts)
	s.mu.Unlock()
}

func (s *Store) InsertComment(postId domain.PostId, c domain.Comment) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return AppendComment(posts, postId, c)
	})
}

func (s *Store) ResolveComment(postId domain.PostId, tempId domain.CommentId, c domain.Comment) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return ResolveComment(posts, postId, tempId, c)
	})
}

func (s *Store) RemoveComment(postId domain.PostId, commentId domain.CommentId) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return RemoveComment(posts, postId, commentId)
	})
}

func (s *Store) InsertReply(postId domain.PostId, commentId domain.CommentId, r domain.Reply) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return AppendReply(posts, postId, commentId, r)
	})
}

func (s *Store) ResolveReply(postId domain.PostId, commentId domain.CommentId, tempId domain.ReplyId, r domain.Reply) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return ResolveReply(posts, postId, commentId, tempId, r)
	})
}

func (s *Store) RemoveReply(postId domain.PostId, commentId domain.CommentId, replyId domain.ReplyId) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return RemoveReply(posts, postId, commentId, replyId)
	})
}

func (s *Store) AddLike(postId domain.PostId, user domain.UserSummary) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return AddLike(posts, postId, user)
	})
}

func (s *Store) RemoveLike(postId domain.PostId, userId domain.UserId) {
	s.Apply(func(posts []domain.Post) []domain.Post {
		return RemoveLike(posts, postId, userId)
	})
}
