// Package tempid mints placeholder identifiers for optimistic entities.
//
// A placeholder must be distinguishable from a canonical id (prefix) and
// must never collide with another placeholder issued in the same
// session, even when mutations are in flight concurrently (monotonic
// sequence plus a uuid suffix).
package tempid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/moyim-dev/moyim/shared/domain"
)

type Allocator struct {
	seq atomic.Uint64
}

func New() *Allocator {
	return &Allocator{}
}

func (a *Allocator) Comment() domain.CommentId {
	return a.mint(domain.TempCommentPrefix)
}

func (a *Allocator) Reply() domain.ReplyId {
	return a.mint(domain.TempReplyPrefix)
}

func (a *Allocator) Post() domain.PostId {
	return a.mint(domain.TempPostPrefix)
}

func (a *Allocator) mint(prefix string) string {
	return fmt.Sprintf("%s%d-%s", prefix, a.seq.Add(1), uuid.NewString())
}
