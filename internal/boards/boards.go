// Package boards maintains the group/board catalog and the current
// selection, which scopes the feed's working set.
package boards

import (
	"context"
	"fmt"
	"sync"

	"github.com/moyim-dev/moyim/internal/backend"
	"github.com/moyim-dev/moyim/shared/api"
	"github.com/moyim-dev/moyim/shared/domain"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

type Storage interface {
	FetchBoardGroups(ctx context.Context) ([]api.BoardGroupRecord, error)
}

type Catalog struct {
	storage Storage

	mu            sync.RWMutex
	groups        []domain.BoardGroup
	selectedGroup domain.GroupId
	selectedBoard domain.BoardId
}

func New(storage Storage) *Catalog {
	return &Catalog{storage: storage}
}

func (c *Catalog) Load(ctx context.Context) error {
	records, err := c.storage.FetchBoardGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to load board catalog: %w", err)
	}

	c.mu.Lock()
	c.groups = api.MapBoardGroups(records)
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Groups() []domain.BoardGroup {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.groups
}

// SelectGroup scopes the working set to a whole group and clears any
// narrower board selection.
func (c *Catalog) SelectGroup(groupId domain.GroupId) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.groups {
		if g.Id == groupId {
			c.selectedGroup = groupId
			c.selectedBoard = ""
			return nil
		}
	}
	return internal_errors.ErrNotFound
}

// SelectBoard scopes the working set to one board. The owning group is
// selected along with it.
func (c *Catalog) SelectBoard(boardId domain.BoardId) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, g := range c.groups {
		for _, b := range g.Boards {
			if b.Id == boardId {
				c.selectedGroup = g.Id
				c.selectedBoard = boardId
				return nil
			}
		}
	}
	return internal_errors.ErrNotFound
}

// ClearSelection returns the working set to the unscoped feed.
func (c *Catalog) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selectedGroup = ""
	c.selectedBoard = ""
}

// Filter returns the backend filter for the current selection. A board
// selection takes precedence over its group.
func (c *Catalog) Filter() backend.Filter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selectedBoard != "" {
		return backend.Filter{BoardId: c.selectedBoard}
	}
	return backend.Filter{GroupId: c.selectedGroup}
}
