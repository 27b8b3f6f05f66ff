package boards

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moyim-dev/moyim/shared/api"
	internal_errors "github.com/moyim-dev/moyim/shared/errors"
)

type mockBoardStorage struct {
	records []api.BoardGroupRecord
	err     error
}

func (m *mockBoardStorage) FetchBoardGroups(ctx context.Context) ([]api.BoardGroupRecord, error) {
	return m.records, m.err
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	storage := &mockBoardStorage{records: []api.BoardGroupRecord{
		{Id: "g1", Name: "general", Boards: []api.BoardRecord{
			{Id: "b1", GroupId: "g1", Name: "chat"},
			{Id: "b2", GroupId: "g1", Name: "help"},
		}},
		{Id: "g2", Name: "hobby", Boards: []api.BoardRecord{
			{Id: "b3", GroupId: "g2", Name: "music"},
		}},
	}}
	c := New(storage)
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestLoad(t *testing.T) {
	c := testCatalog(t)

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "general", groups[0].Name)
	assert.Len(t, groups[0].Boards, 2)
}

func TestLoadError(t *testing.T) {
	c := New(&mockBoardStorage{err: assert.AnError})
	assert.Error(t, c.Load(context.Background()))
}

func TestSelection(t *testing.T) {
	c := testCatalog(t)

	// nothing selected: empty filter
	assert.True(t, c.Filter().Empty())

	require.NoError(t, c.SelectGroup("g1"))
	f := c.Filter()
	assert.Equal(t, "g1", f.GroupId)
	assert.Empty(t, f.BoardId)

	// selecting a board narrows the filter and takes precedence
	require.NoError(t, c.SelectBoard("b3"))
	f = c.Filter()
	assert.Equal(t, "b3", f.BoardId)

	// reselecting a group clears the board
	require.NoError(t, c.SelectGroup("g1"))
	f = c.Filter()
	assert.Equal(t, "g1", f.GroupId)
	assert.Empty(t, f.BoardId)

	c.ClearSelection()
	assert.True(t, c.Filter().Empty())
}

func TestSelectUnknown(t *testing.T) {
	c := testCatalog(t)

	assert.ErrorIs(t, c.SelectGroup("nope"), internal_errors.ErrNotFound)
	assert.ErrorIs(t, c.SelectBoard("nope"), internal_errors.ErrNotFound)
}
