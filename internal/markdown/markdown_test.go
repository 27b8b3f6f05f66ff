package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := New()

	out, err := r.Render("hello **world**")
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>world</strong>")
}

func TestRenderStripsScripts(t *testing.T) {
	r := New()

	out, err := r.Render(`hi <script>alert("x")</script>`)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "hi")
}

func TestRenderStrikethrough(t *testing.T) {
	r := New()

	out, err := r.Render("~~gone~~")
	require.NoError(t, err)
	assert.Contains(t, out, "<del>gone</del>")
}
