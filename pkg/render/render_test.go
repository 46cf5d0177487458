package render_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/render"
	"github.com/Sumatoshi-tech/binarytree/pkg/script"
)

// Test constants.
const (
	testSummaryItems = 1234
	testTitle        = "demo tree"
)

func smallTree(t *testing.T) *avl.Tree[int] {
	t.Helper()

	tree := avl.New[int]()

	for _, item := range []int{2, 1, 3} {
		_, err := tree.Insert(item)
		require.NoError(t, err)
	}

	return tree
}

// TestSnapshot verifies the presentation copy mirrors the tree.
func TestSnapshot(t *testing.T) {
	t.Parallel()

	root, err := render.Snapshot(smallTree(t).View())
	require.NoError(t, err)
	require.NotNil(t, root)

	assert.Equal(t, 2, root.Item)
	assert.Equal(t, 2, root.Height)
	assert.Equal(t, 1, root.Left.Item)
	assert.Equal(t, 3, root.Right.Item)

	empty, err := render.Snapshot(avl.New[int]().View())
	require.NoError(t, err)
	assert.Nil(t, empty)
}

// TestSnapshot_Stale verifies stale views are rejected.
func TestSnapshot_Stale(t *testing.T) {
	t.Parallel()

	tree := smallTree(t)
	view := tree.View()

	_, err := tree.Insert(4)
	require.NoError(t, err)

	_, err = render.Snapshot(view)
	require.ErrorIs(t, err, avl.ErrStaleView)
}

// TestText verifies the sideways layout.
func TestText(t *testing.T) {
	t.Parallel()

	out, err := render.Text(smallTree(t).View(), false)
	require.NoError(t, err)
	assert.Equal(t, "    3 [0]\n2 [0]\n    1 [0]\n", out)

	tree := smallTree(t)
	_, err = tree.Remove(3)
	require.NoError(t, err)

	out, err = render.Text(tree.View(), false)
	require.NoError(t, err)
	assert.Equal(t, "2 [-1]\n    1 [0]\n", out)
}

// TestText_Color verifies balance factors are coloured on request.
func TestText_Color(t *testing.T) {
	t.Parallel()

	out, err := render.Text(smallTree(t).View(), true)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

// TestTable verifies the level-order node table.
func TestTable(t *testing.T) {
	t.Parallel()

	out, err := render.Table(smallTree(t).View())
	require.NoError(t, err)

	assert.Contains(t, out, "ITEM")
	assert.Contains(t, out, "BALANCE")
	assert.Contains(t, strings.ToLower(out), "total: 3 nodes")
}

// TestYAML verifies the nested document.
func TestYAML(t *testing.T) {
	t.Parallel()

	out, err := render.YAML(smallTree(t).View())
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "size: 3")
	assert.Contains(t, text, "height: 2")
	assert.Contains(t, text, "left:")
	assert.Contains(t, text, "right:")
}

// TestHTML verifies a chart page is produced.
func TestHTML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	require.NoError(t, render.HTML(&buf, smallTree(t).View(), testTitle))

	page := buf.String()
	assert.Contains(t, page, "echarts")
	assert.Contains(t, page, testTitle)
	assert.Contains(t, page, "orthogonal")
}

// TestSummary verifies the humanized summary line.
func TestSummary(t *testing.T) {
	t.Parallel()

	tree := avl.New[int]()

	for i := range testSummaryItems {
		_, err := tree.Insert(i)
		require.NoError(t, err)
	}

	line := render.Summary(tree)
	assert.Contains(t, line, "1,234 items")
	assert.Contains(t, line, "1,234 inserts")
	assert.LessOrEqual(t, tree.Height(), render.HeightBound(tree.Len()))
}

// TestHeightBound verifies small bounds.
func TestHeightBound(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, render.HeightBound(0))
	assert.Equal(t, 1, render.HeightBound(1))
	assert.Equal(t, 4, render.HeightBound(7))
}

// TestDiff verifies equal and differing renderings.
func TestDiff(t *testing.T) {
	t.Parallel()

	out, equal := render.Diff("1 2 3", "1 2 3", false)
	assert.True(t, equal)
	assert.Empty(t, out)

	out, equal = render.Diff("1 2 3", "1 3 4", false)
	assert.False(t, equal)
	assert.Contains(t, out, "[-")
	assert.Contains(t, out, "{+")
	assert.True(t, strings.HasPrefix(out, "1 "))
}

// TestTranscript verifies the transcript table.
func TestTranscript(t *testing.T) {
	t.Parallel()

	s, err := script.Parse([]byte(`{"name": "tiny", "items": [2, 1],
		"ops": [{"op": "insert", "item": 3}, {"op": "contains", "item": "x"}]}`))
	require.NoError(t, err)

	tr, err := script.Run(context.Background(), s, nil)
	require.NoError(t, err)

	out := render.Transcript(tr)
	assert.True(t, strings.HasPrefix(out, "tiny:\n"))
	assert.Contains(t, out, "insert 3")
	assert.Contains(t, strings.ToLower(out), "total: 2 steps, 1 failed")
	assert.Contains(t, out, "not comparable")
}
