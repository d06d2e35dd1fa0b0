package search

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/colstorm/internal/colmode"
	"github.com/dshills/colstorm/internal/engine"
	"github.com/dshills/colstorm/internal/engine/buffer"
	"github.com/dshills/colstorm/internal/engine/column"
)

func setup(t *testing.T, text, columns string) (*engine.Engine, *buffer.Buffer) {
	t.Helper()
	buf := buffer.NewBufferFromString(text)
	e := engine.New(buf)
	_, err := e.LoadAll(column.Input{Delimiter: ",", Quote: `"`, Columns: columns})
	require.NoError(t, err)
	t.Cleanup(buf.Listen(e.Notify))
	return e, buf
}

func TestFindScopedToColumn(t *testing.T) {
	e, _ := setup(t, "name,qty\nfoo,10\nbar,20\nfoofoo", "1")

	matches, err := Find(e, regexp.MustCompile("foo"), nil)
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{Line: 1, Column: 1, Start: 9, End: 12, Text: "foo"},
		{Line: 3, Column: 1, Start: 23, End: 26, Text: "foo"},
		{Line: 3, Column: 1, Start: 26, End: 29, Text: "foo"},
	}, matches)

	matches, err = Find(e, regexp.MustCompile("0"), []int{2})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int64(14), matches[0].Start)
	assert.Equal(t, int64(21), matches[1].Start)
}

func TestFindIgnoresOtherColumns(t *testing.T) {
	e, _ := setup(t, `x,"a,foo",foo`, "2")

	matches, err := Find(e, regexp.MustCompile("foo"), nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2, matches[0].Column)
	assert.Equal(t, int64(5), matches[0].Start)
}

func TestReplaceAppliesCleanly(t *testing.T) {
	e, buf := setup(t, "name,qty\nfoo,10\nbar,20\nfoofoo", "1")

	edits, err := Replace(e, regexp.MustCompile("o+"), "<${0}>", nil)
	require.NoError(t, err)
	require.Len(t, edits, 3)
	assert.Greater(t, edits[0].Range.Start, edits[1].Range.Start)

	require.NoError(t, buf.ApplyEdits(edits))
	assert.Equal(t, "name,qty\nf<oo>,10\nbar,20\nf<oo>f<oo>", buf.Text())

	// The index followed the edits.
	text, err := e.ColumnText(1, 2)
	require.NoError(t, err)
	assert.Equal(t, "10", string(text))
}

func TestFindNotLoaded(t *testing.T) {
	e := engine.New(buffer.NewBufferFromString("a"))
	_, err := Find(e, regexp.MustCompile("a"), nil)
	assert.ErrorIs(t, err, colmode.ErrNotLoaded)
}
