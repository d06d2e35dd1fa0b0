package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/colstorm/internal/engine"
	"github.com/dshills/colstorm/internal/engine/buffer"
	"github.com/dshills/colstorm/internal/engine/column"
)

func setup(t *testing.T, text, columns string) *engine.Engine {
	t.Helper()
	e := engine.New(buffer.NewBufferFromString(text))
	_, err := e.LoadAll(column.Input{Delimiter: ",", Quote: `"`, Columns: columns})
	require.NoError(t, err)
	return e
}

func TestFindDuplicates(t *testing.T) {
	e := setup(t, "a,1\nb,2\na,3\nc,1\na,1\nb", "1")

	report, err := Find(e, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 4, 5}, report.Duplicates.ToArray())
	assert.Equal(t, [][]int{{0, 2, 4}, {1, 5}}, report.Groups)
	assert.Equal(t, 3, report.Count())
}

func TestFindMultipleColumns(t *testing.T) {
	e := setup(t, "a,1\nb,2\na,3\nc,1\na,1\nb", "1")

	report, err := Find(e, []int{2, 1})
	require.NoError(t, err)
	assert.Equal(t, []uint32{4}, report.Duplicates.ToArray())
	assert.Equal(t, [][]int{{0, 4}}, report.Groups)
}

func TestFindMissingColumnIsEmpty(t *testing.T) {
	e := setup(t, "x\nx,\ny,\"\"", "2")

	report, err := Find(e, nil)
	require.NoError(t, err)
	// Line 0 lacks column 2, line 1 has it empty; both key as empty.
	assert.Equal(t, []uint32{1}, report.Duplicates.ToArray())
}

func TestKeyIsUnambiguous(t *testing.T) {
	assert.NotEqual(t,
		key([][]byte{[]byte("ab"), []byte("c")}),
		key([][]byte{[]byte("a"), []byte("bc")}))
}
