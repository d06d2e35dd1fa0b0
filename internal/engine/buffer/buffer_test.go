package buffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/colstorm/internal/engine/editlog"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()

	assert.Equal(t, int64(0), b.Len())
	assert.Equal(t, 1, b.LineCount())
	assert.Empty(t, b.LineText(0))
}

func TestNewBufferFromStringNormalizes(t *testing.T) {
	b := NewBufferFromString("a,b\r\nc,d\re")

	assert.Equal(t, "a,b\nc,d\ne", b.Text())
	require.Equal(t, 3, b.LineCount())
	assert.Equal(t, "c,d", string(b.LineText(1)))
}

func TestNewBufferFromReader(t *testing.T) {
	b, err := NewBufferFromReader(strings.NewReader("x\ny\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, b.LineCount())
}

func TestBufferPositions(t *testing.T) {
	b := NewBufferFromString("ab\ncde\n\nf")

	starts := []int64{0, 3, 7, 8}
	ends := []int64{2, 6, 7, 9}
	for line := range starts {
		assert.Equal(t, starts[line], b.LineStartPosition(line), "line %d start", line)
		assert.Equal(t, ends[line], b.LineEndPosition(line), "line %d end", line)
	}

	positions := map[int64]int{0: 0, 2: 0, 3: 1, 6: 1, 7: 2, 8: 3, 9: 3, 100: 3}
	for pos, want := range positions {
		assert.Equal(t, want, b.LineFromPosition(pos), "position %d", pos)
	}

	assert.Nil(t, b.LineText(9), "out of range line")
}

func TestBufferNotifications(t *testing.T) {
	b := NewBufferFromString("a,b\nc,d")

	var got []editlog.Notification
	cancel := b.Listen(func(n editlog.Notification) {
		got = append(got, n)
	})

	_, err := b.Insert(3, "\nx,y")
	require.NoError(t, err)
	require.NoError(t, b.Delete(0, 4))
	_, err = b.Replace(0, 1, "zz")
	require.NoError(t, err)

	want := []editlog.Notification{
		{Kind: editlog.TextInserted, Position: 3, Length: 4, LinesAdded: 1},
		{Kind: editlog.TextDeleted, Position: 0, Length: 4, LinesAdded: -1},
		{Kind: editlog.TextDeleted, Position: 0, Length: 1},
		{Kind: editlog.TextInserted, Position: 0, Length: 2},
	}
	assert.Equal(t, want, got)

	cancel()
	_, _ = b.Insert(0, "q")
	assert.Len(t, got, len(want), "listener called after cancel")
}

func TestBufferListenerSeesMatchingState(t *testing.T) {
	b := NewBufferFromString("0\n1\n2\n3")

	var lines []int
	b.Listen(func(n editlog.Notification) {
		lines = append(lines, b.LineFromPosition(n.Position))
	})

	edits := []Edit{
		NewInsert(6, "x\n"),
		NewDelete(0, 2),
	}
	require.NoError(t, b.ApplyEdits(edits))

	assert.Equal(t, "1\n2\nx\n3", b.Text())
	assert.Equal(t, []int{3, 0}, lines)
}

func TestBufferApplyEditsErrors(t *testing.T) {
	b := NewBufferFromString("abcdef")

	err := b.ApplyEdits([]Edit{NewDelete(0, 2), NewDelete(3, 4)})
	assert.ErrorIs(t, err, ErrEditsOverlap)

	err = b.ApplyEdits([]Edit{NewDelete(4, 20)})
	assert.ErrorIs(t, err, ErrRangeInvalid)

	assert.Equal(t, "abcdef", b.Text(), "buffer changed on error")
}

func TestBufferReplaceLines(t *testing.T) {
	b := NewBufferFromString("a\nb\nc")

	require.NoError(t, b.ReplaceLines([][]byte{[]byte("c"), []byte("a"), []byte("b")}))
	assert.Equal(t, "c\na\nb", b.Text())

	err := b.ReplaceLines([][]byte{[]byte("x")})
	assert.ErrorIs(t, err, ErrLineCount)
}

func TestBufferInsertErrors(t *testing.T) {
	b := NewBufferFromString("abc")

	_, err := b.Insert(10, "x")
	assert.ErrorIs(t, err, ErrOffsetOutOfRange)
	assert.ErrorIs(t, b.Delete(2, 1), ErrRangeInvalid)
	assert.Equal(t, "bc", b.TextRange(1, 99), "clamped range")
}
