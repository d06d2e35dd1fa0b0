package reconcile

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/colstorm/internal/engine/column"
	"github.com/dshills/colstorm/internal/engine/editlog"
	"github.com/dshills/colstorm/internal/engine/lineindex"
)

// lines is a minimal line source backed by a string slice.
type lines []string

func (l lines) LineCount() int           { return len(l) }
func (l lines) LineText(line int) []byte { return []byte(l[line]) }

// permLog records the structural edits forwarded to the permutation.
type permLog struct {
	ops []string
}

func (p *permLog) InsertLines(pos, n int) { p.ops = append(p.ops, fmt.Sprintf("ins %d %d", pos, n)) }
func (p *permLog) DeleteLines(pos, n int) { p.ops = append(p.ops, fmt.Sprintf("del %d %d", pos, n)) }

var csv = column.MustParse(column.Input{Delimiter: ",", Quote: `"`})

func loaded(src lines) *lineindex.Index {
	idx := lineindex.New()
	Rescan(idx, src, csv)
	return idx
}

func TestReconcileInsertKeepsUntouchedRecords(t *testing.T) {
	src := lines{"a,b", "c,d", "e,f", "g,h", "i,j"}
	idx := loaded(src)
	before := idx.Snapshot()

	src = lines{"a,b", "c,d", "e,f", "x,y,z", "1", "g,h", "i,j"}
	perm := &permLog{}
	res := Reconcile([]editlog.Entry{editlog.Insert(3, 2)}, idx, perm, src, csv)

	require.Equal(t, 7, idx.Len())
	for line := 0; line < 3; line++ {
		assert.Same(t, before[line], idx.At(line))
	}
	assert.Same(t, before[3], idx.At(5))
	assert.Same(t, before[4], idx.At(6))

	assert.Equal(t, []int{1, 3}, idx.At(3).Offsets)
	assert.Empty(t, idx.At(4).Offsets)
	assert.Equal(t, []uint32{3, 4}, res.Scanned.ToArray())
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, []string{"ins 3 2"}, perm.ops)
}

func TestReconcileDeleteDiscardsPendingModify(t *testing.T) {
	src := lines{"a", "b", "c,c", "d,d", "e,e,e"}
	idx := loaded(src)
	before := idx.Snapshot()

	src = lines{"a", "b", "e,e,e"}
	entries := []editlog.Entry{editlog.Modify(2), editlog.Delete(2, 2)}
	res := Reconcile(entries, idx, nil, src, csv)

	require.Equal(t, 3, idx.Len())
	assert.Same(t, before[4], idx.At(2))
	assert.True(t, res.Scanned.IsEmpty())
	assert.Equal(t, 2, res.Deleted)
}

func TestReconcileShiftsPendingModify(t *testing.T) {
	src := lines{"a", "b", "c", "d"}
	idx := loaded(src)

	// Line 3 is edited, then two lines are inserted before it and line 0
	// is removed, so the edited line ends up at 4.
	src = lines{"b", "new", "new", "c", "d,d"}
	entries := []editlog.Entry{
		editlog.Modify(3),
		editlog.Insert(2, 2),
		editlog.Delete(0, 1),
	}
	perm := &permLog{}
	res := Reconcile(entries, idx, perm, src, csv)

	require.Equal(t, 5, idx.Len())
	assert.Equal(t, []int{1}, idx.At(4).Offsets)
	assert.Equal(t, []uint32{1, 2, 4}, res.Scanned.ToArray())
	assert.Equal(t, []string{"ins 2 2", "del 0 1"}, perm.ops)
}

func TestReconcileScansLineOnce(t *testing.T) {
	src := lines{"a", "b"}
	idx := loaded(src)

	src = lines{"a,a", "b"}
	entries := []editlog.Entry{editlog.Modify(0), editlog.Modify(0), editlog.Modify(0)}
	res := Reconcile(entries, idx, nil, src, csv)

	assert.Equal(t, uint64(1), res.Scanned.GetCardinality())
	assert.Equal(t, []int{1}, idx.At(0).Offsets)
}

func TestReconcileClampsMalformedEntries(t *testing.T) {
	src := lines{"a", "b", "c"}
	idx := loaded(src)

	src = lines{"a"}
	entries := []editlog.Entry{
		editlog.Delete(1, 10),
		editlog.Delete(7, 1),
		editlog.Modify(-1),
		editlog.Modify(9),
		editlog.Insert(0, 0),
	}
	res := Reconcile(entries, idx, nil, src, csv)

	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, 2, res.Deleted)
	assert.Equal(t, 3, res.Clamped)
	assert.True(t, res.Scanned.IsEmpty())
}

func TestReconcileInsertPastEnd(t *testing.T) {
	src := lines{"a"}
	idx := loaded(src)

	src = lines{"a", "b,b"}
	res := Reconcile([]editlog.Entry{editlog.Insert(5, 1)}, idx, nil, src, csv)

	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 1, res.Clamped)
	assert.Equal(t, []int{1}, idx.At(1).Offsets)
}

// model is a line buffer that records the log entries its edits produce.
type model struct {
	lines lines
	log   []editlog.Entry
	rng   *rand.Rand
}

func (m *model) randomLine() string {
	fields := m.rng.Intn(4)
	s := "v"
	for i := 0; i < fields; i++ {
		if m.rng.Intn(3) == 0 {
			s += `,"q,q"`
		} else {
			s += fmt.Sprintf(",%d", m.rng.Intn(100))
		}
	}
	return s
}

func (m *model) step() {
	switch op := m.rng.Intn(3); {
	case op == 0 && len(m.lines) > 0:
		line := m.rng.Intn(len(m.lines))
		m.lines[line] = m.randomLine()
		m.log = append(m.log, editlog.Modify(line))
	case op == 1:
		pos := m.rng.Intn(len(m.lines) + 1)
		n := 1 + m.rng.Intn(3)
		fresh := make([]string, n)
		for i := range fresh {
			fresh[i] = m.randomLine()
		}
		m.lines = append(m.lines[:pos], append(fresh, m.lines[pos:]...)...)
		m.log = append(m.log, editlog.Insert(pos, n))
	case len(m.lines) > 1:
		pos := m.rng.Intn(len(m.lines))
		n := 1 + m.rng.Intn(min(3, len(m.lines)-pos))
		m.lines = append(m.lines[:pos], m.lines[pos+n:]...)
		m.log = append(m.log, editlog.Delete(pos, n))
	}
}

func TestReconcileMatchesFullRescan(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		m := &model{rng: rand.New(rand.NewSource(seed))}
		for i := 0; i < 8; i++ {
			m.lines = append(m.lines, m.randomLine())
		}
		idx := loaded(append(lines(nil), m.lines...))

		for batch := 0; batch < 10; batch++ {
			m.log = nil
			steps := 1 + m.rng.Intn(6)
			for s := 0; s < steps; s++ {
				m.step()
			}

			src := append(lines(nil), m.lines...)
			Reconcile(m.log, idx, nil, src, csv)
			want := loaded(src)

			require.Equal(t, want.Len(), idx.Len(), "seed %d batch %d", seed, batch)
			for line := 0; line < want.Len(); line++ {
				require.True(t, want.At(line).Equal(idx.At(line)),
					"seed %d batch %d line %d: %v != %v", seed, batch, line, want.At(line), idx.At(line))
			}
		}
	}
}
