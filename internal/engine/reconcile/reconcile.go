// Package reconcile brings the line index back into agreement with the
// buffer after a batch of edits, without rescanning the whole document.
//
// Reconciliation runs in two passes over the log. The first pass applies
// structural entries (insert, delete) immediately, in arrival order, and
// shifts every pending modify that an insert or delete moved; modifies that
// fall inside a deleted block are dropped. The second pass re-scans each
// surviving modified line exactly once. Structural edits therefore never
// observe a line number that a later entry has shifted, and a line touched
// by many notifications is scanned a single time.
package reconcile

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/dshills/colstorm/internal/engine/column"
	"github.com/dshills/colstorm/internal/engine/editlog"
	"github.com/dshills/colstorm/internal/engine/lineindex"
	"github.com/dshills/colstorm/internal/engine/scan"
)

// LineSource provides line text from the host buffer.
type LineSource interface {
	LineCount() int
	LineText(line int) []byte
}

// Permutation receives the same structural edits as the line index.
// In-place modifications are not forwarded: they do not change line identity.
type Permutation interface {
	InsertLines(pos, n int)
	DeleteLines(pos, n int)
}

// Result describes what a reconciliation pass changed.
type Result struct {
	// Scanned holds the lines (post-update numbering) whose records were rebuilt.
	Scanned *roaring.Bitmap

	// Inserted and Deleted count the structural line changes applied.
	Inserted int
	Deleted  int

	// Clamped counts entries that referred past the end of the index and
	// were trimmed or dropped.
	Clamped int
}

// Reconcile applies entries to idx and perm. perm may be nil.
// It never fails: out of range entries are clamped to the available lines.
func Reconcile(entries []editlog.Entry, idx *lineindex.Index, perm Permutation, src LineSource, cfg *column.Config) Result {
	res := Result{Scanned: roaring.New()}
	pending := make([]int, 0, len(entries))

	for _, e := range entries {
		switch e.Kind {
		case editlog.KindModify:
			if e.Line < 0 {
				res.Clamped++
				continue
			}
			pending = append(pending, e.Line)

		case editlog.KindInsert:
			if e.Count <= 0 {
				continue
			}
			pos := e.Line
			if pos < 0 || pos > idx.Len() {
				pos = max(0, min(pos, idx.Len()))
				res.Clamped++
			}
			for i, line := range pending {
				if line >= pos {
					pending[i] = line + e.Count
				}
			}
			idx.Insert(pos, e.Count)
			if perm != nil {
				perm.InsertLines(pos, e.Count)
			}
			for line := pos; line < pos+e.Count; line++ {
				pending = append(pending, line)
			}
			res.Inserted += e.Count

		case editlog.KindDelete:
			if e.Count <= 0 {
				continue
			}
			if e.Line < 0 || e.Line >= idx.Len() {
				res.Clamped++
				continue
			}
			n := idx.Delete(e.Line, e.Count)
			if n < e.Count {
				res.Clamped++
			}
			if perm != nil {
				perm.DeleteLines(e.Line, n)
			}
			pending = shiftDeleted(pending, e.Line, n)
			res.Deleted += n
		}
	}

	limit := min(idx.Len(), src.LineCount())
	for _, line := range pending {
		if line < limit {
			res.Scanned.Add(uint32(line))
		}
	}

	it := res.Scanned.Iterator()
	for it.HasNext() {
		line := int(it.Next())
		idx.Set(line, scan.Line(src.LineText(line), cfg))
	}

	return res
}

// shiftDeleted drops pending lines inside [pos, pos+n) and moves the ones
// after the block up by n.
func shiftDeleted(pending []int, pos, n int) []int {
	kept := pending[:0]
	for _, line := range pending {
		switch {
		case line < pos:
			kept = append(kept, line)
		case line >= pos+n:
			kept = append(kept, line-n)
		}
	}
	return kept
}

// Rescan rebuilds every record of idx from src.
func Rescan(idx *lineindex.Index, src LineSource, cfg *column.Config) {
	count := src.LineCount()
	records := make([]*lineindex.Record, count)
	for line := 0; line < count; line++ {
		records[line] = scan.Line(src.LineText(line), cfg)
	}
	idx.Reset(records)
}
