// Package lineindex holds the per-line delimiter records that make up the
// column index. It is the authoritative state the reconciler maintains and
// the resolver reads.
package lineindex

import (
	"slices"

	xslices "golang.org/x/exp/slices"
)

// Record describes the delimiters discovered on one line.
type Record struct {
	// Length is the byte length of the line, excluding the line ending.
	Length int

	// Offsets are the byte offsets of the first byte of every delimiter
	// occurrence, ascending and unique. Every offset is < Length.
	Offsets []int
}

// Columns returns the number of columns on the line.
func (r *Record) Columns() int {
	return len(r.Offsets) + 1
}

// Equal reports whether two records hold the same values.
func (r *Record) Equal(other *Record) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.Length == other.Length && slices.Equal(r.Offsets, other.Offsets)
}

// Index is an ordered sequence of records, one per buffer line.
type Index struct {
	records []*Record
}

// New creates an empty index.
func New() *Index {
	return &Index{}
}

// Len returns the number of lines in the index.
func (x *Index) Len() int {
	return len(x.records)
}

// IsEmpty returns true if the index has never been populated.
func (x *Index) IsEmpty() bool {
	return len(x.records) == 0
}

// At returns the record for a line, or nil if the line is out of range.
func (x *Index) At(line int) *Record {
	if line < 0 || line >= len(x.records) {
		return nil
	}
	return x.records[line]
}

// Set replaces the record for a line. Out of range lines are ignored.
func (x *Index) Set(line int, rec *Record) {
	if line < 0 || line >= len(x.records) {
		return
	}
	x.records[line] = rec
}

// Insert inserts n empty records before line pos and returns how many
// were inserted. pos is clamped to [0, Len()].
func (x *Index) Insert(pos, n int) int {
	if n <= 0 {
		return 0
	}
	pos = max(0, min(pos, len(x.records)))
	fresh := make([]*Record, n)
	for i := range fresh {
		fresh[i] = &Record{}
	}
	x.records = xslices.Insert(x.records, pos, fresh...)
	return n
}

// Delete erases up to n records starting at line pos and returns how many
// were erased. Requests past the end are clamped.
func (x *Index) Delete(pos, n int) int {
	if n <= 0 || pos < 0 || pos >= len(x.records) {
		return 0
	}
	end := min(pos+n, len(x.records))
	x.records = xslices.Delete(x.records, pos, end)
	return end - pos
}

// Reset replaces the entire index content.
func (x *Index) Reset(records []*Record) {
	x.records = records
}

// Reorder rearranges the records so that new line i holds the record that
// was at line order[i]. order must be a permutation of [0, Len()).
func (x *Index) Reorder(order []int) {
	next := make([]*Record, len(x.records))
	for i, from := range order {
		next[i] = x.records[from]
	}
	x.records = next
}

// Snapshot returns a copy of the record pointers for read-only inspection.
func (x *Index) Snapshot() []*Record {
	return slices.Clone(x.records)
}
