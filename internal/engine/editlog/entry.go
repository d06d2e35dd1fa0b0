// Package editlog turns host edit notifications into line-level log
// entries and queues them until the reconciler drains them.
//
// Every entry names line numbers as they were in the buffer at the moment
// the entry was produced. The reconciler, not this package, is responsible
// for shifting earlier entries when later structural edits move lines.
package editlog

import "fmt"

// Kind categorizes a log entry.
type Kind uint8

const (
	// KindModify means a line's content changed in place.
	KindModify Kind = iota

	// KindInsert means Count new lines were inserted before Line.
	KindInsert

	// KindDelete means Count lines starting at Line were removed.
	KindDelete
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindModify:
		return "modify"
	case KindInsert:
		return "insert"
	case KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Entry is one line-level edit.
type Entry struct {
	Kind  Kind
	Line  int
	Count int
}

// Insert creates an entry for n lines inserted before line.
func Insert(line, n int) Entry {
	return Entry{Kind: KindInsert, Line: line, Count: n}
}

// Delete creates an entry for n lines removed starting at line.
func Delete(line, n int) Entry {
	return Entry{Kind: KindDelete, Line: line, Count: n}
}

// Modify creates an entry for an in-place change of line.
func Modify(line int) Entry {
	return Entry{Kind: KindModify, Line: line, Count: 1}
}

// IsStructural returns true for entries that change the line count.
func (e Entry) IsStructural() bool {
	return e.Kind == KindInsert || e.Kind == KindDelete
}

// String returns a human-readable representation of the entry.
func (e Entry) String() string {
	if e.Kind == KindModify {
		return fmt.Sprintf("modify %d", e.Line)
	}
	return fmt.Sprintf("%s %d+%d", e.Kind, e.Line, e.Count)
}

// Log is a FIFO queue of entries awaiting reconciliation.
type Log struct {
	entries []Entry
}

// Push appends entries in arrival order.
func (l *Log) Push(entries ...Entry) {
	l.entries = append(l.entries, entries...)
}

// Len returns the number of queued entries.
func (l *Log) Len() int {
	return len(l.entries)
}

// Drain returns every queued entry in arrival order and empties the log.
func (l *Log) Drain() []Entry {
	out := l.entries
	l.entries = nil
	return out
}

// Discard drops every queued entry.
func (l *Log) Discard() {
	l.entries = nil
}
