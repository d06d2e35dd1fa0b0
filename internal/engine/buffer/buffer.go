package buffer

import (
	"bytes"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/colstorm/internal/engine/editlog"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap or are not in reverse order")
	ErrLineCount        = errors.New("line count mismatch")
)

// Listener receives a notification after every applied edit.
type Listener func(n editlog.Notification)

// Buffer is a line-addressable text buffer with LF line endings.
// It is the reference host for the column index engine: it answers line and
// position queries and emits an edit notification after every change.
// Methods are safe for concurrent use; listeners run after the lock is
// released so they may read the buffer back.
type Buffer struct {
	mu     sync.RWMutex
	text   string
	starts []int64

	listenMu  sync.Mutex
	listeners map[int]Listener
	nextID    int
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	b := &Buffer{listeners: make(map[int]Listener)}
	b.reindex()
	return b
}

// NewBufferFromString creates a buffer with initial content.
// CRLF and CR line endings are normalized to LF.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.text = normalizeLineEndings(s)
	b.reindex()
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read everything first: CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// reindex rebuilds the line start table (must hold write lock).
func (b *Buffer) reindex() {
	b.starts = b.starts[:0]
	b.starts = append(b.starts, 0)
	for i := 0; i < len(b.text); i++ {
		if b.text[i] == '\n' {
			b.starts = append(b.starts, int64(i+1))
		}
	}
}

// Listen registers a listener and returns a function that removes it.
func (b *Buffer) Listen(l Listener) (cancel func()) {
	b.listenMu.Lock()
	defer b.listenMu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = l
	return func() {
		b.listenMu.Lock()
		defer b.listenMu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *Buffer) emit(notes ...editlog.Notification) {
	b.listenMu.Lock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, len(ids))
	for i, id := range ids {
		listeners[i] = b.listeners[id]
	}
	b.listenMu.Unlock()

	for _, n := range notes {
		for _, l := range listeners {
			l(n)
		}
	}
}

// Read Operations

// Text returns the full buffer content as a string.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns text in the given byte range, clamped to the buffer.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start = max(0, min(start, ByteOffset(len(b.text))))
	end = max(start, min(end, ByteOffset(len(b.text))))
	return b.text[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.starts)
}

// LineText returns a copy of a line's bytes without the newline.
// Out of range lines return nil.
func (b *Buffer) LineText(line int) []byte {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.starts) {
		return nil
	}
	return []byte(b.text[b.starts[line]:b.lineEndLocked(line)])
}

// LineStartPosition returns the byte offset of the start of a line.
// Lines past the end map to the buffer length.
func (b *Buffer) LineStartPosition(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 {
		return 0
	}
	if line >= len(b.starts) {
		return ByteOffset(len(b.text))
	}
	return b.starts[line]
}

// LineEndPosition returns the byte offset of the end of a line (before newline).
func (b *Buffer) LineEndPosition(line int) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if line < 0 || line >= len(b.starts) {
		return ByteOffset(len(b.text))
	}
	return b.lineEndLocked(line)
}

func (b *Buffer) lineEndLocked(line int) ByteOffset {
	if line+1 < len(b.starts) {
		return b.starts[line+1] - 1
	}
	return ByteOffset(len(b.text))
}

// LineFromPosition returns the line containing the byte offset.
// Offsets are clamped to the buffer.
func (b *Buffer) LineFromPosition(pos ByteOffset) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i := sort.Search(len(b.starts), func(i int) bool { return b.starts[i] > pos })
	return max(0, i-1)
}

// Write Operations

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	if offset < 0 || offset > ByteOffset(len(b.text)) {
		b.mu.Unlock()
		return 0, ErrOffsetOutOfRange
	}
	text = normalizeLineEndings(text)
	note, ok := b.insertLocked(offset, text)
	b.mu.Unlock()

	if ok {
		b.emit(note)
	}
	return offset + ByteOffset(len(text)), nil
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	b.mu.Lock()
	if start < 0 || start > end || end > ByteOffset(len(b.text)) {
		b.mu.Unlock()
		return ErrRangeInvalid
	}
	note, ok := b.deleteLocked(start, end)
	b.mu.Unlock()

	if ok {
		b.emit(note)
	}
	return nil
}

// Replace replaces text in the given range with new text. Listeners see a
// deletion followed by an insertion.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.RLock()
	valid := start >= 0 && start <= end && end <= ByteOffset(len(b.text))
	b.mu.RUnlock()
	if !valid {
		return 0, ErrRangeInvalid
	}

	text = normalizeLineEndings(text)
	b.replace(start, end, text)
	return start + ByteOffset(len(text)), nil
}

// replace deletes then inserts, emitting each notification right after its
// own mutation so listeners always observe the buffer state it describes.
func (b *Buffer) replace(start, end ByteOffset, text string) {
	b.mu.Lock()
	note, ok := b.deleteLocked(start, end)
	b.mu.Unlock()
	if ok {
		b.emit(note)
	}

	b.mu.Lock()
	note, ok = b.insertLocked(start, text)
	b.mu.Unlock()
	if ok {
		b.emit(note)
	}
}

// ApplyEdits applies multiple edits.
// Edits must be in reverse order (highest offset first) to maintain validity.
// All edits are validated before any is applied.
func (b *Buffer) ApplyEdits(edits []Edit) error {
	if len(edits) == 0 {
		return nil
	}

	for i := 1; i < len(edits); i++ {
		if edits[i].Range.End > edits[i-1].Range.Start {
			return ErrEditsOverlap
		}
	}

	b.mu.RLock()
	textLen := ByteOffset(len(b.text))
	b.mu.RUnlock()
	for _, edit := range edits {
		if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End || edit.Range.End > textLen {
			return ErrRangeInvalid
		}
	}

	for _, edit := range edits {
		b.replace(edit.Range.Start, edit.Range.End, normalizeLineEndings(edit.NewText))
	}
	return nil
}

// ReplaceLines rewrites every line of the buffer. The number of lines must
// not change.
func (b *Buffer) ReplaceLines(lines [][]byte) error {
	b.mu.RLock()
	count := len(b.starts)
	textLen := ByteOffset(len(b.text))
	b.mu.RUnlock()
	if len(lines) != count {
		return ErrLineCount
	}

	b.replace(0, textLen, string(bytes.Join(lines, []byte{'\n'})))
	return nil
}

func (b *Buffer) insertLocked(offset ByteOffset, text string) (editlog.Notification, bool) {
	if text == "" {
		return editlog.Notification{}, false
	}
	b.text = b.text[:offset] + text + b.text[offset:]
	b.reindex()
	return editlog.Notification{
		Kind:       editlog.TextInserted,
		Position:   offset,
		Length:     ByteOffset(len(text)),
		LinesAdded: strings.Count(text, "\n"),
	}, true
}

func (b *Buffer) deleteLocked(start, end ByteOffset) (editlog.Notification, bool) {
	if start == end {
		return editlog.Notification{}, false
	}
	removed := b.text[start:end]
	b.text = b.text[:start] + b.text[end:]
	b.reindex()
	return editlog.Notification{
		Kind:       editlog.TextDeleted,
		Position:   start,
		Length:     end - start,
		LinesAdded: -strings.Count(removed, "\n"),
	}, true
}
