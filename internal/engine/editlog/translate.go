package editlog

// NotificationKind says whether the host inserted or deleted text.
type NotificationKind uint8

const (
	// TextInserted is sent after text was inserted at Position.
	TextInserted NotificationKind = iota

	// TextDeleted is sent after text was deleted starting at Position.
	TextDeleted
)

// Notification is a raw host edit notification, delivered after the edit
// has been applied to the buffer.
type Notification struct {
	Kind NotificationKind

	// Position is the absolute byte offset where the edit starts.
	Position int64

	// Length is the number of bytes inserted or deleted.
	Length int64

	// LinesAdded is positive when an insertion added lines and negative
	// when a deletion removed them.
	LinesAdded int
}

// Locator answers position queries against the post-edit buffer.
type Locator interface {
	LineFromPosition(pos int64) int
	LineStartPosition(line int) int64
}

// Translate converts one host notification into log entries.
//
// A structural edit that starts exactly at a line's first byte targets that
// line; otherwise it targets the next line, because the line holding the
// start of the edit survives (modified) in place.
func Translate(n Notification, loc Locator) []Entry {
	line := loc.LineFromPosition(n.Position)
	target := line
	if loc.LineStartPosition(line) != n.Position {
		target = line + 1
	}

	switch {
	case n.Kind == TextInserted && n.LinesAdded > 0:
		// The line holding the tail of the inserted text keeps the record
		// of the line the insert split, so it is stale as well.
		entries := []Entry{Insert(target, n.LinesAdded), Modify(line)}
		if tail := line + n.LinesAdded; tail != line {
			entries = append(entries, Modify(tail))
		}
		return entries

	case n.Kind == TextDeleted && n.LinesAdded < 0:
		return []Entry{Delete(target, -n.LinesAdded), Modify(line)}

	default:
		return []Entry{Modify(line)}
	}
}
