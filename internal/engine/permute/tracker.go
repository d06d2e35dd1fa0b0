// Package permute remembers the pre-sort identity of every line so that a
// sorted document can be restored to its original order, even after it was
// edited while sorted.
//
// The tracker is a state machine: Unsorted → Ascending|Descending →
// Unsorted. While sorted it holds one identity per buffer line and receives
// the same structural edits as the line index. Inserted lines get fresh
// identities greater than any existing one; deleted identities are dropped,
// never renumbered in place. Restoring ranks the surviving identities
// (closing the gaps deletes left) and inverts that ranking.
package permute

import (
	"slices"

	xslices "golang.org/x/exp/slices"
)

// State is the sort state of the document.
type State uint8

const (
	// Unsorted means no permutation is active.
	Unsorted State = iota

	// SortedAscending means the document was last sorted ascending.
	SortedAscending

	// SortedDescending means the document was last sorted descending.
	SortedDescending
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Unsorted:
		return "unsorted"
	case SortedAscending:
		return "ascending"
	case SortedDescending:
		return "descending"
	default:
		return "unknown"
	}
}

// Direction is a sort direction.
type Direction uint8

const (
	Ascending Direction = iota
	Descending
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// State returns the sorted state reached by sorting in d.
func (d Direction) State() State {
	if d == Descending {
		return SortedDescending
	}
	return SortedAscending
}

// Tracker maps current physical lines to their original identity.
type Tracker struct {
	state State
	ids   []int
	next  int
}

// NewTracker creates an inactive tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// State returns the current sort state.
func (t *Tracker) State() State {
	return t.state
}

// Active returns true while a permutation is being tracked.
func (t *Tracker) Active() bool {
	return t.state != Unsorted
}

// Len returns the number of tracked lines.
func (t *Tracker) Len() int {
	return len(t.ids)
}

// Identities returns a copy of the per-line identities.
func (t *Tracker) Identities() []int {
	return slices.Clone(t.ids)
}

// Begin snapshots the identity permutation for n lines if no permutation
// is active yet. An active permutation is kept so that successive sorts
// compose.
func (t *Tracker) Begin(n int) {
	if t.Active() {
		return
	}
	t.ids = make([]int, n)
	for i := range t.ids {
		t.ids[i] = i
	}
	t.next = n
}

// Apply records that the lines were rearranged so that new line i is old
// line order[i], and enters the sorted state for dir.
func (t *Tracker) Apply(order []int, dir Direction) {
	next := make([]int, len(order))
	for i, from := range order {
		next[i] = t.ids[from]
	}
	t.ids = next
	t.state = dir.State()
}

// InsertLines gives n new lines at pos fresh identities.
func (t *Tracker) InsertLines(pos, n int) {
	if !t.Active() || n <= 0 {
		return
	}
	pos = max(0, min(pos, len(t.ids)))
	fresh := make([]int, n)
	for i := range fresh {
		fresh[i] = t.next
		t.next++
	}
	t.ids = xslices.Insert(t.ids, pos, fresh...)
}

// DeleteLines drops the identities of n lines starting at pos.
func (t *Tracker) DeleteLines(pos, n int) {
	if !t.Active() || n <= 0 || pos < 0 || pos >= len(t.ids) {
		return
	}
	t.ids = xslices.Delete(t.ids, pos, min(pos+n, len(t.ids)))
}

// RestoreOrder returns the order that brings the document back to its
// original line order: new line i is current line order[i]. Lines inserted
// while sorted follow all original lines, in the order they were created.
// The tracker is not modified; call Reset once the order was applied.
func (t *Tracker) RestoreOrder() []int {
	rank := normalize(t.ids)
	order := make([]int, len(rank))
	for line, r := range rank {
		order[r] = line
	}
	return order
}

// Reset drops the permutation and returns to Unsorted.
func (t *Tracker) Reset() {
	t.state = Unsorted
	t.ids = nil
	t.next = 0
}

// normalize replaces identities by their rank among the survivors.
func normalize(ids []int) []int {
	byID := make([]int, len(ids))
	for i := range byID {
		byID[i] = i
	}
	slices.SortFunc(byID, func(a, b int) int {
		return ids[a] - ids[b]
	})
	rank := make([]int, len(ids))
	for r, line := range byID {
		rank[line] = r
	}
	return rank
}
