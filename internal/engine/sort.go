package engine

import (
	"fmt"

	"github.com/dshills/colstorm/internal/engine/permute"
)

// Sort reorders the document's lines by the values of columns, compared
// numerically where both values parse as numbers. If columns is empty the
// configured column order is used. Requesting the direction that is
// already active restores the original order instead.
//
// A trailing empty line stays last. The records move with their lines, so
// no line is rescanned.
func (e *Engine) Sort(dir Direction, columns []int) (SortResult, error) {
	if e.cfg == nil {
		return SortResult{}, ErrNotLoaded
	}
	if e.perm.State() == dir.State() {
		order, err := e.Unsort()
		if err != nil {
			return SortResult{}, err
		}
		return SortResult{Order: order, State: Unsorted, Restored: true}, nil
	}

	w, ok := e.host.(LineWriter)
	if !ok {
		return SortResult{}, ErrHostReadOnly
	}
	if len(columns) == 0 {
		columns = e.cfg.Order()
	}
	if len(columns) == 0 {
		return SortResult{}, ErrNoColumns
	}
	e.sync()

	n := e.index.Len()
	sortable := n
	if n > 0 && len(e.host.LineText(n-1)) == 0 {
		sortable--
	}

	keys := make([][][]byte, sortable)
	for line := 0; line < sortable; line++ {
		values, err := e.Columns(line, columns)
		if err != nil {
			return SortResult{}, err
		}
		keys[line] = values
	}

	order := permute.Order(keys, dir)
	for line := sortable; line < n; line++ {
		order = append(order, line)
	}

	if err := e.rewrite(w, order); err != nil {
		return SortResult{}, err
	}
	e.perm.Begin(n)
	e.perm.Apply(order, dir)
	e.index.Reorder(order)

	e.logger.Debug().
		Str("direction", dir.String()).
		Ints("columns", columns).
		Int("lines", n).
		Msg("document sorted")

	return SortResult{Order: order, State: e.perm.State()}, nil
}

// Unsort restores the line order from before the first sort. Lines
// inserted while sorted are placed after all original lines.
func (e *Engine) Unsort() ([]int, error) {
	if e.cfg == nil {
		return nil, ErrNotLoaded
	}
	if !e.perm.Active() {
		return nil, ErrNotSorted
	}
	w, ok := e.host.(LineWriter)
	if !ok {
		return nil, ErrHostReadOnly
	}
	e.sync()
	if !e.perm.Active() {
		return nil, ErrNotSorted
	}

	order := e.perm.RestoreOrder()
	if err := e.rewrite(w, order); err != nil {
		return nil, err
	}
	e.index.Reorder(order)
	e.perm.Reset()

	e.logger.Debug().Int("lines", len(order)).Msg("document order restored")
	return order, nil
}

// rewrite writes the host's lines in the given order. Notifications the
// host emits during the write are ignored.
func (e *Engine) rewrite(w LineWriter, order []int) error {
	lines := make([][]byte, len(order))
	for i, from := range order {
		lines[i] = e.host.LineText(from)
	}

	e.rewriting = true
	defer func() { e.rewriting = false }()
	if err := w.ReplaceLines(lines); err != nil {
		return fmt.Errorf("rewrite lines: %w", err)
	}
	return nil
}
