// Package colmode holds the column mode features built on top of the
// engine's resolver: scoped search, highlighting, duplicate detection,
// column editing and alignment.
//
// Every feature reads column geometry through Index and never computes
// column boundaries itself. Features that change text return buffer edits
// instead of applying them.
package colmode

import (
	"errors"
	"slices"

	"github.com/dshills/colstorm/internal/engine/column"
)

// ErrNotLoaded indicates the index has no column configuration.
var ErrNotLoaded = errors.New("column mode not loaded")

// Index is the read-only view of a column index. *engine.Engine
// implements it.
type Index interface {
	Len() int
	Config() *column.Config
	ColumnCount(line int) int
	LineStartPosition(line int) int64
	ResolveRange(line, col int) (start, end int64, err error)
	ColumnText(line, col int) ([]byte, error)
	Columns(line int, cols []int) ([][]byte, error)
}

// Selection returns cols, or the configured column order when cols is
// empty.
func Selection(idx Index, cols []int) ([]int, error) {
	cfg := idx.Config()
	if cfg == nil {
		return nil, ErrNotLoaded
	}
	if len(cols) == 0 {
		return cfg.Order(), nil
	}
	return cols, nil
}

// Distinct returns the selected columns ascending and without repeats.
func Distinct(idx Index, cols []int) ([]int, error) {
	cols, err := Selection(idx, cols)
	if err != nil {
		return nil, err
	}
	cols = slices.Clone(cols)
	slices.Sort(cols)
	return slices.Compact(cols), nil
}

// Lines clamps the half-open line range [from, to) to the index. A
// negative to means the end of the index.
func Lines(idx Index, from, to int) (int, int) {
	n := idx.Len()
	if to < 0 || to > n {
		to = n
	}
	from = max(0, min(from, to))
	return from, to
}
