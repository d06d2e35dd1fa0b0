// Package search finds and replaces regular expression matches inside
// selected columns only.
package search

import (
	"errors"
	"regexp"
	"slices"

	"github.com/dshills/colstorm/internal/colmode"
	"github.com/dshills/colstorm/internal/engine/buffer"
	"github.com/dshills/colstorm/internal/engine/resolve"
)

// Match is one match inside a column.
type Match struct {
	Line   int
	Column int

	// Start and End are absolute buffer positions, End exclusive.
	Start int64
	End   int64

	Text string
}

// Find returns every match of re inside the given columns, ordered by
// position. When columns is empty the configured columns are searched.
// Lines lacking a column are skipped for that column.
func Find(idx colmode.Index, re *regexp.Regexp, columns []int) ([]Match, error) {
	cols, err := colmode.Distinct(idx, columns)
	if err != nil {
		return nil, err
	}

	var matches []Match
	err = eachColumn(idx, cols, func(line, col int, start int64, text []byte) {
		for _, loc := range re.FindAllIndex(text, -1) {
			matches = append(matches, Match{
				Line:   line,
				Column: col,
				Start:  start + int64(loc[0]),
				End:    start + int64(loc[1]),
				Text:   string(text[loc[0]:loc[1]]),
			})
		}
	})
	return matches, err
}

// Replace returns the edits that replace every match of re inside the
// given columns with repl, which may reference submatches as in
// regexp.Regexp.Expand. Edits are ordered highest offset first, ready for
// buffer.ApplyEdits.
func Replace(idx colmode.Index, re *regexp.Regexp, repl string, columns []int) ([]buffer.Edit, error) {
	cols, err := colmode.Distinct(idx, columns)
	if err != nil {
		return nil, err
	}

	var edits []buffer.Edit
	err = eachColumn(idx, cols, func(_, _ int, start int64, text []byte) {
		for _, sub := range re.FindAllSubmatchIndex(text, -1) {
			expanded := re.Expand(nil, []byte(repl), text, sub)
			edits = append(edits, buffer.NewReplace(
				start+int64(sub[0]), start+int64(sub[1]), string(expanded)))
		}
	})
	if err != nil {
		return nil, err
	}

	slices.Reverse(edits)
	return edits, nil
}

// eachColumn calls fn for every existing column of cols on every line, in
// position order.
func eachColumn(idx colmode.Index, cols []int, fn func(line, col int, start int64, text []byte)) error {
	for line, n := 0, idx.Len(); line < n; line++ {
		for _, col := range cols {
			start, _, err := idx.ResolveRange(line, col)
			if errors.Is(err, resolve.ErrColumnOutOfRange) {
				break
			}
			if err != nil {
				return err
			}
			text, err := idx.ColumnText(line, col)
			if err != nil {
				return err
			}
			fn(line, col, start, text)
		}
	}
	return nil
}
