// Package highlight computes styled spans for the selected columns of a
// range of lines, with position lookup through an interval tree.
package highlight

import (
	"cmp"
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/rdleal/intervalst/interval"

	"github.com/dshills/colstorm/internal/colmode"
	"github.com/dshills/colstorm/internal/engine/resolve"
)

// Palette is the list of styles cycled through per selected column.
type Palette []tcell.Style

// DefaultColors are the background colors of DefaultPalette.
var DefaultColors = []string{"darkblue", "darkgreen", "darkcyan", "maroon", "purple", "olive"}

// DefaultPalette returns the palette of DefaultColors.
func DefaultPalette() Palette {
	return NewPalette(DefaultColors...)
}

// NewPalette builds a palette of background colors from color names or
// #rrggbb values. Unknown names are skipped. An empty result falls back to
// reverse video.
func NewPalette(colors ...string) Palette {
	p := make(Palette, 0, len(colors))
	for _, name := range colors {
		c := tcell.GetColor(name)
		if c == tcell.ColorDefault {
			continue
		}
		p = append(p, tcell.StyleDefault.Background(c))
	}
	if len(p) == 0 {
		p = append(p, tcell.StyleDefault.Reverse(true))
	}
	return p
}

// Style returns the style of the i-th selected column.
func (p Palette) Style(i int) tcell.Style {
	if len(p) == 0 {
		return tcell.StyleDefault
	}
	return p[i%len(p)]
}

// Span is the highlighted extent of one column on one line.
type Span struct {
	Line   int
	Column int

	// Start and End are absolute positions, End exclusive.
	Start int64
	End   int64

	Style tcell.Style
}

// Contains reports whether pos lies in the span. A position on the
// delimiter after the column belongs to the span.
func (s Span) Contains(pos int64) bool {
	return pos >= s.Start && pos <= s.End
}

// Map holds the spans of a line range.
type Map struct {
	from, to int
	lines    [][]Span
	lookup   *interval.MultiValueSearchTree[Span, int64]
}

// Build computes the spans of the selected columns for lines [from, to).
// A negative to means the last line.
func Build(idx colmode.Index, from, to int, palette Palette) (*Map, error) {
	cols, err := colmode.Distinct(idx, nil)
	if err != nil {
		return nil, err
	}
	from, to = colmode.Lines(idx, from, to)

	m := &Map{
		from:   from,
		to:     to,
		lines:  make([][]Span, to-from),
		lookup: interval.NewMultiValueSearchTreeWithOptions[Span, int64](cmp.Compare[int64], interval.TreeWithIntervalPoint()),
	}

	for line := from; line < to; line++ {
		for i, col := range cols {
			start, end, err := idx.ResolveRange(line, col)
			if errors.Is(err, resolve.ErrColumnOutOfRange) {
				break
			}
			if err != nil {
				return nil, err
			}
			span := Span{Line: line, Column: col, Start: start, End: end, Style: palette.Style(i)}
			m.lines[line-from] = append(m.lines[line-from], span)
			if err := m.lookup.Insert(start, end, span); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Range returns the line range the map covers.
func (m *Map) Range() (from, to int) {
	return m.from, m.to
}

// Spans returns the spans of a line, ordered by column.
func (m *Map) Spans(line int) []Span {
	if line < m.from || line >= m.to {
		return nil
	}
	return m.lines[line-m.from]
}

// At returns the span containing an absolute position.
func (m *Map) At(pos int64) (Span, bool) {
	spans, ok := m.lookup.AnyIntersection(pos, pos)
	if !ok {
		return Span{}, false
	}
	for _, s := range spans {
		if s.Contains(pos) {
			return s, true
		}
	}
	return Span{}, false
}
