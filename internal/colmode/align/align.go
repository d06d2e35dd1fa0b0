// Package align lays out columns visually, padding each column to the
// widest value it holds over a range of lines. Widths are display widths,
// so wide and combining characters line up in a terminal.
package align

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/dshills/colstorm/internal/colmode"
)

// Widths returns the display width of every column over lines [from, to).
// Element i is the width of column i+1. A negative to means the last line.
func Widths(idx colmode.Index, from, to int) ([]int, error) {
	if idx.Config() == nil {
		return nil, colmode.ErrNotLoaded
	}
	from, to = colmode.Lines(idx, from, to)

	var widths []int
	for line := from; line < to; line++ {
		for col := 1; col <= idx.ColumnCount(line); col++ {
			text, err := idx.ColumnText(line, col)
			if err != nil {
				return nil, err
			}
			if col > len(widths) {
				widths = append(widths, 0)
			}
			widths[col-1] = max(widths[col-1], uniseg.StringWidth(string(text)))
		}
	}
	return widths, nil
}

// Pad returns lines [from, to) with every column but a line's last padded
// with spaces to the column's width, joined by the delimiter.
func Pad(idx colmode.Index, from, to int) ([]string, error) {
	widths, err := Widths(idx, from, to)
	if err != nil {
		return nil, err
	}
	from, to = colmode.Lines(idx, from, to)
	delim := string(idx.Config().Delimiter())

	out := make([]string, 0, to-from)
	var sb strings.Builder
	for line := from; line < to; line++ {
		sb.Reset()
		count := idx.ColumnCount(line)
		for col := 1; col <= count; col++ {
			text, err := idx.ColumnText(line, col)
			if err != nil {
				return nil, err
			}
			s := string(text)
			sb.WriteString(s)
			if col < count {
				sb.WriteString(strings.Repeat(" ", widths[col-1]-uniseg.StringWidth(s)))
				sb.WriteString(delim)
			}
		}
		out = append(out, sb.String())
	}
	return out, nil
}
