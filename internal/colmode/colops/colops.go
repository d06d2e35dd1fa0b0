// Package colops copies and deletes whole columns.
package colops

import (
	"bytes"
	"slices"

	"github.com/dshills/colstorm/internal/colmode"
	"github.com/dshills/colstorm/internal/engine/buffer"
)

// Copy returns, for every line, the values of columns joined by the
// delimiter. Columns are taken in the given order and may repeat. A
// column the line lacks contributes an empty value. When columns is empty
// the configured column order is used.
func Copy(idx colmode.Index, columns []int) ([][]byte, error) {
	cols, err := colmode.Selection(idx, columns)
	if err != nil {
		return nil, err
	}
	delim := idx.Config().Delimiter()

	out := make([][]byte, idx.Len())
	for line, n := 0, idx.Len(); line < n; line++ {
		values, err := idx.Columns(line, cols)
		if err != nil {
			return nil, err
		}
		out[line] = bytes.Join(values, delim)
	}
	return out, nil
}

// Delete returns the edits that remove columns, each together with one
// adjacent delimiter, from every line that has them. Edits are ordered
// highest offset first, ready for buffer.ApplyEdits.
func Delete(idx colmode.Index, columns []int) ([]buffer.Edit, error) {
	cols, err := colmode.Distinct(idx, columns)
	if err != nil {
		return nil, err
	}
	delim := idx.Config().Delimiter()

	var edits []buffer.Edit
	for line, n := 0, idx.Len(); line < n; line++ {
		count := idx.ColumnCount(line)
		if !touches(cols, count) {
			continue
		}

		var kept [][]byte
		for col := 1; col <= count; col++ {
			if _, found := slices.BinarySearch(cols, col); found {
				continue
			}
			text, err := idx.ColumnText(line, col)
			if err != nil {
				return nil, err
			}
			kept = append(kept, text)
		}

		start, _, err := idx.ResolveRange(line, 1)
		if err != nil {
			return nil, err
		}
		_, end, err := idx.ResolveRange(line, count)
		if err != nil {
			return nil, err
		}
		edits = append(edits, buffer.NewReplace(start, end, string(bytes.Join(kept, delim))))
	}

	slices.Reverse(edits)
	return edits, nil
}

// touches reports whether any of the ascending cols is at most count.
func touches(cols []int, count int) bool {
	return len(cols) > 0 && cols[0] <= count
}
