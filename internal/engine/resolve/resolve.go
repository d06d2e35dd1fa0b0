// Package resolve maps between absolute buffer positions and logical
// columns using a line's delimiter record. It is the only place column
// boundaries are computed; consumers never derive offsets themselves.
//
// Columns are 1-based. Column 1 starts at the line start; column k > 1
// starts immediately after delimiter k-1 and ends at delimiter k, or at the
// line end for the last column. A caret sitting on a delimiter belongs to
// the column before it.
package resolve

import (
	"errors"

	"github.com/dshills/colstorm/internal/engine/lineindex"
)

// ErrColumnOutOfRange indicates the line has fewer columns than requested.
var ErrColumnOutOfRange = errors.New("column out of range")

// PositionToColumn returns the 1-based column containing absPos on the
// line starting at lineStart.
func PositionToColumn(absPos, lineStart int64, rec *lineindex.Record) int {
	for i, off := range rec.Offsets {
		if lineStart+int64(off) >= absPos {
			return i + 1
		}
	}
	return len(rec.Offsets) + 1
}

// ColumnRange returns the [start, end) byte range of column on a line.
func ColumnRange(column int, lineStart, lineEnd int64, rec *lineindex.Record, delimLen int) (start, end int64, err error) {
	if column < 1 || column > len(rec.Offsets)+1 {
		return 0, 0, ErrColumnOutOfRange
	}

	start = lineStart
	if column > 1 {
		start = lineStart + int64(rec.Offsets[column-2]+delimLen)
	}

	end = lineEnd
	if column-1 < len(rec.Offsets) {
		end = lineStart + int64(rec.Offsets[column-1])
	}
	return start, end, nil
}

// Slice returns the bytes of column within text, the line's own content.
func Slice(text []byte, column int, rec *lineindex.Record, delimLen int) ([]byte, error) {
	start, end, err := ColumnRange(column, 0, int64(len(text)), rec, delimLen)
	if err != nil {
		return nil, err
	}
	return text[start:end], nil
}
