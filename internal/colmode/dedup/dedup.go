// Package dedup finds rows whose values in the selected columns repeat an
// earlier row.
package dedup

import (
	"encoding/binary"

	"github.com/RoaringBitmap/roaring"

	"github.com/dshills/colstorm/internal/colmode"
)

// Report lists duplicate rows.
type Report struct {
	// Duplicates holds every row whose key equals an earlier row's key.
	Duplicates *roaring.Bitmap

	// Groups lists the rows of each repeated key, first occurrence first.
	// Groups are ordered by their first row.
	Groups [][]int
}

// Count returns the number of duplicate rows.
func (r Report) Count() int {
	return int(r.Duplicates.GetCardinality())
}

// Find groups the rows of idx by their values in columns, taken in the
// given order. Rows lacking a column use an empty value for it. When
// columns is empty the configured columns are used.
func Find(idx colmode.Index, columns []int) (Report, error) {
	cols, err := colmode.Selection(idx, columns)
	if err != nil {
		return Report{}, err
	}

	report := Report{Duplicates: roaring.New()}
	groups := make(map[string]int)
	var members [][]int

	for line, n := 0, idx.Len(); line < n; line++ {
		values, err := idx.Columns(line, cols)
		if err != nil {
			return Report{}, err
		}
		k := key(values)
		g, seen := groups[k]
		if !seen {
			groups[k] = len(members)
			members = append(members, []int{line})
			continue
		}
		members[g] = append(members[g], line)
		report.Duplicates.Add(uint32(line))
	}

	for _, m := range members {
		if len(m) > 1 {
			report.Groups = append(report.Groups, m)
		}
	}
	return report, nil
}

// key encodes values with length prefixes so that no two value lists
// share a key.
func key(values [][]byte) string {
	var buf []byte
	for _, v := range values {
		buf = binary.AppendUvarint(buf, uint64(len(v)))
		buf = append(buf, v...)
	}
	return string(buf)
}
