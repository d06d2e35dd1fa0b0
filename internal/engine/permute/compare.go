package permute

import (
	"bytes"
	"cmp"
	"math"
	"slices"
	"strconv"
)

// CompareValues orders two column values. A value whose trimmed text parses
// completely as a number compares numerically and sorts before any
// non-numeric value; non-numeric values compare bytewise.
func CompareValues(a, b []byte) int {
	a = bytes.TrimSpace(a)
	b = bytes.TrimSpace(b)
	na, aNum := number(a)
	nb, bNum := number(b)

	switch {
	case aNum && bNum:
		return cmp.Compare(na, nb)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return bytes.Compare(a, b)
	}
}

// CompareKeys compares two multi-column keys column by column; ties fall
// through to the next column.
func CompareKeys(a, b [][]byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if c := CompareValues(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

// Order returns the stable sort order of keys: position i of the result is
// the index of the key that sorts i-th. Equal keys keep their relative order
// in both directions.
func Order(keys [][][]byte, dir Direction) []int {
	order := make([]int, len(keys))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(x, y int) int {
		c := CompareKeys(keys[x], keys[y])
		if dir == Descending {
			return -c
		}
		return c
	})
	return order
}

// number parses b as a plain decimal number. Spellings ParseFloat also
// accepts, such as "inf", "NaN" and hex floats, are text.
func number(b []byte) (float64, bool) {
	if len(b) == 0 {
		return 0, false
	}
	for _, c := range b {
		if !isDecimal(c) {
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func isDecimal(c byte) bool {
	return ('0' <= c && c <= '9') || c == '+' || c == '-' || c == '.' || c == 'e' || c == 'E'
}
