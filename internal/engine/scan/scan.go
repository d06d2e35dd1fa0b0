// Package scan tokenizes a single line into delimiter offsets.
//
// Scanning is quote aware: a configured quote character toggles an
// in-quotes state and delimiter occurrences inside quotes are never
// recorded. Quote characters themselves are consumed and never count as
// part of a delimiter. The quoting rules are a deliberate heuristic, not
// RFC 4180: there are no multi-line fields and doubled quotes simply toggle
// twice.
package scan

import (
	"bytes"

	"github.com/dshills/colstorm/internal/engine/column"
	"github.com/dshills/colstorm/internal/engine/lineindex"
)

// Line scans one line of text (without its line ending) and returns its
// record. The line is not retained.
func Line(text []byte, cfg *column.Config) *lineindex.Record {
	rec := &lineindex.Record{Length: len(text)}
	if len(text) == 0 {
		return rec
	}

	delim := cfg.Delimiter()
	quote, hasQuote := cfg.Quote()
	if len(delim) == 1 {
		rec.Offsets = singleByte(text, delim[0], quote, hasQuote)
	} else {
		rec.Offsets = multiByte(text, delim, quote, hasQuote)
	}
	return rec
}

// singleByte compares every byte directly against the delimiter.
func singleByte(text []byte, delim, quote byte, hasQuote bool) []int {
	var offsets []int
	inQuotes := false
	for i, b := range text {
		if hasQuote && b == quote {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes && b == delim {
			offsets = append(offsets, i)
		}
	}
	return offsets
}

// multiByte searches for the next delimiter occurrence. A quote found
// strictly before the candidate interrupts it: scanning resumes at the
// quote, which then toggles the in-quotes state.
func multiByte(text, delim []byte, quote byte, hasQuote bool) []int {
	var offsets []int
	inQuotes := false
	i := 0
	for i < len(text) {
		if hasQuote && text[i] == quote {
			inQuotes = !inQuotes
			i++
			continue
		}

		if inQuotes {
			q := bytes.IndexByte(text[i:], quote)
			if q < 0 {
				break
			}
			i += q
			continue
		}

		d := bytes.Index(text[i:], delim)
		if d < 0 {
			break
		}
		if hasQuote {
			if q := bytes.IndexByte(text[i:i+d], quote); q >= 0 {
				i += q
				continue
			}
		}
		offsets = append(offsets, i+d)
		i += d + len(delim)
	}
	return offsets
}
