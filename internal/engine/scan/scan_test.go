package scan

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/colstorm/internal/engine/column"
)

func cfg(delim, quote string) *column.Config {
	return column.MustParse(column.Input{Delimiter: delim, Quote: quote})
}

func TestLine(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		delim   string
		quote   string
		offsets []int
	}{
		{"empty", "", ",", `"`, nil},
		{"no delimiter", "abc", ",", "", nil},
		{"simple", "a,b,c", ",", "", []int{1, 3}},
		{"quoted field", `a,b,"c,d",e`, ",", `"`, []int{1, 3, 9}},
		{"quote disabled", `a,b,"c,d",e`, ",", "", []int{1, 3, 6, 9}},
		{"single quote", `'x;y';z`, ";", "'", []int{5}},
		{"unterminated quote", `a,"b,c`, ",", `"`, []int{1}},
		{"doubled quote", `"a""b",c`, ",", `"`, []int{6}},
		{"empty fields", ",,", ",", "", []int{0, 1}},
		{"tab", "a\tb", `\t`, "", []int{1}},
		{"multi byte", "a::b::c", "::", "", []int{1, 4}},
		{"multi byte overlapping run", "a:::b", "::", "", []int{1}},
		{"multi byte quoted", `a::"b::c"::d`, "::", `"`, []int{1, 9}},
		{"quote interrupts candidate", `a"x::y"::z`, "::", `"`, []int{7}},
		{"multi byte unterminated quote", `a::"b::c`, "::", `"`, []int{1}},
		{"multi byte trailing", "a::", "::", "", []int{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Line([]byte(tt.text), cfg(tt.delim, tt.quote))
			assert.Equal(t, len(tt.text), rec.Length)
			assert.Equal(t, tt.offsets, rec.Offsets)
		})
	}
}

func TestLineQuotedColumns(t *testing.T) {
	text := []byte(`a,b,"c,d",e`)
	rec := Line(text, cfg(",", `"`))

	var fields []string
	start := 0
	for _, off := range rec.Offsets {
		fields = append(fields, string(text[start:off]))
		start = off + 1
	}
	fields = append(fields, string(text[start:]))

	assert.Equal(t, []string{"a", "b", `"c,d"`, "e"}, fields)
	assert.Equal(t, 4, rec.Columns())
}

// TestLineQuoteContainment checks that no recorded offset lies between an
// opening quote and its closing quote.
func TestLineQuoteContainment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	alphabet := []byte(`ab,";:`)

	for _, delim := range []string{",", "::", ";,"} {
		c := cfg(delim, `"`)
		for n := 0; n < 500; n++ {
			text := make([]byte, rng.Intn(24))
			for i := range text {
				text[i] = alphabet[rng.Intn(len(alphabet))]
			}

			rec := Line(text, c)
			inQuotes := make([]bool, len(text))
			open := false
			for i, b := range text {
				if b == '"' {
					open = !open
					continue
				}
				inQuotes[i] = open
			}

			prev := -1
			for _, off := range rec.Offsets {
				assert.Less(t, prev, off)
				assert.Less(t, off, len(text))
				assert.False(t, inQuotes[off], "offset %d inside quotes in %q", off, text)
				assert.True(t, bytes.HasPrefix(text[off:], []byte(delim)))
				prev = off
			}
		}
	}
}
