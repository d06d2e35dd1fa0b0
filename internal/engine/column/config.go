package column

import (
	"bytes"
	"slices"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// MaxColumn bounds the column numbers accepted from user input.
const MaxColumn = 4096

// Input is the raw column-mode input as typed by the user.
type Input struct {
	// Delimiter is the separator. `\t` stands for a tab and `\\` for a backslash.
	Delimiter string

	// Quote is empty, `"` or `'`.
	Quote string

	// Columns lists 1-based column numbers and ranges, e.g. "3,1,2-4".
	// An empty list selects column 1.
	Columns string
}

// Config is a validated column-mode configuration.
type Config struct {
	delimiter []byte
	quote     byte
	hasQuote  bool

	// order keeps the user's column order, repeats included.
	order []int

	// selected is the de-duplicated set of columns in order.
	selected *bitset.BitSet
}

// Flags reports which parts of a Config changed relative to the previous one.
type Flags struct {
	DelimiterChanged bool
	QuoteCharChanged bool
	ColumnsChanged   bool
}

// NeedsRescan returns true if delimiter positions must be rediscovered.
func (f Flags) NeedsRescan() bool {
	return f.DelimiterChanged || f.QuoteCharChanged
}

// Any returns true if anything changed.
func (f Flags) Any() bool {
	return f.DelimiterChanged || f.QuoteCharChanged || f.ColumnsChanged
}

// Parse validates user input and builds a Config.
func Parse(in Input) (*Config, error) {
	delim := unescapeDelimiter(in.Delimiter)
	if len(delim) == 0 {
		return nil, &ParseError{Field: "delimiter", Input: in.Delimiter, Err: ErrEmptyDelimiter}
	}

	cfg := &Config{delimiter: delim}

	switch in.Quote {
	case "":
	case `"`, `'`:
		cfg.quote = in.Quote[0]
		cfg.hasQuote = true
	default:
		return nil, &ParseError{Field: "quote", Input: in.Quote, Err: ErrInvalidQuoteChar}
	}

	order, err := parseColumns(in.Columns)
	if err != nil {
		return nil, &ParseError{Field: "columns", Input: in.Columns, Err: err}
	}
	cfg.order = order
	cfg.selected = bitset.New(MaxColumn + 1)
	for _, c := range order {
		cfg.selected.Set(uint(c))
	}

	return cfg, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// static defaults.
func MustParse(in Input) *Config {
	cfg, err := Parse(in)
	if err != nil {
		panic(err)
	}
	return cfg
}

// WithColumns returns a copy of the config selecting a different column list.
func (c *Config) WithColumns(columns string) (*Config, error) {
	order, err := parseColumns(columns)
	if err != nil {
		return nil, &ParseError{Field: "columns", Input: columns, Err: err}
	}
	out := &Config{
		delimiter: c.delimiter,
		quote:     c.quote,
		hasQuote:  c.hasQuote,
		order:     order,
		selected:  bitset.New(MaxColumn + 1),
	}
	for _, col := range order {
		out.selected.Set(uint(col))
	}
	return out, nil
}

// Delimiter returns the delimiter bytes. The slice must not be modified.
func (c *Config) Delimiter() []byte {
	return c.delimiter
}

// Quote returns the quote character and whether one is configured.
func (c *Config) Quote() (byte, bool) {
	return c.quote, c.hasQuote
}

// Order returns the columns in the order the user typed them.
func (c *Config) Order() []int {
	return slices.Clone(c.order)
}

// Columns returns the selected columns in ascending order without repeats.
func (c *Config) Columns() []int {
	out := make([]int, 0, c.selected.Count())
	for i, ok := c.selected.NextSet(0); ok; i, ok = c.selected.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// Has returns true if column col is selected.
func (c *Config) Has(col int) bool {
	if col < 1 || col > MaxColumn {
		return false
	}
	return c.selected.Test(uint(col))
}

// Diff compares c against the previously applied config.
// A nil prev reports every part as changed.
func (c *Config) Diff(prev *Config) Flags {
	if prev == nil {
		return Flags{DelimiterChanged: true, QuoteCharChanged: true, ColumnsChanged: true}
	}
	return Flags{
		DelimiterChanged: !bytes.Equal(c.delimiter, prev.delimiter),
		QuoteCharChanged: c.hasQuote != prev.hasQuote || c.quote != prev.quote,
		ColumnsChanged:   !slices.Equal(c.order, prev.order),
	}
}

// String renders the config back into the user's notation.
func (c *Config) String() string {
	var sb strings.Builder
	sb.WriteString("delimiter=")
	sb.WriteString(strconv.Quote(string(c.delimiter)))
	if c.hasQuote {
		sb.WriteString(" quote=")
		sb.WriteString(strconv.Quote(string(c.quote)))
	}
	sb.WriteString(" columns=")
	for i, col := range c.order {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(col))
	}
	return sb.String()
}

func unescapeDelimiter(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 't':
				out = append(out, '\t')
				i++
				continue
			case '\\':
				out = append(out, '\\')
				i++
				continue
			}
		}
		out = append(out, s[i])
	}
	return out
}

func parseColumns(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) == 0 {
		return []int{1}, nil
	}

	var order []int
	for _, f := range fields {
		lo, hi, isRange := strings.Cut(f, "-")
		first, err := parseColumn(lo)
		if err != nil {
			return nil, err
		}
		if !isRange {
			order = append(order, first)
			continue
		}
		last, err := parseColumn(hi)
		if err != nil {
			return nil, err
		}
		if last < first {
			return nil, ErrInvalidColumnList
		}
		for col := first; col <= last; col++ {
			order = append(order, col)
		}
	}
	return order, nil
}

func parseColumn(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > MaxColumn {
		return 0, ErrInvalidColumnList
	}
	return n, nil
}
