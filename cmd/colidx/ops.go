package main

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/dshills/colstorm/internal/colmode/align"
	"github.com/dshills/colstorm/internal/colmode/colops"
	"github.com/dshills/colstorm/internal/colmode/dedup"
	"github.com/dshills/colstorm/internal/colmode/highlight"
	"github.com/dshills/colstorm/internal/colmode/search"
	"github.com/dshills/colstorm/internal/config"
	"github.com/dshills/colstorm/internal/engine"
	"github.com/dshills/colstorm/internal/engine/buffer"
)

// report is the output of one file.
type report struct {
	file string
	text string
	json string

	// jsonErr is the first JSON encoding failure. Later fields are skipped.
	jsonErr error
}

// document is one loaded file with its column index attached.
type document struct {
	path   string
	buf    *buffer.Buffer
	engine *engine.Engine
	cancel func()
}

func open(path string, settings config.Settings, logger zerolog.Logger) (*document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := buffer.NewBufferFromReader(f)
	if err != nil {
		return nil, err
	}

	e := engine.New(buf, engine.WithLogger(logger.With().Str("file", path).Logger()))
	if _, err := e.LoadAll(settings.ColumnInput()); err != nil {
		return nil, err
	}
	return &document{path: path, buf: buf, engine: e, cancel: buf.Listen(e.Notify)}, nil
}

// process runs the selected operation on one file.
func process(path string, opts options, settings config.Settings, logger zerolog.Logger) (report, error) {
	doc, err := open(path, settings, logger)
	if err != nil {
		return report{}, err
	}
	defer doc.cancel()

	r := report{file: path}
	setJSON(&r, "file", path)
	setJSON(&r, "op", opts.Op)
	setJSON(&r, "lines", doc.engine.Len())

	switch opts.Op {
	case "columns":
		err = opColumns(doc, &r)
	case "sort":
		err = opSort(doc, opts, &r)
	case "unsort-check":
		err = opUnsortCheck(doc, opts, &r)
	case "dedup":
		err = opDedup(doc, &r)
	case "align":
		err = opAlign(doc, &r)
	case "find":
		err = opFind(doc, opts, &r)
	case "highlight":
		err = opHighlight(doc, settings, &r)
	case "copy":
		err = opCopy(doc, &r)
	case "delete":
		err = opDelete(doc, &r)
	default:
		err = fmt.Errorf("unknown operation %q", opts.Op)
	}
	if err != nil {
		return report{}, err
	}
	if r.jsonErr != nil {
		return report{}, fmt.Errorf("encode json: %w", r.jsonErr)
	}
	return r, nil
}

// setJSON sets one field of the report's JSON object.
func setJSON(r *report, path string, value any) {
	if r.jsonErr != nil {
		return
	}
	out, err := sjson.Set(r.json, path, value)
	if err != nil {
		r.jsonErr = fmt.Errorf("field %s: %w", path, err)
		return
	}
	r.json = out
}

// columnRow is the JSON form of one line for -op columns.
type columnRow struct {
	Columns int           `json:"columns"`
	Ranges  []columnRange `json:"ranges"`
}

type columnRange struct {
	Column int   `json:"column"`
	Start  int64 `json:"start"`
	End    int64 `json:"end"`
}

// opColumns reports the column count and selected column ranges per line.
func opColumns(doc *document, r *report) error {
	e := doc.engine
	cols := e.Config().Columns()

	var sb strings.Builder
	rows := make([]columnRow, e.Len())
	for line, n := 0, e.Len(); line < n; line++ {
		row := columnRow{Columns: e.ColumnCount(line), Ranges: []columnRange{}}
		fmt.Fprintf(&sb, "%d: %d columns", line+1, row.Columns)

		for _, col := range cols {
			start, end, err := e.ResolveRange(line, col)
			if err != nil {
				continue
			}
			fmt.Fprintf(&sb, " c%d=[%d,%d)", col, start, end)
			row.Ranges = append(row.Ranges, columnRange{Column: col, Start: start, End: end})
		}
		sb.WriteByte('\n')
		rows[line] = row
	}
	r.text = sb.String()
	setJSON(r, "rows", rows)
	return nil
}

func direction(opts options) engine.Direction {
	if opts.Desc {
		return engine.Descending
	}
	return engine.Ascending
}

func opSort(doc *document, opts options, r *report) error {
	res, err := doc.engine.Sort(direction(opts), nil)
	if err != nil {
		return err
	}
	r.text = withNewline(doc.buf.Text())
	setJSON(r, "state", res.State.String())
	setJSON(r, "order", res.Order)
	setJSON(r, "text", doc.buf.Text())
	return nil
}

// opUnsortCheck sorts, then restores, and verifies the original text came
// back unchanged.
func opUnsortCheck(doc *document, opts options, r *report) error {
	original := doc.buf.Text()
	if _, err := doc.engine.Sort(direction(opts), nil); err != nil {
		return err
	}
	if _, err := doc.engine.Unsort(); err != nil {
		return err
	}

	restored := doc.buf.Text() == original
	setJSON(r, "restored", restored)
	if !restored {
		r.text = "unsort did not restore the original order\n"
		return fmt.Errorf("unsort did not restore the original order")
	}
	r.text = "ok\n"
	return nil
}

func opDedup(doc *document, r *report) error {
	rep, err := dedup.Find(doc.engine, nil)
	if err != nil {
		return err
	}

	var sb strings.Builder
	for _, g := range rep.Groups {
		for _, line := range g[1:] {
			fmt.Fprintf(&sb, "%d: duplicate of %d\n", line+1, g[0]+1)
		}
	}
	if rep.Count() == 0 {
		sb.WriteString("no duplicates\n")
	}
	r.text = sb.String()
	setJSON(r, "duplicates", rep.Duplicates.ToArray())
	setJSON(r, "groups", rep.Groups)
	return nil
}

func opAlign(doc *document, r *report) error {
	widths, err := align.Widths(doc.engine, 0, -1)
	if err != nil {
		return err
	}
	lines, err := align.Pad(doc.engine, 0, -1)
	if err != nil {
		return err
	}
	r.text = withNewline(strings.Join(lines, "\n"))
	setJSON(r, "widths", widths)
	setJSON(r, "text", lines)
	return nil
}

// match is the JSON form of a search match.
type match struct {
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Start  int64  `json:"start"`
	End    int64  `json:"end"`
	Text   string `json:"text"`
}

func opFind(doc *document, opts options, r *report) error {
	re, err := regexp.Compile(opts.Find)
	if err != nil {
		return err
	}
	matches, err := search.Find(doc.engine, re, nil)
	if err != nil {
		return err
	}

	var sb strings.Builder
	found := make([]match, len(matches))
	for i, m := range matches {
		fmt.Fprintf(&sb, "%s:%d:%d: %s\n", doc.path, m.Line+1, m.Column, m.Text)
		found[i] = match{Line: m.Line, Column: m.Column, Start: m.Start, End: m.End, Text: m.Text}
	}
	setJSON(r, "count", len(matches))
	setJSON(r, "matches", found)
	r.text = sb.String()
	return nil
}

// span is the JSON form of a highlighted column.
type span struct {
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Start      int64  `json:"start"`
	End        int64  `json:"end"`
	Background string `json:"background"`
}

// opHighlight reports the styled spans of the selected columns using the
// configured highlight colors.
func opHighlight(doc *document, settings config.Settings, r *report) error {
	m, err := highlight.Build(doc.engine, 0, -1, highlight.NewPalette(settings.Highlight.Colors...))
	if err != nil {
		return err
	}

	var sb strings.Builder
	var spans []span
	from, to := m.Range()
	for line := from; line < to; line++ {
		fmt.Fprintf(&sb, "%d:", line+1)
		for _, s := range m.Spans(line) {
			_, bg, _ := s.Style.Decompose()
			color := "reverse"
			if hex := bg.Hex(); hex >= 0 {
				color = fmt.Sprintf("#%06x", hex)
			}
			fmt.Fprintf(&sb, " c%d=[%d,%d) %s", s.Column, s.Start, s.End, color)
			spans = append(spans, span{Line: s.Line, Column: s.Column, Start: s.Start, End: s.End, Background: color})
		}
		sb.WriteByte('\n')
	}
	r.text = sb.String()
	setJSON(r, "spans", spans)
	return nil
}

func opCopy(doc *document, r *report) error {
	rows, err := colops.Copy(doc.engine, nil)
	if err != nil {
		return err
	}
	lines := make([]string, len(rows))
	for i, row := range rows {
		lines[i] = string(row)
	}
	r.text = withNewline(strings.Join(lines, "\n"))
	setJSON(r, "rows", lines)
	return nil
}

func opDelete(doc *document, r *report) error {
	edits, err := colops.Delete(doc.engine, nil)
	if err != nil {
		return err
	}
	if err := doc.buf.ApplyEdits(edits); err != nil {
		return err
	}
	r.text = withNewline(doc.buf.Text())
	setJSON(r, "edits", len(edits))
	setJSON(r, "text", doc.buf.Text())
	return nil
}

func withNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
