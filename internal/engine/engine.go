package engine

import (
	"slices"
	"sort"

	"github.com/RoaringBitmap/roaring"
	"github.com/rs/zerolog"

	"github.com/dshills/colstorm/internal/engine/column"
	"github.com/dshills/colstorm/internal/engine/editlog"
	"github.com/dshills/colstorm/internal/engine/lineindex"
	"github.com/dshills/colstorm/internal/engine/permute"
	"github.com/dshills/colstorm/internal/engine/reconcile"
	"github.com/dshills/colstorm/internal/engine/resolve"
)

// Re-export commonly used types for convenience.
type (
	// Record is the delimiter record of one line.
	Record = lineindex.Record

	// Direction is a sort direction.
	Direction = permute.Direction

	// SortState is the document's sort state.
	SortState = permute.State
)

// Re-export constants.
const (
	Ascending  = permute.Ascending
	Descending = permute.Descending

	Unsorted         = permute.Unsorted
	SortedAscending  = permute.SortedAscending
	SortedDescending = permute.SortedDescending
)

// Host is the text buffer the index is kept consistent with.
// LineText returns the line without its line ending.
type Host interface {
	LineCount() int
	LineText(line int) []byte
	LineStartPosition(line int) int64
}

// LineWriter is implemented by hosts that can rewrite every line at once.
// Sort and Unsort require it.
type LineWriter interface {
	ReplaceLines(lines [][]byte) error
}

// Changes describes what an index update touched, so the caller can decide
// what to repaint or re-highlight.
type Changes struct {
	// Lines holds the lines whose records were rebuilt, in post-update numbering.
	Lines *roaring.Bitmap

	// Inserted and Deleted count structural line changes.
	Inserted int
	Deleted  int

	// Clamped counts malformed log entries that were trimmed or dropped.
	Clamped int

	// FullRescan is set when every line was rescanned.
	FullRescan bool

	// Resynced is set when the index disagreed with the host line count
	// after reconciliation and was rebuilt.
	Resynced bool

	// ColumnsChanged is set when only the selected columns changed.
	ColumnsChanged bool
}

// Empty returns true if nothing changed.
func (c Changes) Empty() bool {
	return (c.Lines == nil || c.Lines.IsEmpty()) && c.Inserted == 0 && c.Deleted == 0 &&
		!c.FullRescan && !c.ColumnsChanged
}

// SortResult describes an applied sort request.
type SortResult struct {
	// Order maps new line i to the line it came from.
	Order []int

	// State is the sort state after the request.
	State SortState

	// Restored is set when the request toggled back to the original order.
	Restored bool
}

// Engine owns the column index of one host buffer: the line records, the
// column configuration, the pending edit log and the sort permutation.
// Consumers only read through its resolver methods.
//
// Engine is not safe for concurrent use. Every call is expected on the
// goroutine that delivers the host's edit notifications.
type Engine struct {
	host   Host
	cfg    *column.Config
	index  *lineindex.Index
	perm   *permute.Tracker
	log    editlog.Log
	logger zerolog.Logger

	// rewriting suppresses notifications caused by the engine's own sort writes.
	rewriting bool
}

// New creates an Engine for host. If WithConfig is given the index is
// built immediately.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:   host,
		index:  lineindex.New(),
		perm:   permute.NewTracker(),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.cfg != nil {
		e.rescan()
	}
	return e
}

// Config returns the active column configuration, or nil before loading.
func (e *Engine) Config() *column.Config {
	return e.cfg
}

// Loaded returns true once a configuration was applied.
func (e *Engine) Loaded() bool {
	return e.cfg != nil
}

// Len returns the number of indexed lines.
func (e *Engine) Len() int {
	return e.index.Len()
}

// Pending returns the number of queued log entries.
func (e *Engine) Pending() int {
	return e.log.Len()
}

// SortState returns the document's sort state.
func (e *Engine) SortState() SortState {
	return e.perm.State()
}

// Configuration

// LoadAll parses in and forces a full rescan. On error the index and the
// active configuration are left untouched.
func (e *Engine) LoadAll(in column.Input) (Changes, error) {
	cfg, err := column.Parse(in)
	if err != nil {
		return Changes{}, err
	}
	e.cfg = cfg
	return e.rescan(), nil
}

// Apply parses in and rescans only if the delimiter or quote changed, or
// the index is empty. A change of the selected columns alone is reported
// through Changes.ColumnsChanged without touching any record.
func (e *Engine) Apply(in column.Input) (Changes, error) {
	cfg, err := column.Parse(in)
	if err != nil {
		return Changes{}, err
	}

	flags := cfg.Diff(e.cfg)
	e.cfg = cfg
	if flags.NeedsRescan() || e.index.IsEmpty() {
		return e.rescan(), nil
	}
	return Changes{Lines: roaring.New(), ColumnsChanged: flags.ColumnsChanged}, nil
}

// rescan rebuilds every record and drops the pending log. While sorted,
// the log's structural entries are applied first so the permutation keeps
// following the host's lines.
func (e *Engine) rescan() Changes {
	if e.perm.Active() && e.log.Len() > 0 {
		reconcile.Reconcile(e.log.Drain(), e.index, e.perm, e.host, e.cfg)
	}
	e.log.Discard()
	reconcile.Rescan(e.index, e.host, e.cfg)

	if count := e.host.LineCount(); e.perm.Active() && e.perm.Len() != count {
		e.logger.Warn().
			Int("permutation", e.perm.Len()).
			Int("host", count).
			Msg("sort permutation lost, document is now unsorted")
		e.perm.Reset()
	}

	lines := roaring.New()
	lines.AddRange(0, uint64(e.index.Len()))

	e.logger.Debug().
		Int("lines", e.index.Len()).
		Str("config", e.cfg.String()).
		Msg("column index rescanned")

	return Changes{Lines: lines, FullRescan: true}
}

// Incremental updates

// Notify translates a host edit notification into log entries and queues
// them. Notifications are ignored before loading and while the engine
// rewrites the host itself.
func (e *Engine) Notify(n editlog.Notification) {
	if e.cfg == nil || e.rewriting {
		return
	}
	e.log.Push(editlog.Translate(n, e.locator())...)
}

// UpdateLog queues entries and reconciles.
func (e *Engine) UpdateLog(entries []editlog.Entry) Changes {
	if e.cfg == nil {
		return Changes{Lines: roaring.New()}
	}
	e.log.Push(entries...)
	return e.Update()
}

// Update reconciles every queued log entry into the index.
func (e *Engine) Update() Changes {
	if e.cfg == nil {
		e.log.Discard()
		return Changes{Lines: roaring.New()}
	}
	if e.index.IsEmpty() {
		return e.rescan()
	}

	res := reconcile.Reconcile(e.log.Drain(), e.index, e.perm, e.host, e.cfg)
	changes := Changes{
		Lines:    res.Scanned,
		Inserted: res.Inserted,
		Deleted:  res.Deleted,
		Clamped:  res.Clamped,
	}

	if count := e.host.LineCount(); e.index.Len() != count {
		e.logger.Warn().
			Int("index", e.index.Len()).
			Int("host", count).
			Msg("line count mismatch after reconcile, rescanning")

		full := e.rescan()
		changes.Lines = full.Lines
		changes.FullRescan = true
		changes.Resynced = true
	}
	return changes
}

// sync applies queued entries so reads never observe a stale index.
func (e *Engine) sync() {
	if e.log.Len() > 0 {
		e.Update()
	}
}

// Resolver

// LineFromPosition returns the line containing an absolute position,
// using binary search over the host's line starts.
func (e *Engine) LineFromPosition(pos int64) int {
	if loc, ok := e.host.(editlog.Locator); ok {
		return loc.LineFromPosition(pos)
	}
	count := e.host.LineCount()
	i := sort.Search(count, func(i int) bool {
		return e.host.LineStartPosition(i) > pos
	})
	return max(0, i-1)
}

// LineStartPosition forwards to the host.
func (e *Engine) LineStartPosition(line int) int64 {
	return e.host.LineStartPosition(line)
}

func (e *Engine) locator() editlog.Locator {
	if loc, ok := e.host.(editlog.Locator); ok {
		return loc
	}
	return e
}

// record returns the synced record of line.
func (e *Engine) record(line int) (*lineindex.Record, error) {
	if e.cfg == nil {
		return nil, ErrNotLoaded
	}
	e.sync()
	rec := e.index.At(line)
	if rec == nil {
		return nil, ErrLineOutOfRange
	}
	return rec, nil
}

// Record returns a copy of a line's delimiter record.
func (e *Engine) Record(line int) (Record, error) {
	rec, err := e.record(line)
	if err != nil {
		return Record{}, err
	}
	return Record{Length: rec.Length, Offsets: slices.Clone(rec.Offsets)}, nil
}

// ColumnCount returns the number of columns on a line, or 0 if the line
// is out of range.
func (e *Engine) ColumnCount(line int) int {
	rec, err := e.record(line)
	if err != nil {
		return 0
	}
	return rec.Columns()
}

// ResolveColumn maps an absolute position to its line and 1-based column.
func (e *Engine) ResolveColumn(pos int64) (line, col int, err error) {
	if e.cfg == nil {
		return 0, 0, ErrNotLoaded
	}
	if pos < 0 {
		return 0, 0, ErrPositionOutOfRange
	}
	e.sync()

	line = e.LineFromPosition(pos)
	rec, err := e.record(line)
	if err != nil {
		return 0, 0, err
	}
	start := e.host.LineStartPosition(line)
	if pos > start+int64(rec.Length) {
		return 0, 0, ErrPositionOutOfRange
	}
	return line, resolve.PositionToColumn(pos, start, rec), nil
}

// ResolveRange returns the absolute [start, end) range of a column.
// It returns resolve.ErrColumnOutOfRange if the line has fewer columns.
func (e *Engine) ResolveRange(line, col int) (start, end int64, err error) {
	rec, err := e.record(line)
	if err != nil {
		return 0, 0, err
	}
	lineStart := e.host.LineStartPosition(line)
	return resolve.ColumnRange(col, lineStart, lineStart+int64(rec.Length), rec, len(e.cfg.Delimiter()))
}

// ColumnText returns the bytes of a column on a line.
func (e *Engine) ColumnText(line, col int) ([]byte, error) {
	rec, err := e.record(line)
	if err != nil {
		return nil, err
	}
	return resolve.Slice(e.host.LineText(line), col, rec, len(e.cfg.Delimiter()))
}

// Columns returns the values of cols on a line, in the given order. A
// column the line lacks yields an empty value.
func (e *Engine) Columns(line int, cols []int) ([][]byte, error) {
	rec, err := e.record(line)
	if err != nil {
		return nil, err
	}
	text := e.host.LineText(line)
	dlen := len(e.cfg.Delimiter())

	values := make([][]byte, len(cols))
	for i, c := range cols {
		v, err := resolve.Slice(text, c, rec, dlen)
		if err != nil {
			continue
		}
		values[i] = v
	}
	return values, nil
}
