// Package engine keeps a column index consistent with a text buffer.
//
// The engine records, for every line, where the configured delimiter occurs
// outside quoted regions. It is the single source of truth for column
// geometry: highlighting, search, deduplication and column editing all ask
// the engine which column a position belongs to, or which byte range a
// column spans.
//
// # Architecture
//
// The engine is built on several sub-packages:
//
//   - column: parses the delimiter, quote character and column list
//   - scan: quote-aware delimiter scanner for a single line
//   - lineindex: ordered sequence of per-line delimiter records
//   - editlog: change log entries and translation of host notifications
//   - reconcile: two-pass application of a change log to the index
//   - resolve: position to column and column to range queries
//   - permute: sort comparison and the pre-sort line identity tracker
//   - buffer: an in-memory host buffer that emits edit notifications
//
// # Incremental Updates
//
// The host reports every text change with Notify. Notifications are
// translated into structural (insert, delete) and modify entries and queued.
// Update reconciles the queue, rescanning each touched line once. Reads
// reconcile pending entries first, so they never see a stale index.
//
//	buf := buffer.NewBufferFromString("a,b\nc,d\n")
//	e := engine.New(buf)
//	e.LoadAll(column.Input{Delimiter: ",", Columns: "1"})
//	cancel := buf.Listen(e.Notify)
//	defer cancel()
//
//	buf.Insert(0, "x,y\n")
//	line, col, _ := e.ResolveColumn(2) // line 0, column 2
//
// # Sorting
//
// Sort rewrites the host's lines through LineWriter, ordered by the selected
// columns. The engine remembers each line's original identity, so Unsort
// restores the original order even after lines were edited, inserted or
// deleted while sorted.
//
// # Thread Safety
//
// Engine is not safe for concurrent use. Drive it from the goroutine that
// owns the host buffer.
package engine
