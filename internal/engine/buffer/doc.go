// Package buffer provides a thread-safe, line-addressed text buffer that
// reports every edit to its listeners.
//
// The buffer stores its text as a string together with a table of line
// start offsets. Line endings are normalized to LF when text enters the
// buffer. It is the host the column engine indexes in tests, benchmarks
// and the colidx command.
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("a,b\nc,d")
//	cancel := buf.Listen(func(n editlog.Notification) {
//	    // n describes one insertion or deletion, after it was applied
//	})
//	defer cancel()
//
//	buf.Insert(0, "x,y\n") // "x,y\na,b\nc,d"
//	buf.Delete(0, 4)       // "a,b\nc,d"
//
// Replace and ApplyEdits are reported as a deletion followed by an
// insertion. Each notification is delivered right after its own mutation,
// with no lock held, so listeners may read the buffer.
package buffer
