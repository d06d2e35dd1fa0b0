// Package column holds the column-mode parameters that drive delimiter
// discovery: the delimiter byte string, the optional quote character and
// the columns the user selected.
//
// A Config is always produced by Parse from raw user Input. It is immutable
// once built; re-applying column mode builds a fresh Config and compares it
// against the previous one with Diff to decide whether the line index needs
// a full rescan:
//
//	cfg, err := column.Parse(column.Input{Delimiter: ",", Quote: `"`, Columns: "3,1"})
//	if err != nil {
//	    // errors.Is(err, column.ErrEmptyDelimiter) etc.
//	}
//	flags := cfg.Diff(prev)
//	if flags.NeedsRescan() {
//	    // rebuild every line record
//	}
//
// Selected columns are a read-time filter over already discovered
// delimiter positions, so a change that only touches the column list never
// requires a rescan.
package column
