// Package logs reads back the JSON log file written by internal/logging.
//
// Tail returns the newest lines (or the lines after a saved offset) and can
// block briefly waiting for more, which is how `gallerist logs --follow`
// streams a running browser session from a second terminal. Entries are
// parsed leniently so console-format lines still pass through unfiltered.
package logs
