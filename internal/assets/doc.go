// Package assets turns the flat asset listing reported by the backend into
// the virtual folder tree the operator browses.
//
// Nothing here is cached: EntriesAt is recomputed from the current record set
// on every query, so a refresh that replaces the records is immediately
// reflected. The package also owns the path rewrite that maps canonical
// server paths onto browser-servable URLs.
package assets
