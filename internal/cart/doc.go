// Package cart keeps the operator's ordered, deduplicated list of chosen
// assets.
//
// Cart is the in-memory view shared by the gallery and review screens; it
// outlives navigation and refreshes and is only emptied by a successful
// confirmation or an explicit order cancel. Store persists the same entries
// in SQLite so an unfinished order survives restarts, and holds an exclusive
// lock on the state directory so two sessions never share one cart.
package cart
