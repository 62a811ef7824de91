// Package browser holds the per-session state of the asset browser.
//
// Session is a single-owner reducer: every user event, refresh and backend
// response is applied through one method, and the visible items are
// recomputed from the current records on each call. Navigation tracks the
// virtual path, Selection implements the two-click range gesture as an
// explicit tagged state, and Review pages through the assets of one client
// folder. Nothing here is safe for concurrent use; callers serialize events
// the way the terminal UI's update loop does.
package browser
