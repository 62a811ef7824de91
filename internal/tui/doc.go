// Package tui renders a browsing session in the terminal with Bubble Tea.
//
// The model owns a browser.Session and is its only writer. Listing snapshots
// arrive from the poller over a channel, and submissions run as tea.Cmds whose
// results come back as messages. No goroutine other than the Bubble Tea
// update loop touches session state.
package tui
