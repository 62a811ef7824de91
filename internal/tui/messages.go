package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"gallerist/internal/poller"
	"gallerist/internal/submission"
)

type snapshotMsg poller.Snapshot

type materializedMsg struct {
	result submission.Materialized
}

type confirmedMsg struct {
	result submission.Confirmed
}

type failedMsg struct {
	operation string
	err       error
}

// SnapshotSink returns a poller sink and the channel the model drains. Only
// the newest undelivered snapshot is kept, so a slow UI never blocks the
// poller.
func SnapshotSink() (func(poller.Snapshot), <-chan poller.Snapshot) {
	ch := make(chan poller.Snapshot, 1)
	sink := func(s poller.Snapshot) {
		for {
			select {
			case ch <- s:
				return
			default:
			}
			select {
			case <-ch:
			default:
			}
		}
	}
	return sink, ch
}

func waitForSnapshot(ch <-chan poller.Snapshot) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return nil
		}
		return snapshotMsg(snap)
	}
}
