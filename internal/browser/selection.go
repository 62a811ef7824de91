package browser

import (
	"fmt"
	"slices"
)

// SelectionState is the tag of a Selection.
type SelectionState int

const (
	Idle SelectionState = iota
	FirstPicked
	Finalized
)

func (s SelectionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case FirstPicked:
		return "first-picked"
	case Finalized:
		return "finalized"
	default:
		return fmt.Sprintf("SelectionState(%d)", int(s))
	}
}

// Selection is the two-click range gesture over the visible leaves. The zero
// value is Idle.
type Selection struct {
	state SelectionState
	first string
	rng   []string
}

func (s Selection) State() SelectionState { return s.state }

// Anchor returns the first pick while in FirstPicked.
func (s Selection) Anchor() string {
	if s.state != FirstPicked {
		return ""
	}
	return s.first
}

// Range returns the finalized paths in display order.
func (s Selection) Range() []string {
	if s.state != Finalized {
		return nil
	}
	return slices.Clone(s.rng)
}

// Contains reports whether path is highlighted.
func (s Selection) Contains(path string) bool {
	switch s.state {
	case FirstPicked:
		return s.first == path
	case Finalized:
		return slices.Contains(s.rng, path)
	default:
		return false
	}
}

// Click applies one click on path. visible is the current folder's leaf list
// in display order; a path outside it is rejected and the state is kept.
//
//	Idle           --click(p)--> FirstPicked(p)
//	FirstPicked(a) --click(b)--> Finalized(visible[min(ia,ib) : max(ia,ib)+1])
//	Finalized      --click(c)--> FirstPicked(c)
func (s Selection) Click(path string, visible []string) (Selection, error) {
	idx := slices.Index(visible, path)
	if idx < 0 {
		return s, fmt.Errorf("%w: %s", ErrNotVisible, path)
	}
	switch s.state {
	case Idle, Finalized:
		return Selection{state: FirstPicked, first: path}, nil
	case FirstPicked:
		anchor := slices.Index(visible, s.first)
		if anchor < 0 {
			// The anchor vanished in a refresh; restart from this click.
			return Selection{state: FirstPicked, first: path}, nil
		}
		lo, hi := min(anchor, idx), max(anchor, idx)
		return Selection{state: Finalized, rng: slices.Clone(visible[lo : hi+1])}, nil
	default:
		panic(fmt.Sprintf("browser: unhandled selection state %v", s.state))
	}
}
