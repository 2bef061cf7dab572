// Package history records brush dabs grouped into strokes and provides a
// linear undo/redo timeline over them. It stores brush inputs, not pixels:
// the painter materializes a position in the timeline by replaying every
// dab up to the cursor on top of the canvas snapshot.
package history

import "github.com/example/apint/internal/color"

// Dab is a single brush application in canvas coordinates.
type Dab struct {
	X, Y   int
	Color  color.Color
	Radius int
	Rough  bool
}

// Stroke collects the dabs of one gesture before it is committed.
type Stroke struct {
	dabs []Dab
}

// Push appends a dab to the stroke.
func (s *Stroke) Push(d Dab) {
	s.dabs = append(s.dabs, d)
}

// Len reports the number of dabs in the stroke.
func (s *Stroke) Len() int {
	if s == nil {
		return 0
	}
	return len(s.dabs)
}

// Dabs returns the dabs pushed so far.
func (s *Stroke) Dabs() []Dab {
	if s == nil {
		return nil
	}
	return s.dabs
}

// ActionID identifies a committed user action. The root action is 0.
type ActionID int

// Root is the empty sentinel action at the start of every timeline.
const Root ActionID = 0

const none ActionID = -1

type action struct {
	prev, next ActionID
	first, end int
}

// History is an arena of committed strokes. Actions are stored in timeline
// order; the dabs of every action occupy a contiguous range of the dab
// arena.
type History struct {
	actions []action
	dabs    []Dab
	current ActionID
}

// New returns a history holding only the root action.
func New() *History {
	h := &History{}
	h.Reset()
	return h
}

// Reset discards every action except the root.
func (h *History) Reset() {
	clear(h.dabs)
	h.actions = append(h.actions[:0], action{prev: none, next: none})
	h.dabs = h.dabs[:0]
	h.current = Root
}

// Commit links s as the action after the cursor and moves the cursor onto
// it. Every action that could have been redone is destroyed first; this
// cannot be reversed. Empty strokes are dropped and Commit reports false.
func (h *History) Commit(s *Stroke) bool {
	if s.Len() == 0 {
		return false
	}
	h.truncate()
	id := ActionID(len(h.actions))
	first := len(h.dabs)
	h.dabs = append(h.dabs, s.dabs...)
	h.actions = append(h.actions, action{prev: h.current, next: none, first: first, end: len(h.dabs)})
	h.actions[h.current].next = id
	h.current = id
	s.dabs = nil
	return true
}

// truncate frees every action after the cursor.
func (h *History) truncate() {
	keep := int(h.current) + 1
	if keep >= len(h.actions) {
		return
	}
	end := h.actions[h.current].end
	clear(h.dabs[end:])
	h.dabs = h.dabs[:end]
	clear(h.actions[keep:])
	h.actions = h.actions[:keep]
	h.actions[h.current].next = none
}

// Undo moves the cursor one action back. It reports false at the root.
func (h *History) Undo() bool {
	prev := h.actions[h.current].prev
	if prev == none {
		return false
	}
	h.current = prev
	return true
}

// Redo moves the cursor one action forward. It reports false when there is
// nothing to redo.
func (h *History) Redo() bool {
	next := h.actions[h.current].next
	if next == none {
		return false
	}
	h.current = next
	return true
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool { return h.actions[h.current].prev != none }

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool { return h.actions[h.current].next != none }

// Cursor returns the current action.
func (h *History) Cursor() ActionID { return h.current }

// Len returns the number of committed actions, excluding the root.
func (h *History) Len() int { return len(h.actions) - 1 }

// Dabs returns the number of dabs stored across all actions.
func (h *History) Dabs() int { return len(h.dabs) }

// Replay calls fn for every dab of every action from the root up to and
// including the cursor, in stroke order and then dab order.
func (h *History) Replay(fn func(Dab)) {
	for id := Root; ; {
		a := h.actions[id]
		for _, d := range h.dabs[a.first:a.end] {
			fn(d)
		}
		if id == h.current {
			return
		}
		id = a.next
	}
}
