package editor

// DefaultHistoryLimit bounds the undo stack when no limit is configured.
const DefaultHistoryLimit = 100

// History keeps bounded undo and redo stacks of editor states.
type History struct {
	limit int
	undo  []State
	redo  []State
}

func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Push records prev as the state before a new change. Any redo steps are
// discarded and the oldest undo step is dropped once the limit is reached.
func (h *History) Push(prev State) {
	h.redo = nil
	h.undo = append(h.undo, prev)
	if len(h.undo) > h.limit {
		h.undo = append([]State(nil), h.undo[len(h.undo)-h.limit:]...)
	}
}

// Undo returns the previous state and records current for Redo.
func (h *History) Undo(current State) (State, bool) {
	if len(h.undo) == 0 {
		return current, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// Redo re-applies the last undone state.
func (h *History) Redo(current State) (State, bool) {
	if len(h.redo) == 0 {
		return current, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
