package scheduler

import (
	"time"

	"call-scheduler/internal/calls"
)

// ActionKind tags a reversible scheduling action. Only ActionAdd has a
// producer; the other kinds are reserved.
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
)

// Action is one entry of the undo/redo journal.
type Action struct {
	ID         string     `json:"id"`
	Kind       ActionKind `json:"kind"`
	Call       calls.Call `json:"call"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// ApplyFunc applies an action (or its inverse) and returns the entry that
// should move to the opposite stack.
type ApplyFunc func(Action) (Action, error)

// ActionLog is a two-stack undo/redo journal. It never touches the store;
// the owner supplies the side effects through ApplyFunc.
// ActionLog is not safe for concurrent use.
type ActionLog struct {
	undo []Action
	redo []Action
}

// Record pushes a new action and discards the redo history.
func (l *ActionLog) Record(a Action) {
	l.undo = append(l.undo, a)
	l.redo = nil
}

// Undo applies the inverse of the most recent action. If inverse fails
// both stacks are left unchanged.
func (l *ActionLog) Undo(inverse ApplyFunc) (Action, error) {
	return move(&l.undo, &l.redo, inverse, ErrNothingToUndo)
}

// Redo re-applies the most recently undone action. If forward fails both
// stacks are left unchanged.
func (l *ActionLog) Redo(forward ApplyFunc) (Action, error) {
	return move(&l.redo, &l.undo, forward, ErrNothingToRedo)
}

func move(from, to *[]Action, apply ApplyFunc, empty error) (Action, error) {
	n := len(*from)
	if n == 0 {
		return Action{}, empty
	}
	next, err := apply((*from)[n-1])
	if err != nil {
		return Action{}, err
	}
	*from = (*from)[:n-1]
	*to = append(*to, next)
	return next, nil
}

func (l *ActionLog) UndoDepth() int { return len(l.undo) }

func (l *ActionLog) RedoDepth() int { return len(l.redo) }

func (l *ActionLog) Reset() {
	l.undo = nil
	l.redo = nil
}
