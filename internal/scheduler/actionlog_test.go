package scheduler

import (
	"errors"
	"testing"
)

func TestActionLog_FailedApplyLeavesStacks(t *testing.T) {
	var l ActionLog
	l.Record(Action{ID: "a1", Kind: ActionAdd})

	boom := errors.New("boom")
	if _, err := l.Undo(func(a Action) (Action, error) { return Action{}, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected apply error, got %v", err)
	}
	if l.UndoDepth() != 1 || l.RedoDepth() != 0 {
		t.Fatalf("stacks changed: undo=%d redo=%d", l.UndoDepth(), l.RedoDepth())
	}
}

func TestActionLog_MovesUpdatedEntry(t *testing.T) {
	var l ActionLog
	l.Record(Action{ID: "a1", Kind: ActionAdd})

	_, err := l.Undo(func(a Action) (Action, error) {
		a.Call.ContactName = "snapshot"
		return a, nil
	})
	if err != nil {
		t.Fatalf("undo: %v", err)
	}
	got, err := l.Redo(func(a Action) (Action, error) { return a, nil })
	if err != nil {
		t.Fatalf("redo: %v", err)
	}
	if got.ID != "a1" || got.Call.ContactName != "snapshot" {
		t.Fatalf("unexpected entry: %+v", got)
	}
}

func TestActionLog_RecordClearsRedo(t *testing.T) {
	var l ActionLog
	l.Record(Action{ID: "a1"})
	identity := func(a Action) (Action, error) { return a, nil }
	if _, err := l.Undo(identity); err != nil {
		t.Fatalf("undo: %v", err)
	}
	l.Record(Action{ID: "a2"})
	if l.RedoDepth() != 0 {
		t.Fatalf("expected redo cleared")
	}
	if _, err := l.Redo(identity); !IsEmptyLog(err) {
		t.Fatalf("expected empty log error, got %v", err)
	}
}
