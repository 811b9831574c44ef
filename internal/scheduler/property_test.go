package scheduler

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"call-scheduler/internal/calls"

	"pgregory.net/rapid"
)

func drawCall(rt *rapid.T) calls.Call {
	phone := rapid.SampledFrom([]string{"5551111111", "5552222222", "+445553333333"}).Draw(rt, "phone")
	at := baseTime.Add(time.Duration(rapid.IntRange(1, 72).Draw(rt, "hours")) * time.Hour)
	switch rapid.IntRange(0, 2).Draw(rt, "kind") {
	case 0:
		return calls.NewVoice("V", phone, at)
	case 1:
		return calls.NewVideo("W", phone, at, "Zoom").WithPriority(rapid.IntRange(1, 10).Draw(rt, "priority"))
	default:
		return calls.NewEmergency("E", phone, at, "Medical")
	}
}

func newPropertyScheduler() *Scheduler {
	return New(calls.NewMemoryRepo(), Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:  func() time.Time { return baseTime },
	})
}

// Property 1: processing drains the queue in priority desc, time asc order.
func TestProperty1_ProcessOrder(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newPropertyScheduler()
		ctx := context.Background()
		n := rapid.IntRange(1, 20).Draw(rt, "n")
		for i := 0; i < n; i++ {
			if _, err := s.Schedule(ctx, drawCall(rt)); err != nil {
				rt.Fatalf("schedule: %v", err)
			}
		}

		var prev calls.Call
		for i := 0; i < n; i++ {
			c, ok, err := s.ProcessNext(ctx)
			if err != nil || !ok {
				rt.Fatalf("process %d: ok=%v err=%v", i, ok, err)
			}
			if i > 0 && before(c, prev) {
				rt.Fatalf("out of order: %v processed after %v", c, prev)
			}
			prev = c
		}
		if _, ok, _ := s.ProcessNext(ctx); ok {
			rt.Fatalf("queue should be empty")
		}
	})
}

// Property 2: undo followed by redo restores queue and history sizes.
func TestProperty2_UndoRedoRestoresSizes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newPropertyScheduler()
		ctx := context.Background()
		n := rapid.IntRange(1, 10).Draw(rt, "n")
		for i := 0; i < n; i++ {
			if _, err := s.Schedule(ctx, drawCall(rt)); err != nil {
				rt.Fatalf("schedule: %v", err)
			}
		}
		before := s.Stats()

		k := rapid.IntRange(1, n).Draw(rt, "undos")
		for i := 0; i < k; i++ {
			if _, err := s.Undo(ctx); err != nil {
				rt.Fatalf("undo: %v", err)
			}
		}
		mid := s.Stats()
		if mid.Pending != before.Pending-k || mid.HistoryCalls != before.HistoryCalls-k {
			rt.Fatalf("unexpected sizes after %d undos: %+v (before %+v)", k, mid, before)
		}
		for i := 0; i < k; i++ {
			if _, err := s.Redo(ctx); err != nil {
				rt.Fatalf("redo: %v", err)
			}
		}
		after := s.Stats()
		if after.Pending != before.Pending || after.HistoryCalls != before.HistoryCalls || after.UndoDepth != before.UndoDepth {
			rt.Fatalf("sizes not restored: %+v vs %+v", after, before)
		}
	})
}

// Property 3: every queued and history entry exists in the store with the
// same status.
func TestProperty3_MemoryMatchesStore(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newPropertyScheduler()
		ctx := context.Background()
		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			switch rapid.IntRange(0, 3).Draw(rt, "op") {
			case 0:
				_, _ = s.Schedule(ctx, drawCall(rt))
			case 1:
				_, _, _ = s.ProcessNext(ctx)
			case 2:
				_, _ = s.Undo(ctx)
			default:
				_, _ = s.Redo(ctx)
			}
		}

		rows, err := s.AllCalls(ctx)
		if err != nil {
			rt.Fatalf("list: %v", err)
		}
		stored := make(map[int64]calls.Call, len(rows))
		for _, r := range rows {
			stored[r.ID] = r
		}
		for _, c := range s.PendingCalls() {
			if r, ok := stored[c.ID]; !ok || r.Status != calls.StatusPending {
				rt.Fatalf("queued call %d not pending in store", c.ID)
			}
		}
		total := 0
		for _, phone := range []string{"5551111111", "5552222222", "+445553333333"} {
			for _, c := range s.History(phone) {
				total++
				if r, ok := stored[c.ID]; !ok || r.Status != c.Status {
					rt.Fatalf("history entry %d disagrees with store", c.ID)
				}
			}
		}
		if total != len(rows) {
			rt.Fatalf("history has %d entries, store has %d", total, len(rows))
		}
	})
}

// Property 4: read operations never change state.
func TestProperty4_ReadsArePure(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := newPropertyScheduler()
		ctx := context.Background()
		n := rapid.IntRange(0, 10).Draw(rt, "n")
		for i := 0; i < n; i++ {
			_, _ = s.Schedule(ctx, drawCall(rt))
		}
		st := s.Stats()
		first := s.Upcoming()
		_, _ = s.Next()
		_ = s.History("5551111111")
		_ = s.PendingCalls()
		second := s.Upcoming()

		if s.Stats() != st || len(first) != len(second) {
			rt.Fatalf("reads mutated state")
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				rt.Fatalf("upcoming order changed at %d", i)
			}
		}
	})
}
