package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"call-scheduler/internal/audit"
	"call-scheduler/internal/calls"

	"github.com/google/uuid"
)

// EventSink receives best-effort notifications about scheduling changes.
// audit.Service implements it.
type EventSink interface {
	Record(ctx context.Context, t audit.EventType, c calls.Call, actionID string) error
}

// Options configures a Scheduler. Every field is optional.
type Options struct {
	Logger *slog.Logger
	// Clock defaults to time.Now.
	Clock  func() time.Time
	Events EventSink
}

// Scheduler owns the pending queue, the per-phone history and the undo/redo
// journal, and keeps them consistent with the store.
//
// Every mutation persists first and touches the in-memory structures only
// after the store call succeeded. Callers only ever receive copies.
type Scheduler struct {
	mu sync.RWMutex

	repo   calls.Repository
	events EventSink
	log    *slog.Logger
	clock  func() time.Time

	queue   pendingQueue
	history historyIndex
	actions ActionLog
}

// New returns an empty scheduler over repo. Call Initialize to load stored calls.
func New(repo calls.Repository, opts Options) *Scheduler {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Scheduler{
		repo:    repo,
		events:  opts.Events,
		log:     opts.Logger,
		clock:   opts.Clock,
		history: historyIndex{},
	}
}

// Initialize replaces the in-memory state with the store contents and
// returns the number of pending calls loaded. On a store failure the
// scheduler is left empty and the error is returned.
func (s *Scheduler) Initialize(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue.reset()
	s.history = historyIndex{}
	s.actions.Reset()

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		s.log.Warn("load calls failed, starting empty", "err", err)
		return 0, err
	}
	for _, c := range rows {
		if c.IsPending() {
			s.queue.push(c)
		}
		s.history.add(c)
	}
	s.log.Info("calls loaded", "total", len(rows), "pending", s.queue.len())
	return s.queue.len(), nil
}

func (s *Scheduler) validate(c calls.Call) error {
	if !c.ScheduledTime.After(s.clock()) {
		return &ScheduleError{Field: "scheduled_time", Err: ErrPastSchedule}
	}
	if !calls.ValidatePhone(c.PhoneNumber) {
		return &ScheduleError{Field: "phone_number", Err: ErrInvalidPhone}
	}
	if c.Priority < calls.MinPriority || c.Priority > calls.MaxPriority {
		return &ScheduleError{Field: "priority", Err: ErrInvalidPriority}
	}
	if !c.Kind.Valid() {
		return &ScheduleError{Field: "call_type", Err: ErrUnknownKind}
	}
	return nil
}

// persist validates c, stores it and indexes the stored copy. Caller holds
// the write lock.
func (s *Scheduler) persist(ctx context.Context, c calls.Call) (calls.Call, error) {
	if err := s.validate(c); err != nil {
		return calls.Call{}, err
	}
	if c.Status == "" {
		c.Status = calls.StatusPending
	}
	c.ID = 0
	id, err := s.repo.Create(ctx, c)
	if err != nil {
		return calls.Call{}, err
	}
	c.ID = id
	if c.IsPending() {
		s.queue.push(c)
	}
	s.history.add(c)
	return c, nil
}

// Schedule validates and persists c, then makes it undoable.
// The returned call carries the store-assigned ID.
func (s *Scheduler) Schedule(ctx context.Context, c calls.Call) (calls.Call, error) {
	s.mu.Lock()
	stored, err := s.persist(ctx, c)
	var a Action
	if err == nil {
		a = Action{ID: uuid.NewString(), Kind: ActionAdd, Call: stored, RecordedAt: s.clock().UTC()}
		s.actions.Record(a)
	}
	s.mu.Unlock()

	if err != nil {
		return calls.Call{}, err
	}
	s.log.Info("call scheduled", "call_id", stored.ID, "phone", stored.PhoneNumber, "priority", stored.Priority)
	s.emit(ctx, audit.EventCallScheduled, stored, a.ID)
	return stored, nil
}

// Next returns the head of the queue without removing it.
func (s *Scheduler) Next() (calls.Call, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.queue.peek()
	if !ok || !c.IsPending() {
		return calls.Call{}, false
	}
	return c, true
}

// ProcessNext completes the head of the queue. It reports false when there
// is nothing pending. If the store update fails the call stays queued.
func (s *Scheduler) ProcessNext(ctx context.Context) (calls.Call, bool, error) {
	s.mu.Lock()
	c, ok := s.queue.peek()
	if !ok || !c.IsPending() {
		s.mu.Unlock()
		return calls.Call{}, false, nil
	}
	c, _ = s.queue.pop()
	if err := s.repo.SetStatus(ctx, c.ID, calls.StatusCompleted); err != nil {
		s.queue.push(c)
		s.mu.Unlock()
		return calls.Call{}, false, err
	}
	c.Status = calls.StatusCompleted
	s.history.setStatus(c.PhoneNumber, c.ID, c.Status)
	s.mu.Unlock()

	s.log.Info("call processed", "call_id", c.ID, "phone", c.PhoneNumber)
	s.emit(ctx, audit.EventCallProcessed, c, "")
	return c, true, nil
}

// Upcoming returns pending calls scheduled after now, earliest first.
func (s *Scheduler) Upcoming() []calls.Call {
	now := s.clock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.snapshot(func(c calls.Call) bool {
		return c.IsPending() && c.ScheduledTime.After(now)
	})
}

// PendingCalls returns every queued pending call, earliest first, including
// overdue ones.
func (s *Scheduler) PendingCalls() []calls.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.snapshot(calls.Call.IsPending)
}

// History returns every call scheduled for phone, newest first.
func (s *Scheduler) History(phone string) []calls.Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.list(phone)
}

// AllCalls reads every row straight from the store.
func (s *Scheduler) AllCalls(ctx context.Context) ([]calls.Call, error) {
	return s.repo.ListAll(ctx)
}

// Undo reverts the most recent action. The returned action carries the call
// as it was just before removal.
func (s *Scheduler) Undo(ctx context.Context) (Action, error) {
	s.mu.Lock()
	a, err := s.actions.Undo(func(a Action) (Action, error) {
		return s.revert(ctx, a)
	})
	s.mu.Unlock()

	if err != nil {
		return Action{}, err
	}
	s.log.Info("action undone", "action_id", a.ID, "call_id", a.Call.ID)
	s.emit(ctx, audit.EventActionUndone, a.Call, a.ID)
	return a, nil
}

// Redo re-applies the most recently undone action. The call is validated
// again and stored under a new ID.
func (s *Scheduler) Redo(ctx context.Context) (Action, error) {
	s.mu.Lock()
	a, err := s.actions.Redo(func(a Action) (Action, error) {
		return s.apply(ctx, a)
	})
	s.mu.Unlock()

	if err != nil {
		return Action{}, err
	}
	s.log.Info("action redone", "action_id", a.ID, "call_id", a.Call.ID)
	s.emit(ctx, audit.EventActionRedone, a.Call, a.ID)
	return a, nil
}

func (s *Scheduler) revert(ctx context.Context, a Action) (Action, error) {
	if a.Kind != ActionAdd {
		return a, nil
	}
	c := a.Call
	if latest, ok := s.history.get(c.PhoneNumber, c.ID); ok {
		c = latest
	}
	if err := s.repo.Delete(ctx, c.ID); err != nil {
		if !errors.Is(err, calls.ErrNotFound) {
			return Action{}, err
		}
		// Row removed behind our back; drop the in-memory copy anyway.
		s.log.Warn("undo: call already gone from store", "call_id", c.ID)
	}
	s.queue.remove(c.ID)
	s.history.remove(c.PhoneNumber, c.ID)
	a.Call = c
	return a, nil
}

func (s *Scheduler) apply(ctx context.Context, a Action) (Action, error) {
	if a.Kind != ActionAdd {
		return a, nil
	}
	stored, err := s.persist(ctx, a.Call)
	if err != nil {
		return Action{}, err
	}
	a.Call = stored
	return a, nil
}

// MarkOverdueMissed marks pending calls whose scheduled time plus grace has
// passed as missed. It stops at the first store failure and returns the
// calls marked so far together with the error.
func (s *Scheduler) MarkOverdueMissed(ctx context.Context, grace time.Duration) ([]calls.Call, error) {
	cutoff := s.clock().Add(-grace)

	s.mu.Lock()
	overdue := s.queue.snapshot(func(c calls.Call) bool {
		return c.IsPending() && c.ScheduledTime.Before(cutoff)
	})
	marked := make([]calls.Call, 0, len(overdue))
	var err error
	for _, c := range overdue {
		if err = s.repo.SetStatus(ctx, c.ID, calls.StatusMissed); err != nil {
			break
		}
		s.queue.remove(c.ID)
		c.Status = calls.StatusMissed
		s.history.setStatus(c.PhoneNumber, c.ID, c.Status)
		marked = append(marked, c)
	}
	s.mu.Unlock()

	for _, c := range marked {
		s.emit(ctx, audit.EventCallMissed, c, "")
	}
	if len(marked) > 0 {
		s.log.Info("overdue calls marked missed", "count", len(marked))
	}
	return marked, err
}

// Stats is a point-in-time size report of the in-memory state.
type Stats struct {
	Pending       int `json:"pending"`
	HistoryPhones int `json:"history_phones"`
	HistoryCalls  int `json:"history_calls"`
	UndoDepth     int `json:"undo_depth"`
	RedoDepth     int `json:"redo_depth"`
}

// Stats reports queue, history and journal sizes.
func (s *Scheduler) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		Pending:       s.queue.len(),
		HistoryPhones: len(s.history),
		HistoryCalls:  s.history.size(),
		UndoDepth:     s.actions.UndoDepth(),
		RedoDepth:     s.actions.RedoDepth(),
	}
}

func (s *Scheduler) emit(ctx context.Context, t audit.EventType, c calls.Call, actionID string) {
	if s.events == nil {
		return
	}
	if err := s.events.Record(ctx, t, c, actionID); err != nil {
		s.log.Warn("event append failed", "type", t, "call_id", c.ID, "err", err)
	}
}
