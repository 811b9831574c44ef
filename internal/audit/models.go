package audit

import (
	"time"

	"call-scheduler/internal/calls"
)

// Event is an immutable, append-only record of a scheduling change.
//
// Invariants:
//   - Events are never updated or deleted.
//   - CallID is the store id at the time of the event; a redone call shows up
//     with its new id.
//   - Appends are best-effort; a failed append never fails the scheduling operation.
//
// Downstream consumers (reminder e-mails, dashboards) read this feed. They
// never write back into the scheduler.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	CallID        int64        `json:"call_id"`
	ContactName   string       `json:"contact_name"`
	PhoneNumber   string       `json:"phone_number"`
	CallType      calls.Kind   `json:"call_type"`
	Priority      int          `json:"priority"`
	Status        calls.Status `json:"status"`
	ScheduledTime time.Time    `json:"scheduled_time"`
	Info          string       `json:"info,omitempty"`

	// ActionID links undo/redo events to the journal entry they moved.
	ActionID string `json:"action_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventCallScheduled EventType = "call_scheduled"
	EventCallProcessed EventType = "call_processed"
	EventCallMissed    EventType = "call_missed"
	EventActionUndone  EventType = "action_undone"
	EventActionRedone  EventType = "action_redone"
)

// FromCall copies the call fields into a new event of type t.
func FromCall(t EventType, c calls.Call, actionID string) Event {
	return Event{
		Type:          t,
		CallID:        c.ID,
		ContactName:   c.ContactName,
		PhoneNumber:   c.PhoneNumber,
		CallType:      c.Kind,
		Priority:      c.Priority,
		Status:        c.Status,
		ScheduledTime: c.ScheduledTime,
		Info:          c.Info(),
		ActionID:      actionID,
	}
}
