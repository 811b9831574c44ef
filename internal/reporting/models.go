package reporting

import (
	"time"

	"call-scheduler/internal/calls"
)

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains reports whether t falls in [From, To). A zero bound is open.
func (r TimeRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && !t.Before(r.To) {
		return false
	}
	return true
}

// SummaryRequest filters the calls that are aggregated. Zero values match
// everything.
type SummaryRequest struct {
	Range       TimeRange `json:"range"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

type Summary struct {
	PhoneNumber string `json:"phone_number,omitempty"`

	TotalCalls     int `json:"total_calls"`
	PendingCalls   int `json:"pending_calls"`
	CompletedCalls int `json:"completed_calls"`
	MissedCalls    int `json:"missed_calls"`

	// OverdueCalls are pending calls whose scheduled time has passed.
	OverdueCalls int `json:"overdue_calls"`

	ByType map[calls.Kind]int `json:"by_type"`

	AveragePriority float64 `json:"average_priority"`
}
