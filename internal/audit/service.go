package audit

import (
	"context"
	"errors"
	"time"

	"call-scheduler/internal/calls"

	"github.com/google/uuid"
)

// Repository is the persistence contract for events.
//
// It MUST be append-only.
// No Update/Delete methods are provided by design.
type Repository interface {
	Append(ctx context.Context, e Event) error
	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]Event, error)
}

const (
	defaultRecentLimit = 50
	maxRecentLimit     = 500
)

// Service stamps and appends scheduling events.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" || e.CallID <= 0 {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends an event describing c.
func (s *Service) Record(ctx context.Context, t EventType, c calls.Call, actionID string) error {
	return s.Append(ctx, FromCall(t, c, actionID))
}

// Recent returns the newest events. limit is clamped to [1, 500]; zero
// means the default of 50.
func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	return s.repo.Recent(ctx, limit)
}
