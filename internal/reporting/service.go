package reporting

import (
	"context"
	"errors"
	"time"

	"call-scheduler/internal/calls"
)

var ErrInvalidRequest = errors.New("reporting: invalid request")

// Repository abstracts data access for reporting. calls.Repository
// satisfies it; reports always read the store, never scheduler memory.
type Repository interface {
	ListAll(ctx context.Context) ([]calls.Call, error)
}

type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service { return &Service{repo: repo, clock: time.Now} }

func (s *Service) Summary(ctx context.Context, req SummaryRequest) (Summary, error) {
	if !req.Range.From.IsZero() && !req.Range.To.IsZero() && !req.Range.To.After(req.Range.From) {
		return Summary{}, ErrInvalidRequest
	}
	if req.PhoneNumber != "" && !calls.ValidatePhone(req.PhoneNumber) {
		return Summary{}, ErrInvalidRequest
	}
	if s.repo == nil {
		return Summary{}, errors.New("reporting: repository not configured")
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	now := s.clock()
	out := Summary{PhoneNumber: req.PhoneNumber, ByType: map[calls.Kind]int{}}
	prioritySum := 0
	for _, c := range rows {
		if req.PhoneNumber != "" && c.PhoneNumber != req.PhoneNumber {
			continue
		}
		if !req.Range.Contains(c.ScheduledTime) {
			continue
		}
		out.TotalCalls++
		out.ByType[c.Kind]++
		prioritySum += c.Priority
		switch c.Status {
		case calls.StatusPending:
			out.PendingCalls++
			if !c.ScheduledTime.After(now) {
				out.OverdueCalls++
			}
		case calls.StatusCompleted:
			out.CompletedCalls++
		case calls.StatusMissed:
			out.MissedCalls++
		}
	}
	if out.TotalCalls > 0 {
		out.AveragePriority = float64(prioritySum) / float64(out.TotalCalls)
	}
	return out, nil
}
