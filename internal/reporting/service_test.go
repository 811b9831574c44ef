package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"call-scheduler/internal/calls"
)

func seed(t *testing.T, now time.Time) *calls.MemoryRepo {
	t.Helper()
	ctx := context.Background()
	repo := calls.NewMemoryRepo()
	rows := []calls.Call{
		calls.NewVoice("A", "5551111111", now.Add(-2*time.Hour)),
		calls.NewEmergency("B", "5552222222", now.Add(time.Hour), "Fire"),
		calls.NewVideo("C", "5551111111", now.Add(3*time.Hour), "Zoom").WithPriority(4),
	}
	for _, c := range rows {
		if _, err := repo.Create(ctx, c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := repo.SetStatus(ctx, 3, calls.StatusCompleted); err != nil {
		t.Fatalf("seed status: %v", err)
	}
	return repo
}

func TestSummary_AllCalls(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(seed(t, now))
	svc.clock = func() time.Time { return now }

	sum, err := svc.Summary(context.Background(), SummaryRequest{})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalCalls != 3 || sum.PendingCalls != 2 || sum.CompletedCalls != 1 || sum.MissedCalls != 0 {
		t.Fatalf("unexpected counts: %+v", sum)
	}
	if sum.OverdueCalls != 1 {
		t.Fatalf("expected 1 overdue call, got %d", sum.OverdueCalls)
	}
	if sum.ByType[calls.KindVideo] != 1 || sum.ByType[calls.KindEmergency] != 1 || sum.ByType[calls.KindVoice] != 1 {
		t.Fatalf("unexpected type counts: %v", sum.ByType)
	}
	if sum.AveragePriority != 5 {
		t.Fatalf("expected average priority 5, got %v", sum.AveragePriority)
	}
}

func TestSummary_FiltersByPhoneAndRange(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(seed(t, now))
	svc.clock = func() time.Time { return now }

	sum, err := svc.Summary(context.Background(), SummaryRequest{
		PhoneNumber: "5551111111",
		Range:       TimeRange{From: now},
	})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.TotalCalls != 1 || sum.CompletedCalls != 1 {
		t.Fatalf("unexpected filtered summary: %+v", sum)
	}
}

func TestSummary_RejectsInvalidRequests(t *testing.T) {
	svc := NewService(calls.NewMemoryRepo())
	now := time.Now()

	_, err := svc.Summary(context.Background(), SummaryRequest{Range: TimeRange{From: now, To: now}})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty range, got %v", err)
	}
	_, err = svc.Summary(context.Background(), SummaryRequest{PhoneNumber: "abc"})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for bad phone, got %v", err)
	}
}
