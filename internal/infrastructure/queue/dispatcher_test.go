package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorny/user-api/internal/core/ports"
)

type recordingAuditService struct {
	mu     sync.Mutex
	events []ports.AuditEventInput
	done   chan struct{}
	want   int
}

func newRecordingAuditService(want int) *recordingAuditService {
	return &recordingAuditService{done: make(chan struct{}), want: want}
}

func (s *recordingAuditService) Record(_ context.Context, in ports.AuditEventInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, in)
	if len(s.events) == s.want {
		close(s.done)
	}
	return nil
}

func (s *recordingAuditService) wait(t *testing.T) []ports.AuditEventInput {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %d events", s.want)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.AuditEventInput(nil), s.events...)
}

func TestDispatcher_DeliversAllEvents(t *testing.T) {
	const total = 40

	svc := newRecordingAuditService(total)
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < total; i++ {
		d.Enqueue(ports.AuditEventInput{
			UserID: fmt.Sprintf("user_%d", i%8),
			Action: "user.logged_in",
		})
	}

	events := svc.wait(t)
	if len(events) != total {
		t.Fatalf("expected %d events, got %d", total, len(events))
	}
}

func TestDispatcher_PerUserOrdering(t *testing.T) {
	const perUser = 20

	svc := newRecordingAuditService(2 * perUser)
	d := NewDispatcher(3, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	// Interleave two users; each user's events carry a sequence in ActorID.
	for i := 0; i < perUser; i++ {
		d.Enqueue(ports.AuditEventInput{UserID: "user_a", ActorID: fmt.Sprintf("%d", i)})
		d.Enqueue(ports.AuditEventInput{UserID: "user_b", ActorID: fmt.Sprintf("%d", i)})
	}

	events := svc.wait(t)

	seen := map[string]int{}
	for _, e := range events {
		var seq int
		fmt.Sscanf(e.ActorID, "%d", &seq)
		if seq != seen[e.UserID] {
			t.Fatalf("user %s: expected seq %d, got %d", e.UserID, seen[e.UserID], seq)
		}
		seen[e.UserID]++
	}
}

func TestDispatcher_ShardIsDeterministic(t *testing.T) {
	d := NewDispatcher(4, newRecordingAuditService(1), zerolog.Nop())

	for _, id := range []string{"user_1", "user_2", "abc", ""} {
		first := d.shardIndex(id)
		for i := 0; i < 10; i++ {
			if got := d.shardIndex(id); got != first {
				t.Fatalf("shard for %q changed: %d -> %d", id, first, got)
			}
		}
		if first < 0 || first >= 4 {
			t.Fatalf("shard out of range: %d", first)
		}
	}
}

func TestDispatcher_DefaultWorkerCount(t *testing.T) {
	d := NewDispatcher(0, newRecordingAuditService(1), zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
