package audit

import (
	"context"
	"testing"
	"time"
)

func TestQueueNonBlockingEnqueue(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	for i := 0; i < 1000; i++ {
		ok := q.Enqueue(Event{Type: EventItemAdded, Scope: "farm-1"})
		if !ok {
			t.Fatalf("enqueue failed at %d", i)
		}
	}
	if q.BacklogSize() == 0 {
		t.Fatalf("expected backlog > 0")
	}
}

func TestQueueShutdownIntake(t *testing.T) {
	q := NewQueue(1)
	q.CloseIntake()
	if !q.IsShuttingDown() {
		t.Fatalf("expected shutting down true")
	}
	if ok := q.Enqueue(Event{Type: EventItemAdded}); ok {
		t.Fatalf("expected enqueue false when shutting down")
	}
}

func TestQueueDeliversInOrder(t *testing.T) {
	q := NewQueue(16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx)
	for i := uint64(1); i <= 5; i++ {
		q.Enqueue(Event{Sequence: i})
	}
	for i := uint64(1); i <= 5; i++ {
		select {
		case ev := <-q.Out():
			if ev.Sequence != i {
				t.Fatalf("expected sequence %d, got %d", i, ev.Sequence)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestPublisherDisabledWithoutBrokers(t *testing.T) {
	p := NewPublisher("", "cocoguard.cart.audit", 16)
	if p.Enabled() {
		t.Fatalf("expected disabled publisher")
	}
	// Record must drop silently and drain must be immediate.
	p.Record("farm-1", EventItemAdded, "p1", 2)
	if p.q.BacklogSize() != 0 {
		t.Fatalf("disabled publisher must not buffer events")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if !p.DrainUntil(ctx) {
		t.Fatalf("disabled publisher must drain immediately")
	}
}

func TestPublisherParsesBrokerCSV(t *testing.T) {
	p := NewPublisher(" localhost:9092 , localhost:9093 ,", "t", 16)
	if !p.Enabled() {
		t.Fatalf("expected enabled publisher")
	}
	if len(p.brokers) != 2 {
		t.Fatalf("expected 2 brokers, got %v", p.brokers)
	}
}

func TestPublisherStampsEvents(t *testing.T) {
	p := NewPublisher("localhost:9092", "t", 16)
	p.Record("farm-1", EventItemMerged, "p1", 3)
	p.Record("farm-1", EventItemRemoved, "p1", 0)

	enq, _, backlog, _ := p.q.Metrics()
	if enq != 2 || backlog != 2 {
		t.Fatalf("expected 2 buffered events, got enq=%d backlog=%d", enq, backlog)
	}
	first := p.q.backlog[0]
	second := p.q.backlog[1]
	if first.EventID == "" || first.EventID == second.EventID {
		t.Fatalf("expected distinct event ids")
	}
	if first.Sequence != 1 || second.Sequence != 2 {
		t.Fatalf("expected sequences 1,2 got %d,%d", first.Sequence, second.Sequence)
	}
	if first.Type != EventItemMerged || first.Scope != "farm-1" {
		t.Fatalf("unexpected event: %+v", first)
	}
}
