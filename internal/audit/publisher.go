package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/cocoguard/cart-session-service/internal/obs"
)

// Publisher buffers cart audit events and ships them to Kafka in the
// background. When no brokers are configured the publisher is disabled and
// Record drops events immediately.
type Publisher struct {
	q       *Queue
	writer  *kafka.Writer
	seq     Sequencer
	brokers []string
}

// NewPublisher parses the broker CSV and prepares the event queue. An empty
// broker list yields a disabled publisher.
func NewPublisher(brokersCSV, topic string, buffer int) *Publisher {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	p := &Publisher{q: NewQueue(buffer), brokers: brokers}
	if len(brokers) > 0 {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
		}
	}
	return p
}

// Enabled reports whether events are actually shipped anywhere.
func (p *Publisher) Enabled() bool { return p.writer != nil }

// Record implements cart.Recorder. It stamps the event with an id and a
// sequence number and hands it to the queue without blocking.
func (p *Publisher) Record(scope, eventType, productID string, quantity int) {
	if !p.Enabled() {
		return
	}
	ev := Event{
		EventID:   uuid.NewString(),
		Sequence:  p.seq.Next(),
		Scope:     scope,
		Type:      eventType,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now().UTC(),
	}
	if !p.q.Enqueue(ev) {
		obs.Logger.Warnw("audit_event_dropped", "scope", scope, "type", eventType)
	}
}

// Start launches the queue broker and the dispatch loop.
func (p *Publisher) Start(ctx context.Context) {
	if !p.Enabled() {
		return
	}
	p.q.Start(ctx)
	go p.dispatch(ctx)
}

// dispatch drains events from the queue and publishes them. Failures are
// logged and the event is dropped.
func (p *Publisher) dispatch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.q.Out():
			p.publish(ctx, ev)
			p.q.MarkPublished()
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		obs.Logger.Warnw("audit_encode_failed", "event_id", ev.EventID, "error", err)
		return
	}
	msg := kafka.Message{Key: []byte(ev.Scope), Value: data, Time: ev.CreatedAt}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		obs.Logger.Warnw("audit_publish_failed", "event_id", ev.EventID, "type", ev.Type, "error", err)
	}
}

// CloseIntake disallows future Record calls from enqueueing.
func (p *Publisher) CloseIntake() { p.q.CloseIntake() }

// DrainUntil blocks until the queue is fully drained or context is done.
func (p *Publisher) DrainUntil(ctx context.Context) bool {
	if !p.Enabled() {
		return true
	}
	for {
		enq, pub, backlog, depth := p.q.Metrics()
		if backlog == 0 && depth == 0 && enq == pub {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// Close releases the Kafka writer.
func (p *Publisher) Close() {
	if p.writer != nil {
		if err := p.writer.Close(); err != nil {
			obs.Logger.Warnw("audit_writer_close_failed", "error", err)
		}
	}
}
