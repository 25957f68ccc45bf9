package outbox

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

type fakeStore struct {
	mu     sync.Mutex
	events []Event
	sent   [][]int64
	failed []int64
}

func (s *fakeStore) LockBatch(ctx context.Context, relayID string, batchSize int, lease time.Duration) ([]Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.events
	s.events = nil
	return events, nil
}

func (s *fakeStore) MarkSent(ctx context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, ids)
	return nil
}

func (s *fakeStore) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeStore) ExtendLease(ctx context.Context, relayID string, ids []int64, lease time.Duration) error {
	return nil
}

type fakeProducer struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (p *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msgs...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherBuildsMessage(t *testing.T) {
	producer := &fakeProducer{}
	d := NewDispatcher(discardLogger(), producer, "fulfillment.events")

	err := d.Dispatch(context.Background(), Event{
		ID:          1,
		AggregateID: "42",
		Type:        "OrderPlaced",
		Payload:     []byte(`{"order_id":42}`),
		Headers:     map[string]string{"x-request-id": "abc"},
		Traceparent: "00-aaaa-bbbb-01",
	})
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if len(producer.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(producer.msgs))
	}

	msg := producer.msgs[0]
	if msg.Topic != "fulfillment.events" || string(msg.Key) != "42" {
		t.Fatalf("unexpected topic/key: %s/%s", msg.Topic, msg.Key)
	}
	got := map[string]string{}
	for _, h := range msg.Headers {
		got[h.Key] = string(h.Value)
	}
	if got["event_type"] != "OrderPlaced" || got["traceparent"] != "00-aaaa-bbbb-01" || got["x-request-id"] != "abc" {
		t.Fatalf("missing headers: %v", got)
	}
}

func TestRelayDispatchesAndMarksSent(t *testing.T) {
	store := &fakeStore{events: []Event{
		{ID: 1, AggregateID: "1", Type: "OrderPlaced"},
		{ID: 2, AggregateID: "2", Type: "OrderPlaced"},
	}}
	producer := &fakeProducer{}
	relay := NewRelay(discardLogger(), store, NewDispatcher(discardLogger(), producer, "t"), "relay-test")
	relay.interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := relay.Run(ctx); err != nil {
		t.Fatalf("relay returned error: %v", err)
	}

	if len(producer.msgs) != 2 {
		t.Fatalf("expected 2 dispatched messages, got %d", len(producer.msgs))
	}
	if len(store.sent) != 1 || len(store.sent[0]) != 2 {
		t.Fatalf("expected one batch of 2 marked sent, got %v", store.sent)
	}
}

func TestRelayMarksFailedIndividually(t *testing.T) {
	store := &fakeStore{events: []Event{{ID: 7, AggregateID: "7", Type: "OrderPlaced"}}}
	producer := &fakeProducer{err: errors.New("broker down")}
	relay := NewRelay(discardLogger(), store, NewDispatcher(discardLogger(), producer, "t"), "relay-test")
	relay.interval = 5 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = relay.Run(ctx)

	if len(store.failed) != 1 || store.failed[0] != 7 {
		t.Fatalf("expected event 7 marked failed, got %v", store.failed)
	}
	if len(store.sent) != 0 {
		t.Fatalf("nothing should be marked sent, got %v", store.sent)
	}
}
