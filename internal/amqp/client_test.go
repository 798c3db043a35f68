package amqp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"giftledger/internal/ledger"
)

type fakeChannel struct {
	published []amqp091.Publishing
	keys      []string
	err       error
	closed    bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp091.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.keys = append(f.keys, key)
	f.published = append(f.published, msg)
	return nil
}

func (f *fakeChannel) IsClosed() bool { return f.closed }

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func newTestClient(ch *fakeChannel) *Client {
	return &Client{exchangeName: "giftledger", queueName: "entry_changes", channel: ch}
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{-1, 1 * time.Second},
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{15, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			if got := exponentialBackoff(tt.attempt); got != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"amqp closed", amqp091.ErrClosed, true},
		{"connection refused", errors.New("connection refused"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"other error", errors.New("invalid input"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestClient_NotifyPublishesJSON(t *testing.T) {
	ch := &fakeChannel{}
	c := newTestClient(ch)

	err := c.Notify(context.Background(), ledger.ChangeEvent{Op: ledger.OpToggled, EntryID: 17, Completed: true, Count: 3})
	if err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(ch.published) != 1 || ch.keys[0] != "entry_changes" {
		t.Fatalf("unexpected publishes: %+v keys=%v", ch.published, ch.keys)
	}
	p := ch.published[0]
	if p.DeliveryMode != amqp091.Persistent || p.ContentType != "application/json" {
		t.Fatalf("unexpected publishing: %+v", p)
	}
	var msg ChangeMessage
	if err := json.Unmarshal(p.Body, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Op != "toggled" || msg.EntryID != 17 || !msg.Completed || msg.Count != 3 {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if msg.MessageID == "" || msg.MessageID != p.MessageId {
		t.Fatalf("message id not set: %q vs %q", msg.MessageID, p.MessageId)
	}
}

func TestClient_CircuitBreaker(t *testing.T) {
	ch := &fakeChannel{err: errors.New("some broker error")}
	c := newTestClient(ch)
	ctx := context.Background()

	if c.isCircuitOpen() {
		t.Fatal("circuit should start closed")
	}
	for i := 0; i < failureThreshold; i++ {
		if err := c.PublishChange(ctx, NewChangeMessage(ledger.ChangeEvent{Op: ledger.OpCleared})); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}
	if !c.isCircuitOpen() {
		t.Fatal("circuit should be open after threshold failures")
	}
	if err := c.PublishChange(ctx, NewChangeMessage(ledger.ChangeEvent{Op: ledger.OpCleared})); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}

	// cooldown elapsed: half-open lets one attempt through
	atomic.StoreInt64(&c.openUntil, time.Now().Add(-time.Second).UnixNano())
	ch.err = nil
	if err := c.PublishChange(ctx, NewChangeMessage(ledger.ChangeEvent{Op: ledger.OpCleared})); err != nil {
		t.Fatalf("expected success after cooldown, got %v", err)
	}
	if c.isCircuitOpen() || atomic.LoadInt64(&c.failureCount) != 0 {
		t.Fatal("success should reset the breaker")
	}
}

func TestClient_HalfOpenAdmitsOneCaller(t *testing.T) {
	c := newTestClient(&fakeChannel{})
	atomic.StoreInt32(&c.state, StateOpen)
	atomic.StoreInt64(&c.openUntil, time.Now().Add(-time.Second).UnixNano())

	if c.isCircuitOpen() {
		t.Fatal("first caller after cooldown should be let through")
	}
	if !c.isCircuitOpen() {
		t.Fatal("second caller must wait for the first attempt")
	}

	var admitted int64
	var wg sync.WaitGroup
	atomic.StoreInt64(&c.openUntil, time.Now().Add(-time.Second).UnixNano())
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if !c.isCircuitOpen() {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Fatalf("admitted %d concurrent callers, want 1", admitted)
	}
}

func TestClient_ClosedChannelWithoutURL(t *testing.T) {
	ch := &fakeChannel{closed: true}
	c := newTestClient(ch)
	if err := c.PublishChange(context.Background(), NewChangeMessage(ledger.ChangeEvent{Op: ledger.OpAdded, EntryID: 1})); err == nil {
		t.Fatal("expected error on closed channel")
	}
	if len(ch.published) != 0 {
		t.Fatal("nothing should be published")
	}
}

func TestClient_ConnectionErrorClosesChannel(t *testing.T) {
	ch := &fakeChannel{err: errors.New("connection reset by peer")}
	c := newTestClient(ch)
	_ = c.PublishChange(context.Background(), NewChangeMessage(ledger.ChangeEvent{Op: ledger.OpAdded, EntryID: 1}))
	if !ch.closed {
		t.Fatal("channel should be closed after a connection error")
	}
}
