// bus.go — In-process message bus with request/response and broadcast.
// Requests are processed one at a time to completion, so a handler is never
// interleaved with another handler on the same bus. Broadcasts never block:
// a subscriber whose buffer is full misses the message.
// Once closed the bus is detached: every Request and Broadcast fails with
// types.ErrDetached and all subscriber channels are closed.
package bus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/dev-console/pagectx/internal/types"
)

// Message is one unit exchanged over the bus.
type Message struct {
	ID      string          `json:"id"`
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Handler answers a request. The returned value is JSON-encoded into the response.
type Handler func(ctx context.Context, msg Message) (any, error)

// Bus routes requests to handlers and fans broadcasts out to subscribers.
type Bus struct {
	serial sync.Mutex // one request at a time

	mu       sync.RWMutex
	handlers map[string]Handler
	subs     map[int]chan Message
	nextSub  int
	closed   bool

	logger *slog.Logger
}

// New creates an open bus.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		handlers: make(map[string]Handler),
		subs:     make(map[int]chan Message),
		logger:   logger,
	}
}

// Handle registers h for action, replacing any previous handler.
func (b *Bus) Handle(action string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[action] = h
}

// Request sends action with payload and waits for the handler's response.
func (b *Bus) Request(ctx context.Context, action string, payload any) (json.RawMessage, error) {
	msg, err := newMessage(action, payload)
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	closed := b.closed
	h, ok := b.handlers[action]
	b.mu.RUnlock()
	if closed {
		return nil, types.NewCaptureError(types.Detached, action, nil)
	}
	if !ok {
		return nil, types.NewCaptureError(types.Unsupported, action, fmt.Errorf("no handler for %q", action))
	}

	b.serial.Lock()
	defer b.serial.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	result, err := h(ctx, msg)
	if err != nil {
		return nil, err
	}
	out, err := json.Marshal(result)
	if err != nil {
		return nil, types.NewCaptureError(types.Malformed, action, err)
	}
	return out, nil
}

// RequestInto is Request followed by decoding the response into dst.
func (b *Bus) RequestInto(ctx context.Context, action string, payload any, dst any) error {
	raw, err := b.Request(ctx, action, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return types.NewCaptureError(types.Malformed, action, err)
	}
	return nil
}

// Broadcast delivers action to every current subscriber without waiting.
func (b *Bus) Broadcast(action string, payload any) error {
	msg, err := newMessage(action, payload)
	if err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return types.NewCaptureError(types.Detached, action, nil)
	}
	for id, ch := range b.subs {
		select {
		case ch <- msg:
		default:
			b.logger.Debug("broadcast dropped for slow subscriber", "action", action, "subscriber", id)
		}
	}
	return nil
}

// Subscribe returns a channel receiving broadcasts and a cancel func that
// removes the subscription. buffer < 1 is treated as 1.
func (b *Bus) Subscribe(buffer int) (<-chan Message, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Message, buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Close detaches the bus and tears down all subscribers. Safe to call twice.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Closed reports whether the bus has been detached.
func (b *Bus) Closed() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closed
}

func newMessage(action string, payload any) (Message, error) {
	msg := Message{ID: uuid.NewString(), Action: action}
	if payload == nil {
		return msg, nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		msg.Payload = raw
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return msg, types.NewCaptureError(types.Malformed, action, err)
	}
	msg.Payload = raw
	return msg, nil
}

// IsDetached reports whether err signals a detached bus.
func IsDetached(err error) bool {
	return errors.Is(err, types.ErrDetached)
}
