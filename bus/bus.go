// Package bus implements the in-process request/response router and topic
// pub/sub used between the AMS port and the ADS service (§10.2). It is
// grounded on the teacher's internal/transport.Conn: a pending-response map
// keyed by an invoke id, with replies delivered over per-call channels under
// a context deadline — adapted here from a dial-side TCP client into an
// in-process call router, since an ads-port and its ads-service instances
// are deployed as goroutines sharing one Go process rather than separate
// wire-connected hosts.
package bus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Handler answers one bus call.
type Handler func(ctx context.Context, req []byte) ([]byte, error)

// Subscriber receives one bus event published on a topic.
type Subscriber func(payload []byte)

// pendingCall is an in-flight Call waiting for its Handler to finish; it
// mirrors the teacher's pendingResponse shape (invoke id + result channel)
// even though, in-process, the "channel" is just the goroutine that invoked
// the handler — kept as a named type so the call accounting can report the
// in-flight count through InFlight.
type pendingCall struct {
	invokeID uint32
	method   string
}

// Bus is the in-process method-call router and topic publisher shared
// between a port and the services registered with it.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	subs     map[string][]Subscriber

	invokeID atomic.Uint32

	pendingMu sync.Mutex
	pending   map[uint32]pendingCall

	group *errgroup.Group
}

// New creates an empty bus. group, when non-nil, supervises the subscriber
// goroutines started by Publish so a single failure can cancel the whole
// service tree; pass nil to run such goroutines unsupervised.
func New(group *errgroup.Group) *Bus {
	return &Bus{
		handlers: make(map[string]Handler),
		subs:     make(map[string][]Subscriber),
		pending:  make(map[uint32]pendingCall),
		group:    group,
	}
}

// Register installs the handler for method, replacing any prior handler.
func (b *Bus) Register(method string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[method] = h
}

// Unregister removes the handler for method, if any.
func (b *Bus) Unregister(method string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.handlers, method)
}

// Call invokes method synchronously and returns its reply, bounded by ctx.
// Returns an error if no handler is registered, the handler errors, or ctx
// is done first.
func (b *Bus) Call(ctx context.Context, method string, req []byte) ([]byte, error) {
	b.mu.RLock()
	h, ok := b.handlers[method]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("bus: no handler registered for %q", method)
	}

	id := b.invokeID.Add(1)
	b.pendingMu.Lock()
	b.pending[id] = pendingCall{invokeID: id, method: method}
	b.pendingMu.Unlock()
	defer func() {
		b.pendingMu.Lock()
		delete(b.pending, id)
		b.pendingMu.Unlock()
	}()

	type result struct {
		data []byte
		err  error
	}
	resultCh := make(chan result, 1)

	go func() {
		data, err := h(ctx, req)
		resultCh <- result{data: data, err: err}
	}()

	select {
	case r := <-resultCh:
		return r.data, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// InFlight returns the number of calls currently awaiting a handler reply.
func (b *Bus) InFlight() int {
	b.pendingMu.Lock()
	defer b.pendingMu.Unlock()
	return len(b.pending)
}

// Subscribe registers sub to receive every payload published on topic.
func (b *Bus) Subscribe(topic string, sub Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], sub)
}

// Publish fans payload out to every subscriber of topic. Each subscriber
// runs in its own goroutine (supervised by the bus's errgroup, if any) so a
// slow or blocking subscriber cannot delay the publisher or its peers.
func (b *Bus) Publish(topic string, payload []byte) {
	b.mu.RLock()
	subs := append([]Subscriber(nil), b.subs[topic]...)
	b.mu.RUnlock()

	for _, sub := range subs {
		sub := sub
		if b.group != nil {
			b.group.Go(func() error {
				sub(payload)
				return nil
			})
		} else {
			go sub(payload)
		}
	}
}
