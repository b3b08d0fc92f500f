// File: internal/events/dispatcher.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Dispatcher moves stream events off link callback goroutines onto a single
// delivery goroutine. Post never blocks; pending duplicates are coalesced
// since RxReady and TxReady are level signals.

package events

import (
	"context"
	"log"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-nus/api"
)

// Ensure compile-time interface compliance.
var _ api.EventSink = (*Dispatcher)(nil)

// Dispatcher is a FIFO boundary between event producers and one handler.
type Dispatcher struct {
	mu      sync.Mutex
	q       *queue.Queue
	queued  map[api.StreamEvent]bool
	handler api.EventHandler
	ctx     any
	wake    chan struct{}
	done    chan struct{}
	closed  bool
	logger  *log.Logger
}

// NewDispatcher creates a dispatcher delivering to handler with ctx.
func NewDispatcher(handler api.EventHandler, ctx any, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{
		q:       queue.New(),
		queued:  make(map[api.StreamEvent]bool),
		handler: handler,
		ctx:     ctx,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		logger:  logger,
	}
}

// Post enqueues evt unless the same event is already pending.
func (d *Dispatcher) Post(evt api.StreamEvent) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if !d.queued[evt] {
		d.queued[evt] = true
		d.q.Add(evt)
	}
	d.mu.Unlock()

	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of undelivered events.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.q.Length()
}

// Run delivers events until ctx is cancelled or Close is called.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		for {
			evt, ok := d.next()
			if !ok {
				break
			}
			d.handler(evt, d.ctx)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.done:
			return nil
		case <-d.wake:
		}
	}
}

func (d *Dispatcher) next() (api.StreamEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.q.Length() == 0 {
		return 0, false
	}
	evt := d.q.Remove().(api.StreamEvent)
	delete(d.queued, evt)
	return evt, true
}

// Close stops Run and discards undelivered events.
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return api.ErrDispatcherClosed
	}
	d.closed = true
	if n := d.q.Length(); n > 0 {
		d.logger.Printf("[events] discarding %d undelivered events", n)
	}
	close(d.done)
	return nil
}
