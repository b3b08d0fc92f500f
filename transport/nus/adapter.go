// File: transport/nus/adapter.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Adapter owns the RX and TX rings and the flow-control state, implements
// api.StreamTransport for the shell and receives api.Link callbacks.

package nus

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/hashicorp/go-multierror"

	"github.com/momentics/hioload-nus/api"
	"github.com/momentics/hioload-nus/internal/events"
	"github.com/momentics/hioload-nus/internal/flow"
	"github.com/momentics/hioload-nus/pool"
)

// Ensure compile-time interface compliance.
var _ api.StreamTransport = (*Adapter)(nil)

// Metric keys reported through api.Control.
const (
	MetricRxBytes        = "rx.bytes"
	MetricRxDropped      = "rx.dropped"
	MetricTxAccepted     = "tx.accepted"
	MetricTxDiscarded    = "tx.discarded"
	MetricTxTruncated    = "tx.truncated"
	MetricTxSends        = "tx.sends"
	MetricTxSentBytes    = "tx.sent_bytes"
	MetricTxSendFailures = "tx.send_failures"
)

type eventTarget struct {
	handler api.EventHandler
	ctx     any
	sink    api.EventSink
}

// Adapter is the notification stream transport.
type Adapter struct {
	link api.Link

	rxMu sync.Mutex
	rx   *pool.ByteRing
	tx   *pool.ByteRing
	flow flow.State

	initialized  atomic.Bool
	shellEnabled atomic.Bool
	unbound      atomic.Bool
	bootstrapped atomic.Bool
	target       atomic.Pointer[eventTarget]

	mu         sync.Mutex // serializes Init/Uninit/Enable
	dispatcher *events.Dispatcher
	cancel     context.CancelFunc

	txSize, rxSize int
	async          bool
	initLogLevel   int
	bootstrap      BootstrapFunc
	ctrl           api.Control
	logger         *log.Logger
	debug          atomic.Bool
}

// New creates an adapter and registers its callbacks with link.
func New(link api.Link, opts ...Option) (*Adapter, error) {
	if link == nil {
		return nil, api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).WithContext("link", nil)
	}
	a := &Adapter{
		link:   link,
		txSize: DefaultTxRingSize,
		rxSize: DefaultRxRingSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.txSize <= 0 || a.rxSize <= 0 {
		return nil, api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).
			WithContext("tx_ring_size", a.txSize).
			WithContext("rx_ring_size", a.rxSize)
	}
	if a.logger == nil {
		a.logger = log.Default()
	}
	a.tx = pool.NewByteRing(a.txSize)
	a.rx = pool.NewByteRing(a.rxSize)
	a.registerProbes()

	err := link.Register(api.LinkCallbacks{
		OnReceived:            a.OnReceived,
		OnSendComplete:        a.OnSendComplete,
		OnSubscriptionChanged: a.OnSubscriptionChanged,
	})
	if err != nil {
		return nil, fmt.Errorf("register link callbacks: %w", err)
	}
	return a, nil
}

// Init records the event handler and context. A second Init without
// Uninit fails with ErrAlreadyInitialized.
func (a *Adapter) Init(handler api.EventHandler, ctx any) error {
	if handler == nil {
		return api.Wrap(api.ErrCodeInvalidArgument, api.ErrInvalidArgument).WithContext("handler", nil)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.initialized.Load() {
		return api.Wrap(api.ErrCodeInvalidState, api.ErrAlreadyInitialized)
	}

	target := &eventTarget{handler: handler, ctx: ctx}
	if a.async {
		d := events.NewDispatcher(handler, ctx, a.logger)
		runCtx, cancel := context.WithCancel(context.Background())
		go func() {
			if err := d.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Printf("[nus] event dispatcher stopped: %v", err)
			}
		}()
		a.dispatcher, a.cancel = d, cancel
		target.sink = d
	}
	a.target.Store(target)
	a.initialized.Store(true)
	a.debugf("Initialized")
	return nil
}

// Uninit detaches the event handler and stops the dispatcher, if any.
// Buffered bytes are kept.
func (a *Adapter) Uninit() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized.Load() {
		return api.Wrap(api.ErrCodeInvalidState, api.ErrNotInitialized)
	}
	a.initialized.Store(false)
	a.shellEnabled.Store(false)
	a.target.Store(nil)

	var result *multierror.Error
	if a.dispatcher != nil {
		if err := a.dispatcher.Close(); err != nil {
			result = multierror.Append(result, err)
		}
		a.cancel()
		a.dispatcher, a.cancel = nil, nil
	}
	return result.ErrorOrNil()
}

// Enable starts the stream in non-blocking mode. Blocking mode cannot be
// serviced; it is rejected and the targeted connection is dropped.
func (a *Adapter) Enable(blocking bool) error {
	if blocking {
		a.flow.ClearConn()
		return api.Wrap(api.ErrCodeNotSupported, api.ErrNotSupported).WithContext("blocking", true)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.initialized.Load() {
		return api.Wrap(api.ErrCodeInvalidState, api.ErrNotInitialized)
	}
	a.shellEnabled.Store(true)
	a.debugf("Waiting for the notification subscription")
	return nil
}

// State reports the lifecycle state.
func (a *Adapter) State() api.TransportState {
	switch {
	case !a.initialized.Load():
		return api.StateUninitialized
	case !a.shellEnabled.Load() || a.unbound.Load():
		return api.StateDisabled
	case a.flow.LinkReady():
		return api.StateEnabled
	default:
		return api.StateEnabling
	}
}

// Read drains up to len(p) received bytes. Bytes received before a
// disconnect stay readable.
func (a *Adapter) Read(p []byte) int {
	a.rxMu.Lock()
	n := a.rx.Get(p)
	a.rxMu.Unlock()
	return n
}

// Write queues p and starts a send if none is in flight. While the remote
// end is not subscribed, p is reported accepted and discarded.
func (a *Adapter) Write(p []byte) int {
	if !a.flow.LinkReady() {
		a.metric(MetricTxDiscarded, len(p))
		return len(p)
	}
	n := a.tx.Put(p)
	a.debugf("Write req:%d accept:%d", len(p), n)
	a.metric(MetricTxAccepted, n)
	if n < len(p) {
		a.metric(MetricTxTruncated, len(p)-n)
	}
	if a.flow.TryBeginSend() {
		a.flow.Run(a.attemptSend)
	}
	return n
}

// attemptSend hands one link-sized chunk of the TX ring to the link. The
// chunk is committed whatever the send outcome: delivery is at most once.
// Runs only under the flow drain token.
func (a *Adapter) attemptSend() {
	for {
		conn := a.flow.Conn()
		limit := a.sendLimit(conn)
		chunk := a.tx.Claim(limit)
		if len(chunk) == 0 {
			a.flow.EndSend()
			// a Write may have queued bytes after the claim but seen the
			// flag still set
			if limit > 0 && a.tx.Len() > 0 && a.flow.TryBeginSend() {
				continue
			}
			return
		}

		size := len(chunk)
		a.flow.MarkInFlight()
		err := a.link.Send(conn, chunk)
		a.tx.Commit(size)
		a.metric(MetricTxSends, 1)
		if err != nil {
			a.logger.Printf("[nus] Failed to send %d bytes (%v)", size, err)
			a.metric(MetricTxSendFailures, 1)
			a.flow.EndSend()
			return
		}
		a.debugf("Sent %d bytes", size)
		a.metric(MetricTxSentBytes, size)
		return
	}
}

// sendLimit is the negotiated limit of conn, or the smallest non-zero
// limit among subscribed connections when broadcasting.
func (a *Adapter) sendLimit(conn api.Conn) int {
	if conn != nil {
		return a.link.NegotiatedLimit(conn)
	}
	limit := 0
	a.link.ForEachSubscribed(func(c api.Conn) {
		l := a.link.NegotiatedLimit(c)
		if l > 0 && (limit == 0 || l < limit) {
			limit = l
		}
	})
	return limit
}

// OnReceived queues an inbound notification and signals RxReady.
func (a *Adapter) OnReceived(conn api.Conn, p []byte) {
	a.rxMu.Lock()
	n := a.rx.Put(p)
	a.rxMu.Unlock()

	a.debugf("Received %d bytes.", len(p))
	a.metric(MetricRxBytes, n)
	if n < len(p) {
		a.logger.Printf("[nus] RX ring buffer full. Dropping %d bytes", len(p)-n)
		a.metric(MetricRxDropped, len(p)-n)
	}
	a.raise(api.RxReady)
}

// OnSendComplete drains bytes queued during the finished send and
// signals TxReady.
func (a *Adapter) OnSendComplete(conn api.Conn) {
	a.debugf("Sent operation completed")
	a.flow.Run(a.attemptSend)
	a.raise(api.TxReady)
}

// OnSubscriptionChanged records whether the remote end accepts
// notifications. Buffered TX bytes are not flushed here.
func (a *Adapter) OnSubscriptionChanged(enabled bool) {
	a.flow.SetLinkReady(enabled)
	if enabled {
		a.debugf("Notification has been enabled")
	} else {
		a.debugf("Notification has been disabled")
	}
}

// BindConnection targets conn and waits for its subscription. The first
// call runs the framework bootstrap.
func (a *Adapter) BindConnection(conn api.Conn) error {
	a.flow.SetLinkReady(false)
	a.flow.SetConn(conn)
	a.unbound.Store(false)

	if a.bootstrap != nil && a.bootstrapped.CompareAndSwap(false, true) {
		if err := a.bootstrap(a.initLogLevel); err != nil {
			a.bootstrapped.Store(false)
			return fmt.Errorf("bootstrap stream framework: %w", err)
		}
	}
	return nil
}

// UnbindConnection drops the targeted connection and disables sending.
func (a *Adapter) UnbindConnection() {
	a.flow.ClearConn()
	a.flow.SetLinkReady(false)
	a.unbound.Store(true)
}

// SetDebug toggles per-operation debug logging at runtime.
func (a *Adapter) SetDebug(on bool) {
	a.debug.Store(on)
}

// Buffered returns the RX and TX fill levels.
func (a *Adapter) Buffered() (rx, tx int) {
	a.rxMu.Lock()
	rx = a.rx.Len()
	a.rxMu.Unlock()
	return rx, a.tx.Len()
}

func (a *Adapter) raise(evt api.StreamEvent) {
	t := a.target.Load()
	if t == nil {
		return
	}
	if t.sink != nil {
		t.sink.Post(evt)
		return
	}
	t.handler(evt, t.ctx)
}

func (a *Adapter) metric(key string, n int) {
	if a.ctrl != nil && n != 0 {
		a.ctrl.AddMetric(key, int64(n))
	}
}

func (a *Adapter) debugf(format string, args ...any) {
	if a.debug.Load() {
		a.logger.Printf("[nus] "+format, args...)
	}
}

func (a *Adapter) registerProbes() {
	if a.ctrl == nil {
		return
	}
	a.ctrl.RegisterDebugProbe("nus.state", func() any { return a.State().String() })
	a.ctrl.RegisterDebugProbe("nus.tx_in_flight", func() any { return a.flow.InFlight() })
	a.ctrl.RegisterDebugProbe("nus.rx_fill", func() any { rx, _ := a.Buffered(); return rx })
	a.ctrl.RegisterDebugProbe("nus.tx_fill", func() any { _, tx := a.Buffered(); return tx })
	a.ctrl.RegisterDebugProbe("nus.conn", func() any {
		if c := a.flow.Conn(); c != nil {
			return c.ID()
		}
		return "broadcast"
	})
}
