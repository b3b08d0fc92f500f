// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake notification link for testing and development.
// Provides predictable, controllable behavior for api.Link.

package fake

import (
	"sort"
	"sync"

	"github.com/momentics/hioload-nus/api"
)

// Ensure compile-time interface compliance.
var _ api.Link = (*Link)(nil)

// CompleteMode selects how the fake reports send completion.
type CompleteMode int

const (
	// CompleteManual waits for Complete to be called.
	CompleteManual CompleteMode = iota
	// CompleteSync raises the completion from inside Send before it returns.
	CompleteSync
	// CompleteAsync raises the completion from a new goroutine.
	CompleteAsync
)

// Conn is a fake connection with a negotiated payload limit.
type Conn struct {
	id         string
	limit      int
	subscribed bool
}

// ID implements api.Conn.
func (c *Conn) ID() string { return c.id }

// Sent is one recorded notification.
type Sent struct {
	ConnID string // empty for broadcast
	Data   []byte
}

// Link is a fake implementation of api.Link.
type Link struct {
	mu        sync.Mutex
	conns     map[string]*Conn
	sent      []Sent
	sendError error
	mode      CompleteMode
	cb        api.LinkCallbacks
	onSend    func(Sent)
}

// NewLink creates a fake link with manual completion.
func NewLink() *Link {
	return &Link{conns: make(map[string]*Conn)}
}

// AddConn registers a connection with the given limit.
func (l *Link) AddConn(id string, limit int, subscribed bool) *Conn {
	l.mu.Lock()
	defer l.mu.Unlock()
	c := &Conn{id: id, limit: limit, subscribed: subscribed}
	l.conns[id] = c
	return c
}

// SetSubscribed changes a connection's subscription without raising events.
func (l *Link) SetSubscribed(id string, subscribed bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.conns[id]; ok {
		c.subscribed = subscribed
	}
}

// SetLimit changes a connection's negotiated limit.
func (l *Link) SetLimit(id string, limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.conns[id]; ok {
		c.limit = limit
	}
}

// SetSendError makes subsequent Send calls fail with err (nil clears).
func (l *Link) SetSendError(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sendError = err
}

// SetCompleteMode selects completion delivery.
func (l *Link) SetCompleteMode(mode CompleteMode) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mode = mode
}

// OnSend installs a hook called for every accepted notification.
func (l *Link) OnSend(fn func(Sent)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onSend = fn
}

// Register implements api.Link.Register.
func (l *Link) Register(cb api.LinkCallbacks) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cb = cb
	return nil
}

// Send implements api.Link.Send.
func (l *Link) Send(conn api.Conn, p []byte) error {
	l.mu.Lock()
	if l.sendError != nil {
		err := l.sendError
		l.mu.Unlock()
		return err
	}
	rec := Sent{Data: append([]byte(nil), p...)}
	if conn != nil {
		rec.ConnID = conn.ID()
	}
	l.sent = append(l.sent, rec)
	mode, hook := l.mode, l.onSend
	l.mu.Unlock()

	if hook != nil {
		hook(rec)
	}
	switch mode {
	case CompleteSync:
		l.Complete(conn)
	case CompleteAsync:
		go l.Complete(conn)
	}
	return nil
}

// NegotiatedLimit implements api.Link.NegotiatedLimit.
func (l *Link) NegotiatedLimit(conn api.Conn) int {
	if conn == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if c, ok := l.conns[conn.ID()]; ok {
		return c.limit
	}
	return 0
}

// ForEachSubscribed implements api.Link.ForEachSubscribed in ID order.
func (l *Link) ForEachSubscribed(fn func(conn api.Conn)) {
	l.mu.Lock()
	var subs []*Conn
	for _, c := range l.conns {
		if c.subscribed {
			subs = append(subs, c)
		}
	}
	l.mu.Unlock()
	sort.Slice(subs, func(i, j int) bool { return subs[i].id < subs[j].id })
	for _, c := range subs {
		fn(c)
	}
}

// Deliver raises OnReceived as if conn had written p.
func (l *Link) Deliver(conn api.Conn, p []byte) {
	if cb := l.callbacks().OnReceived; cb != nil {
		cb(conn, p)
	}
}

// Complete raises OnSendComplete.
func (l *Link) Complete(conn api.Conn) {
	if cb := l.callbacks().OnSendComplete; cb != nil {
		cb(conn)
	}
}

// Subscribe raises OnSubscriptionChanged.
func (l *Link) Subscribe(enabled bool) {
	if cb := l.callbacks().OnSubscriptionChanged; cb != nil {
		cb(enabled)
	}
}

// Sent returns a copy of the notification log.
func (l *Link) Sent() []Sent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Sent(nil), l.sent...)
}

// SendSizes returns the payload size of each logged notification.
func (l *Link) SendSizes() []int {
	l.mu.Lock()
	defer l.mu.Unlock()
	sizes := make([]int, len(l.sent))
	for i, s := range l.sent {
		sizes[i] = len(s.Data)
	}
	return sizes
}

// Reset clears the notification log.
func (l *Link) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sent = nil
}

func (l *Link) callbacks() api.LinkCallbacks {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cb
}
