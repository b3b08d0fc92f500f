// File: internal/flow/state.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package flow

import (
	"sync/atomic"

	"github.com/momentics/hioload-nus/api"
)

type connRef struct {
	conn api.Conn
}

// State is safe for use from any goroutine.
type State struct {
	linkReady    atomic.Bool
	sendInFlight atomic.Bool
	conn         atomic.Pointer[connRef]

	// drain token: one goroutine runs send attempts at a time, pending
	// records attempts requested while it was busy.
	draining atomic.Bool
	pending  atomic.Bool
}

// LinkReady reports whether the remote end is subscribed.
func (s *State) LinkReady() bool { return s.linkReady.Load() }

// SetLinkReady records the subscription state.
func (s *State) SetLinkReady(ready bool) { s.linkReady.Store(ready) }

// TryBeginSend atomically claims the right to start a send attempt.
// Only the caller that observes the false→true transition wins.
func (s *State) TryBeginSend() bool {
	return s.sendInFlight.CompareAndSwap(false, true)
}

// MarkInFlight records that a notification was handed to the link.
func (s *State) MarkInFlight() { s.sendInFlight.Store(true) }

// EndSend returns the state to idle.
func (s *State) EndSend() { s.sendInFlight.Store(false) }

// InFlight reports whether a send attempt is outstanding.
func (s *State) InFlight() bool { return s.sendInFlight.Load() }

// Conn returns the targeted connection, nil meaning every subscribed one.
func (s *State) Conn() api.Conn {
	if ref := s.conn.Load(); ref != nil {
		return ref.conn
	}
	return nil
}

// SetConn targets conn.
func (s *State) SetConn(conn api.Conn) {
	if conn == nil {
		s.conn.Store(nil)
		return
	}
	s.conn.Store(&connRef{conn: conn})
}

// ClearConn drops the targeted connection.
func (s *State) ClearConn() { s.conn.Store(nil) }

// Run executes attempt, or hands it to the goroutine already running one.
// A request arriving while attempt executes, including re-entrantly from
// inside it, causes exactly one more execution after it returns. Run never
// waits for another goroutine.
func (s *State) Run(attempt func()) {
	s.pending.Store(true)
	for s.pending.Load() && s.draining.CompareAndSwap(false, true) {
		for s.pending.Swap(false) {
			attempt()
		}
		s.draining.Store(false)
	}
}
