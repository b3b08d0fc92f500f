// File: api/events.go
// Package api defines stream events raised to the shell.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// StreamEvent is raised by a StreamTransport to its consumer.
type StreamEvent int

const (
	// RxReady signals that received bytes are waiting for Read.
	RxReady StreamEvent = iota
	// TxReady signals that the transport can take more writes.
	TxReady
)

func (e StreamEvent) String() string {
	switch e {
	case RxReady:
		return "rx_ready"
	case TxReady:
		return "tx_ready"
	default:
		return "unknown"
	}
}

// EventHandler receives stream events with the context given at Init.
type EventHandler func(evt StreamEvent, ctx any)

// EventSink accepts events raised by the transport.
type EventSink interface {
	Post(evt StreamEvent)
}
