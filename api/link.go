// File: api/link.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Notification link collaborator consumed by the transport adapter.

package api

// Conn identifies one link-level connection. A nil Conn addresses every
// subscribed connection.
type Conn interface {
	// ID returns a printable connection identifier.
	ID() string
}

// Link is the notification service the adapter sends through.
type Link interface {
	// Send pushes p as a single notification to conn (nil broadcasts).
	Send(conn Conn, p []byte) error
	// NegotiatedLimit returns the maximum notification payload for conn.
	NegotiatedLimit(conn Conn) int
	// ForEachSubscribed visits every connection subscribed to notifications.
	ForEachSubscribed(fn func(conn Conn))
	// Register installs the callbacks the link raises.
	Register(cb LinkCallbacks) error
}

// LinkCallbacks are invoked by the link from arbitrary goroutines.
type LinkCallbacks struct {
	OnReceived            func(conn Conn, p []byte)
	OnSendComplete        func(conn Conn)
	OnSubscriptionChanged func(enabled bool)
}
