// File: api/transport.go
// Author: momentics <momentics@gmail.com>
//
// Byte-stream contract consumed by a line-oriented shell.

package api

// StreamTransport is the non-blocking byte stream a shell runs on.
// Read and Write never fail; they degrade to partial results.
type StreamTransport interface {
	// Init records the event handler and its opaque context.
	Init(handler EventHandler, ctx any) error
	// Uninit releases the stream consumer.
	Uninit() error
	// Enable starts the stream. Blocking mode is rejected with ErrNotSupported.
	Enable(blocking bool) error
	// Read drains up to len(p) received bytes; 0 means nothing is buffered.
	Read(p []byte) int
	// Write queues p for transmission and returns the accepted count.
	Write(p []byte) int
}
