// Package api
// Author: momentics@gmail.com
//
// Bounded byte queue contract shared by the RX and TX paths.

package api

// ByteRing is a fixed-capacity, non-blocking byte FIFO.
type ByteRing interface {
	// Put stores as many leading bytes of p as fit and returns the count.
	Put(p []byte) int
	// Get moves up to len(p) oldest bytes into p and returns the count.
	Get(p []byte) int
	// Claim exposes up to max contiguous queued bytes without removing them.
	Claim(max int) []byte
	// Commit removes n bytes exposed by the most recent Claim.
	Commit(n int)
	// Len returns the number of queued bytes.
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
}
