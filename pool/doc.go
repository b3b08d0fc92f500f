// Package pool
// Author: momentics <momentics@gmail.com>
//
// Buffer layer for hioload-nus.
// ByteRing is the bounded byte FIFO backing both directions of the
// notification stream: copy-in/copy-out for the receive path and
// claim/commit for zero-copy hand-off to the link on the send path.
package pool
