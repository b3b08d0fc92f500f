// File: transport/nus/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package nus adapts a notification link into the non-blocking byte stream
// a line-oriented shell runs on.
//
// Thread-safety contract:
//   - Read may run concurrently with OnReceived; the RX ring is mutex guarded.
//   - Write has a single caller (the one stream consumer). It may run
//     concurrently with OnSendComplete; the TX ring is single-producer,
//     single-consumer and every send attempt runs under the flow drain token.
//   - Link callbacks may arrive on any goroutine, including re-entrantly from
//     inside api.Link.Send.
//   - No entry point blocks; each returns after bounded buffer work.
package nus
