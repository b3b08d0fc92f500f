// File: api/types.go
// Author: momentics <momentics@gmail.com>
//
// Shared API-level type declarations and constants.

package api

// TransportState enumerates the lifecycle of a stream transport.
type TransportState int32

const (
	StateUninitialized TransportState = iota
	StateDisabled
	StateEnabling
	StateEnabled
)

func (s TransportState) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDisabled:
		return "disabled"
	case StateEnabling:
		return "enabling"
	case StateEnabled:
		return "enabled"
	default:
		return "unknown"
	}
}
