// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, runtime metrics and debug introspection for hioload-nus.
//
// Provides concurrent-safe state handling primitives including:
//   - YAML/environment configuration with validation and live reload
//   - Counters for the receive and send paths
//   - State export, debug hooks, and probe registration
package control
