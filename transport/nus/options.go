// File: transport/nus/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package nus

import (
	"log"

	"github.com/momentics/hioload-nus/api"
	"github.com/momentics/hioload-nus/control"
)

// Default ring sizes.
const (
	DefaultTxRingSize = 1024
	DefaultRxRingSize = 64
)

// BootstrapFunc initializes the stream framework that owns the adapter.
// It runs once, on the first BindConnection, with the configured log level.
type BootstrapFunc func(logLevel int) error

// Option customizes adapter construction.
type Option func(*Adapter)

// WithConfig applies ring sizes, debug logging, event mode and init log level.
func WithConfig(cfg control.Config) Option {
	return func(a *Adapter) {
		a.txSize = cfg.TxRingSize
		a.rxSize = cfg.RxRingSize
		a.debug.Store(cfg.Debug)
		a.async = cfg.AsyncEvents
		a.initLogLevel = cfg.InitLogLevel
	}
}

// WithRingSizes overrides TX and RX ring capacity.
func WithRingSizes(tx, rx int) Option {
	return func(a *Adapter) {
		a.txSize = tx
		a.rxSize = rx
	}
}

// WithControl routes metrics and debug probes to ctrl.
func WithControl(ctrl api.Control) Option {
	return func(a *Adapter) {
		a.ctrl = ctrl
	}
}

// WithLogger sets the logger; the default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(a *Adapter) {
		a.logger = l
	}
}

// WithDebug enables per-operation debug logging.
func WithDebug(on bool) Option {
	return func(a *Adapter) {
		a.debug.Store(on)
	}
}

// WithAsyncEvents delivers shell events from a dispatcher goroutine
// started at Init instead of from the raising goroutine.
func WithAsyncEvents(on bool) Option {
	return func(a *Adapter) {
		a.async = on
	}
}

// WithBootstrap installs the one-time framework bootstrap.
func WithBootstrap(fn BootstrapFunc) Option {
	return func(a *Adapter) {
		a.bootstrap = fn
	}
}

// WithInitLogLevel sets the level handed to the bootstrap.
func WithInitLogLevel(level int) Option {
	return func(a *Adapter) {
		a.initLogLevel = level
	}
}
