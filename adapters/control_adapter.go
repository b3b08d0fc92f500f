// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control using control package primitives.

package adapters

import (
	"github.com/momentics/hioload-nus/api"
	"github.com/momentics/hioload-nus/control"
)

// Ensure compile-time interface compliance.
var _ api.Control = (*ControlAdapter)(nil)

type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

// NewControlAdapter wraps cfg (defaults when nil) with fresh metrics and probes.
func NewControlAdapter(cfg *control.Config) *ControlAdapter {
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(cfg),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

func (c *ControlAdapter) Config() control.Config {
	return c.config.Get()
}

func (c *ControlAdapter) UpdateConfig(mutate func(*control.Config)) error {
	return c.config.Update(mutate)
}

func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	debugStats := c.debug.DumpState()
	combined := make(map[string]any, len(stats)+len(debugStats))
	for k, v := range stats {
		combined[k] = v
	}
	for k, v := range debugStats {
		combined["debug."+k] = v
	}
	return combined
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
}

func (c *ControlAdapter) AddMetric(key string, delta int64) {
	c.metrics.Add(key, delta)
}

func (c *ControlAdapter) Counter(key string) int64 {
	return c.metrics.Counter(key)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}
