// control/platform.go
// Author: momentics <momentics@gmail.com>
//
// Process-level debug probes.

package control

import (
	"runtime"
)

// RegisterPlatformProbes sets process-wide debug metrics.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}
