package control

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nus.yaml")
	data := "tx_ring_size: 256\nrx_ring_size: 32\ndebug: true\nprompt: \"nus> \"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NUS_RX_RING_SIZE", "48")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TxRingSize != 256 || cfg.RxRingSize != 48 || !cfg.Debug || cfg.Prompt != "nus> " {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.InitLogLevel != LogLevelInfo {
		t.Fatalf("default init log level lost: %d", cfg.InitLogLevel)
	}
}

func TestLoadConfigRejectsBadEnv(t *testing.T) {
	t.Setenv("NUS_TX_RING_SIZE", "lots")
	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidateReportsAllErrors(t *testing.T) {
	cfg := &Config{TxRingSize: 0, RxRingSize: -1, InitLogLevel: -2}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, field := range []string{"tx_ring_size", "rx_ring_size", "init_log_level"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q does not mention %s", err, field)
		}
	}
}

func TestConfigStoreUpdateNotifies(t *testing.T) {
	store := NewConfigStore(nil)
	calls := 0
	store.OnReload(func() { calls++ })

	if err := store.Update(func(c *Config) { c.Debug = true }); err != nil {
		t.Fatal(err)
	}
	if !store.Get().Debug || calls != 1 {
		t.Fatalf("debug=%v calls=%d", store.Get().Debug, calls)
	}
	if err := store.Update(func(c *Config) { c.TxRingSize = 0 }); err == nil {
		t.Fatal("invalid update must be rejected")
	}
	if store.Get().TxRingSize != DefaultConfig().TxRingSize || calls != 1 {
		t.Fatal("rejected update must not apply or notify")
	}
}

func TestMetricsCounters(t *testing.T) {
	mr := NewMetricsRegistry()
	mr.Add("rx.bytes", 5)
	mr.Add("rx.bytes", 7)
	if mr.Counter("rx.bytes") != 12 {
		t.Fatalf("counter = %d", mr.Counter("rx.bytes"))
	}
	if mr.Updated().IsZero() {
		t.Fatal("update time not recorded")
	}
	snap := mr.GetSnapshot()
	mr.Add("rx.bytes", 1)
	if snap["rx.bytes"].(int64) != 12 {
		t.Fatal("snapshot must not alias live metrics")
	}
}

func TestDebugProbes(t *testing.T) {
	dp := NewDebugProbes()
	RegisterPlatformProbes(dp)
	dp.RegisterProbe("nus.state", func() any { return "enabled" })
	names := dp.Names()
	if len(names) != 3 || names[0] != "nus.state" {
		t.Fatalf("names = %v", names)
	}
	if dp.DumpState()["nus.state"] != "enabled" {
		t.Fatal("probe value missing")
	}
}
