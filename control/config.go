// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Transport configuration: defaults, YAML file, NUS_* environment overrides
// and validation, plus a thread-safe store with reload listeners.

package control

import (
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v2"
)

// Config holds adapter and process settings.
type Config struct {
	TxRingSize   int    `yaml:"tx_ring_size"`
	RxRingSize   int    `yaml:"rx_ring_size"`
	Debug        bool   `yaml:"debug"`
	InitLogLevel int    `yaml:"init_log_level"` // 0 disables the shell log backend
	AsyncEvents  bool   `yaml:"async_events"`
	LogFile      string `yaml:"log_file"`
	Prompt       string `yaml:"prompt"`
}

// Log levels accepted by InitLogLevel.
const (
	LogLevelNone = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelDebug
)

// DefaultConfig returns the built-in settings.
func DefaultConfig() *Config {
	return &Config{
		TxRingSize:   1024,
		RxRingSize:   64,
		InitLogLevel: LogLevelInfo,
		Prompt:       "bt_nus:~$ ",
	}
}

// LoadConfig reads defaults, then path (if not empty), then environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	var result *multierror.Error
	intVar := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	boolVar := func(key string, dst *bool) {
		if v := os.Getenv(key); v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				result = multierror.Append(result, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	intVar("NUS_TX_RING_SIZE", &cfg.TxRingSize)
	intVar("NUS_RX_RING_SIZE", &cfg.RxRingSize)
	intVar("NUS_INIT_LOG_LEVEL", &cfg.InitLogLevel)
	boolVar("NUS_DEBUG", &cfg.Debug)
	boolVar("NUS_ASYNC_EVENTS", &cfg.AsyncEvents)
	if v := os.Getenv("NUS_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	return result.ErrorOrNil()
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.TxRingSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("tx_ring_size must be positive, got %d", c.TxRingSize))
	}
	if c.RxRingSize <= 0 {
		result = multierror.Append(result, fmt.Errorf("rx_ring_size must be positive, got %d", c.RxRingSize))
	}
	if c.InitLogLevel < LogLevelNone {
		result = multierror.Append(result, fmt.Errorf("init_log_level must not be negative, got %d", c.InitLogLevel))
	}
	return result.ErrorOrNil()
}

// ConfigStore holds the live config and notifies listeners on change.
type ConfigStore struct {
	mu        sync.RWMutex
	config    Config
	listeners []func()
}

// NewConfigStore initializes a store with cfg, or defaults when nil.
func NewConfigStore(cfg *Config) *ConfigStore {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &ConfigStore{config: *cfg}
}

// Get returns a copy of the current config.
func (cs *ConfigStore) Get() Config {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return cs.config
}

// Update validates and applies mutate, then runs listeners synchronously.
func (cs *ConfigStore) Update(mutate func(*Config)) error {
	cs.mu.Lock()
	next := cs.config
	mutate(&next)
	if err := next.Validate(); err != nil {
		cs.mu.Unlock()
		return err
	}
	cs.config = next
	listeners := append([]func(){}, cs.listeners...)
	cs.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return nil
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}
