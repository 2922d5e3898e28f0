// Package config holds the ambient, startup-time configuration surface:
// the locale and output-mode options named in spec.md §6, plus the
// resolver/probe tuning knobs the orchestrator and resolver need.
// Grounded on officialpriyam-Propel-Wings's struct-tag default pattern
// (modules/alwaysmotd/config.go) and the teacher's internal/cli/settings.go
// (JSON-file load/save, Validate), applied with github.com/creasty/defaults
// instead of the teacher's hand-written defaultSettings() constructor.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/creasty/defaults"
)

// Config is the full set of options a run can be started with.
type Config struct {
	// Language is the initial locale key (§6 "language").
	Language string `json:"language" default:"zh-cn"`

	// Type is the status-formatter output mode (§4.6): 0 structured,
	// 1 plain-text+favicon, 2 plain-text-only.
	Type int `json:"type" default:"0"`

	// TimeoutSeconds is the per-socket-operation timeout (§5).
	TimeoutSeconds int `json:"timeout_seconds" default:"5"`

	// DNSTimeoutSeconds and DNSRetries bound the resolver's DNS exchange
	// budget (§4.1: "10s per-query deadline and up to 3 retries").
	DNSTimeoutSeconds int `json:"dns_timeout_seconds" default:"10"`
	DNSRetries        int `json:"dns_retries" default:"3"`

	// EnableSRV toggles SRV-record resolution (§4.1).
	EnableSRV bool `json:"enable_srv" default:"true"`

	// MaxConcurrentProbes bounds how many endpoints one orchestrator run
	// probes at once (§5 "offload... to a worker pool").
	MaxConcurrentProbes int `json:"max_concurrent_probes" default:"32"`

	// LanguageFilePath points at the on-disk language.json table (§6).
	LanguageFilePath string `json:"language_file_path" default:"testdata/language.json"`
}

// Default returns a Config with every field set from its `default` tag.
func Default() (*Config, error) {
	c := &Config{}
	if err := defaults.Set(c); err != nil {
		return nil, fmt.Errorf("config: applying defaults: %w", err)
	}
	return c, nil
}

// Load reads a Config from path, layering its values over the defaults so
// a partial file only overrides what it names. A missing file is not an
// error: Default() is returned instead.
func Load(path string) (*Config, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects configuration values that would make the rest of the
// module misbehave rather than letting them surface as confusing runtime
// errors later.
func (c *Config) Validate() error {
	if c.Type < 0 || c.Type > 2 {
		return fmt.Errorf("config: type must be 0, 1, or 2, got %d", c.Type)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout_seconds must be positive")
	}
	if c.DNSTimeoutSeconds <= 0 {
		return fmt.Errorf("config: dns_timeout_seconds must be positive")
	}
	if c.DNSRetries < 1 {
		return fmt.Errorf("config: dns_retries must be at least 1")
	}
	if c.MaxConcurrentProbes < 1 {
		return fmt.Errorf("config: max_concurrent_probes must be at least 1")
	}
	return nil
}

// Timeout is TimeoutSeconds as a time.Duration, for direct use by the
// probe and orchestrator packages.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DNSTimeout is DNSTimeoutSeconds as a time.Duration, for direct use by
// resolve.New.
func (c *Config) DNSTimeout() time.Duration {
	return time.Duration(c.DNSTimeoutSeconds) * time.Second
}
