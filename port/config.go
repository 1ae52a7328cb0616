package port

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the AMS port's configuration: `{listen, verbose?}` plus the
// ambient admin-HTTP and timeout knobs this implementation carries beyond
// the distilled spec.
type Config struct {
	// Listen is the "host:port" the AMS/TCP listener binds. Default
	// Beckhoff port is 48898.
	Listen string `yaml:"listen"`

	// Verbose enables debug-level logging.
	Verbose bool `yaml:"verbose"`

	// FrameTimeoutSeconds bounds every socket read/write and every bus call.
	FrameTimeoutSeconds int `yaml:"frame_timeout_seconds"`

	// RouteLivenessSeconds is the window after which an unrefreshed route
	// is considered dead.
	RouteLivenessSeconds int `yaml:"route_liveness_seconds"`

	// RouteCleanIntervalSeconds is how often the route table is scanned for
	// expired entries.
	RouteCleanIntervalSeconds int `yaml:"route_clean_interval_seconds"`

	Admin AdminConfig `yaml:"admin"`
}

// AdminConfig configures the admin HTTP surface over the route table.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig returns the default port configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:                    "0.0.0.0:48898",
		FrameTimeoutSeconds:       5,
		RouteLivenessSeconds:      30,
		RouteCleanIntervalSeconds: 1,
		Admin: AdminConfig{
			Enabled: true,
			Listen:  "127.0.0.1:8080",
		},
	}
}

// LoadConfig loads a Config from a YAML file, starting from DefaultConfig so
// unset fields keep their default.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("port: read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("port: parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("port: invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for obvious errors.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.FrameTimeoutSeconds < 1 {
		return fmt.Errorf("frame_timeout_seconds must be at least 1")
	}
	if c.RouteLivenessSeconds < 1 {
		return fmt.Errorf("route_liveness_seconds must be at least 1")
	}
	if c.RouteCleanIntervalSeconds < 1 {
		return fmt.Errorf("route_clean_interval_seconds must be at least 1")
	}
	return nil
}

// FrameTimeout returns the per-frame socket/bus timeout as a time.Duration.
func (c *Config) FrameTimeout() time.Duration {
	return time.Duration(c.FrameTimeoutSeconds) * time.Second
}

// RouteLiveness returns the route liveness window as a time.Duration.
func (c *Config) RouteLiveness() time.Duration {
	return time.Duration(c.RouteLivenessSeconds) * time.Second
}

// RouteCleanInterval returns the route table scan interval as a time.Duration.
func (c *Config) RouteCleanInterval() time.Duration {
	return time.Duration(c.RouteCleanIntervalSeconds) * time.Second
}
