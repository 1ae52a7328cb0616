// Package service implements the ADS service: the process that owns one
// virtual device's symbol table, typed memory, and per-client handles, and
// executes ADS commands against them.
package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the ADS service's configuration: `{port_svc, ams_addr,
// verbose?, auto_cleanup?, symbols: [{name, size, type}]}`.
type Config struct {
	// PortSvc is the "host:port" of the port service. It is loaded and
	// defaulted but not read anywhere: the service registers with the port
	// over the in-process bus.
	PortSvc string `yaml:"port_svc"`

	// AmsAddr is this device's own AMS address, "a.b.c.d.e.f:port".
	AmsAddr string `yaml:"ams_addr"`

	Verbose bool `yaml:"verbose"`

	// AutoCleanup selects the disconnect handle-cleanup policy: true drops
	// all of a disconnected client's handles; false drops the client's
	// slot only if it already holds zero handles.
	AutoCleanup bool `yaml:"auto_cleanup"`

	Symbols []SymbolConfig `yaml:"symbols"`

	// RegistryPath, if set, persists device state to this JSON file
	// instead of an in-memory registry.
	RegistryPath string `yaml:"registry_path"`

	FrameTimeoutSeconds int `yaml:"frame_timeout_seconds"`
	RoutePingSeconds    int `yaml:"route_ping_seconds"`

	Admin AdminConfig `yaml:"admin"`
}

// SymbolConfig declares one variable. Size=0 means scalar; otherwise the
// variable is an array of Size elements of Type.
type SymbolConfig struct {
	Name       string `yaml:"name"`
	Comment    string `yaml:"comment"`
	Type       string `yaml:"type"`
	Size       uint32 `yaml:"size"`
	IndexGroup uint32 `yaml:"index_group"`
}

// AdminConfig configures the admin HTTP + WebSocket surface.
type AdminConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// DefaultConfig returns the default service configuration.
func DefaultConfig() *Config {
	return &Config{
		PortSvc:             "127.0.0.1:48898",
		AmsAddr:             "10.0.10.20.1.1:851",
		AutoCleanup:         true,
		FrameTimeoutSeconds: 5,
		RoutePingSeconds:    5,
		Admin: AdminConfig{
			Enabled: true,
			Listen:  "127.0.0.1:8081",
		},
	}
}

// LoadConfig loads a Config from a YAML file, starting from DefaultConfig so
// unset fields keep their default.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("service: read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("service: parse config file: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("service: invalid configuration: %w", err)
	}
	return config, nil
}

// Validate checks the configuration for obvious errors.
func (c *Config) Validate() error {
	if c.AmsAddr == "" {
		return fmt.Errorf("ams_addr is required")
	}
	if c.FrameTimeoutSeconds < 1 {
		return fmt.Errorf("frame_timeout_seconds must be at least 1")
	}
	if c.RoutePingSeconds < 1 {
		return fmt.Errorf("route_ping_seconds must be at least 1")
	}
	for _, sym := range c.Symbols {
		if sym.Name == "" {
			return fmt.Errorf("symbol with empty name")
		}
		if sym.Type == "" {
			return fmt.Errorf("symbol %q: type is required", sym.Name)
		}
	}
	return nil
}
