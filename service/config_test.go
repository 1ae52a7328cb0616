package service

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig should validate, got %v", err)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "service.yaml")
	yaml := "ams_addr: \"1.2.3.4.5.6:851\"\nauto_cleanup: false\nsymbols:\n  - name: \"MAIN.counter\"\n    type: \"INT32\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.AmsAddr != "1.2.3.4.5.6:851" || cfg.AutoCleanup {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.Symbols) != 1 || cfg.Symbols[0].Name != "MAIN.counter" {
		t.Errorf("cfg.Symbols = %+v", cfg.Symbols)
	}
	// Unset fields keep their DefaultConfig values.
	if cfg.PortSvc != "127.0.0.1:48898" {
		t.Errorf("PortSvc = %q, want default", cfg.PortSvc)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/path/service.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidateRejectsMissingAmsAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AmsAddr = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty ams_addr")
	}
}

func TestValidateRejectsNonPositiveTimeouts(t *testing.T) {
	cases := []func(*Config){
		func(c *Config) { c.FrameTimeoutSeconds = 0 },
		func(c *Config) { c.RoutePingSeconds = 0 },
	}
	for i, mutate := range cases {
		cfg := DefaultConfig()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("case %d: expected validation error", i)
		}
	}
}

func TestValidateRejectsBadSymbols(t *testing.T) {
	cases := []SymbolConfig{
		{Name: "", Type: "INT32"},
		{Name: "MAIN.x", Type: ""},
	}
	for _, sym := range cases {
		cfg := DefaultConfig()
		cfg.Symbols = []SymbolConfig{sym}
		if err := cfg.Validate(); err == nil {
			t.Errorf("symbol %+v should fail validation", sym)
		}
	}
}
