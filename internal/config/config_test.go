package config

import (
	"os"
	"testing"
)

func TestDefaultCoreConfig(t *testing.T) {
	cfg := DefaultCoreConfig()
	if cfg.LeafSize != DefaultLeafSize || cfg.MaxParseBytes != DefaultMaxParseBytes || cfg.DefaultContextBytes != DefaultContextBytes {
		t.Fatalf("DefaultCoreConfig = %+v, want defaults", cfg)
	}
}

func TestNewCoreConfigValidation(t *testing.T) {
	if _, err := NewCoreConfig(CoreConfig{LeafSize: 0, MaxParseBytes: 10, DefaultContextBytes: 0}); err == nil {
		t.Fatal("NewCoreConfig accepted LeafSize 0")
	}
	if _, err := NewCoreConfig(CoreConfig{LeafSize: 1, MaxParseBytes: 0, DefaultContextBytes: 0}); err == nil {
		t.Fatal("NewCoreConfig accepted MaxParseBytes 0")
	}
	if _, err := NewCoreConfig(CoreConfig{LeafSize: 1, MaxParseBytes: 1, DefaultContextBytes: -1}); err == nil {
		t.Fatal("NewCoreConfig accepted negative DefaultContextBytes")
	}
	cfg, err := NewCoreConfig(CoreConfig{LeafSize: 1, MaxParseBytes: 1, DefaultContextBytes: 0})
	if err != nil {
		t.Fatalf("NewCoreConfig rejected valid config: %v", err)
	}
	if cfg.LeafSize != 1 {
		t.Fatalf("NewCoreConfig returned %+v", cfg)
	}
}

func TestLoadCoreConfigFromEnv(t *testing.T) {
	t.Setenv("FRESH_LEAF_SIZE", "8192")
	t.Setenv("FRESH_MAX_PARSE_BYTES", "2048")
	t.Setenv("FRESH_CONTEXT_BYTES", "16")

	cfg, err := LoadCoreConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadCoreConfigFromEnv: %v", err)
	}
	if cfg.LeafSize != 8192 || cfg.MaxParseBytes != 2048 || cfg.DefaultContextBytes != 16 {
		t.Fatalf("LoadCoreConfigFromEnv = %+v, want {8192,2048,16}", cfg)
	}
}

func TestLoadCoreConfigFromEnvFallsBackOnUnparsable(t *testing.T) {
	t.Setenv("FRESH_LEAF_SIZE", "not-a-number")
	os.Unsetenv("FRESH_MAX_PARSE_BYTES")
	os.Unsetenv("FRESH_CONTEXT_BYTES")

	cfg, err := LoadCoreConfigFromEnv()
	if err != nil {
		t.Fatalf("LoadCoreConfigFromEnv: %v", err)
	}
	if cfg.LeafSize != DefaultLeafSize {
		t.Fatalf("LeafSize = %d, want default %d on unparsable input", cfg.LeafSize, DefaultLeafSize)
	}
}

func TestWithSetters(t *testing.T) {
	cfg := DefaultCoreConfig().WithLeafSize(10).WithMaxParseBytes(20).WithDefaultContextBytes(30)
	if cfg.LeafSize != 10 || cfg.MaxParseBytes != 20 || cfg.DefaultContextBytes != 30 {
		t.Fatalf("With* chain = %+v, want {10,20,30}", cfg)
	}
}
