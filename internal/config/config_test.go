package config

import (
	"os"
	"testing"
)

func TestNew(t *testing.T) {
	t.Setenv("DUMP_SYS_PROC_OUTPUT_DIR", "/var/tmp")
	t.Setenv("DUMP_SYS_PROC_COMPRESS", "zstd")
	t.Setenv("DUMP_SYS_PROC_EXCLUDE", "/proc/kcore")
	t.Setenv("DUMP_SYS_PROC_MAX_DEPTH", "3")

	cfg := New()

	if cfg.OutputDir != "/var/tmp" {
		t.Errorf("Expected output dir '/var/tmp', got '%s'", cfg.OutputDir)
	}
	if cfg.Compress != "zstd" {
		t.Errorf("Expected compress 'zstd', got '%s'", cfg.Compress)
	}
	if cfg.Exclude != "/proc/kcore" {
		t.Errorf("Expected exclude '/proc/kcore', got '%s'", cfg.Exclude)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("Expected max depth 3, got %d", cfg.MaxDepth)
	}
}

func TestNewDefaults(t *testing.T) {
	for _, key := range []string{
		"DUMP_SYS_PROC_OUTPUT_DIR",
		"DUMP_SYS_PROC_COMPRESS",
		"DUMP_SYS_PROC_EXCLUDE",
		"DUMP_SYS_PROC_MAX_DEPTH",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := New()

	if cfg.OutputDir != "." {
		t.Errorf("Expected default output dir '.', got '%s'", cfg.OutputDir)
	}
	if cfg.Compress != "none" {
		t.Errorf("Expected default compress 'none', got '%s'", cfg.Compress)
	}
	if cfg.Exclude != "" {
		t.Errorf("Expected no default exclude, got '%s'", cfg.Exclude)
	}
	if cfg.MaxDepth != 0 {
		t.Errorf("Expected default max depth 0, got %d", cfg.MaxDepth)
	}
}

func TestGetenv(t *testing.T) {
	t.Setenv("TEST_VAR", "value1")
	if result := getenv("TEST_VAR", "fallback"); result != "value1" {
		t.Errorf("Expected 'value1', got '%s'", result)
	}

	t.Setenv("TEST_VAR", "")
	if result := getenv("TEST_VAR", "fallback"); result != "fallback" {
		t.Errorf("Expected 'fallback', got '%s'", result)
	}
}

func TestGetenvInt(t *testing.T) {
	tests := []struct {
		value    string
		expected int
	}{
		{"5", 5},
		{"0", 0},
		{"", 7},
		{"abc", 7},
		{"-1", 7},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_INT", tt.value)
			if got := getenvInt("TEST_INT", 7); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
