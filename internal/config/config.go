package config

import (
	"os"
	"strconv"
)

// Config holds the settings of a dump that can come from the environment
type Config struct {
	OutputDir string // directory the dump file is created in
	Compress  string // compression format name
	Exclude   string // comma-separated glob patterns
	MaxDepth  int    // 0 for unlimited
}

// New creates a new Config with values from environment variables or defaults
func New() *Config {
	return &Config{
		OutputDir: getenv("DUMP_SYS_PROC_OUTPUT_DIR", "."),
		Compress:  getenv("DUMP_SYS_PROC_COMPRESS", "none"),
		Exclude:   getenv("DUMP_SYS_PROC_EXCLUDE", ""),
		MaxDepth:  getenvInt("DUMP_SYS_PROC_MAX_DEPTH", 0),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v < 0 {
		return fallback
	}
	return v
}
