package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alnah/go-mdnotes/internal/config"
)

// envConfig holds configuration from environment variables.
type envConfig struct {
	ConfigPath string        // MDNOTES_CONFIG: config file name or path
	Timeout    time.Duration // MDNOTES_TIMEOUT: PDF export timeout
	StorePath  string        // MDNOTES_STORE: sqlite database path
	ExportDir  string        // MDNOTES_EXPORT_DIR: default export directory
}

// knownEnvVars lists every MDNOTES_* variable the CLI reads.
var knownEnvVars = map[string]bool{
	"MDNOTES_CONFIG":     true,
	"MDNOTES_TIMEOUT":    true,
	"MDNOTES_STORE":      true,
	"MDNOTES_EXPORT_DIR": true,
}

// loadEnvConfig reads configuration from environment variables.
// Invalid or non-positive timeouts are ignored.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath: getenv("MDNOTES_CONFIG"),
		StorePath:  getenv("MDNOTES_STORE"),
		ExportDir:  getenv("MDNOTES_EXPORT_DIR"),
	}

	if timeout := getenv("MDNOTES_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDNOTES_* variables.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if strings.HasPrefix(env, "MDNOTES_") {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig applies environment values the config file left empty.
// Precedence: CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.StorePath != "" && cfg.Store.Path == "" {
		cfg.Store.Path = env.StorePath
	}
	if env.ExportDir != "" && cfg.Export.DefaultDir == "" {
		cfg.Export.DefaultDir = env.ExportDir
	}
}

// resolveTimeout picks the PDF timeout: flag, then MDNOTES_TIMEOUT, then config.
func resolveTimeout(flagValue string, env *envConfig, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: invalid timeout %q", ErrUsage, flagValue)
		}
		return d, nil
	}
	if env.Timeout > 0 {
		return env.Timeout, nil
	}
	return cfg.ExportTimeout(), nil
}
