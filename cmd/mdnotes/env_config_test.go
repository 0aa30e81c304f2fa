package main

// Notes:
// - loadEnvConfig: valid and invalid values for every MDNOTES_* variable.
// - resolveTimeout: priority flag > env > config.
// No gaps: these are pure functions.

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-mdnotes/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		vars map[string]string
		want envConfig
	}{
		{"empty", map[string]string{}, envConfig{}},
		{
			name: "all set",
			vars: map[string]string{
				"MDNOTES_CONFIG":     "work",
				"MDNOTES_TIMEOUT":    "2m",
				"MDNOTES_STORE":      "/data/notes.db",
				"MDNOTES_EXPORT_DIR": "/exports",
			},
			want: envConfig{ConfigPath: "work", Timeout: 2 * time.Minute, StorePath: "/data/notes.db", ExportDir: "/exports"},
		},
		{"invalid timeout ignored", map[string]string{"MDNOTES_TIMEOUT": "soon"}, envConfig{}},
		{"negative timeout ignored", map[string]string{"MDNOTES_TIMEOUT": "-5s"}, envConfig{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := loadEnvConfig(func(k string) string { return tt.vars[k] })
			if *got != tt.want {
				t.Errorf("loadEnvConfig() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf, []string{
		"MDNOTES_CONFIG=work",
		"MDNOTES_TIMOUT=5s",
		"HOME=/home/me",
		"MDNOTES_STORE=x",
	})

	out := buf.String()
	if !strings.Contains(out, "MDNOTES_TIMOUT") {
		t.Errorf("expected warning for MDNOTES_TIMOUT, got %q", out)
	}
	if strings.Count(out, "warning:") != 1 {
		t.Errorf("expected exactly one warning, got %q", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills empty fields", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		applyEnvConfig(&envConfig{StorePath: "/env.db", ExportDir: "/env-out"}, cfg)

		if cfg.Store.Path != "/env.db" || cfg.Export.DefaultDir != "/env-out" {
			t.Errorf("store.path/export.defaultDir = %q/%q", cfg.Store.Path, cfg.Export.DefaultDir)
		}
	})

	t.Run("config file wins", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Store.Path = "/file.db"
		cfg.Export.DefaultDir = "/file-out"
		applyEnvConfig(&envConfig{StorePath: "/env.db", ExportDir: "/env-out"}, cfg)

		if cfg.Store.Path != "/file.db" || cfg.Export.DefaultDir != "/file-out" {
			t.Errorf("store.path/export.defaultDir = %q/%q", cfg.Store.Path, cfg.Export.DefaultDir)
		}
	})
}

func TestResolveTimeout(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Export.Timeout = "90s"

	tests := []struct {
		name    string
		flag    string
		env     time.Duration
		want    time.Duration
		wantErr error
	}{
		{"flag wins", "10s", time.Minute, 10 * time.Second, nil},
		{"env over config", "", time.Minute, time.Minute, nil},
		{"config fallback", "", 0, 90 * time.Second, nil},
		{"invalid flag", "fast", 0, 0, ErrUsage},
		{"zero flag", "0s", 0, 0, ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := resolveTimeout(tt.flag, &envConfig{Timeout: tt.env}, cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolveTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}
