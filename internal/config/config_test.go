package config

// Notes:
// - LoadConfig: files are written to t.TempDir and loaded by path; name lookup
//   changes the working directory and is therefore not parallel
// - Defaults: a file only overrides the keys it sets, everything else keeps
//   the DefaultConfig value
// - Validate: one table per concern (lengths, enums, ranges)

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Store.Driver != "sqlite" {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Export.Format != "html" {
		t.Errorf("Export.Format = %q, want html", cfg.Export.Format)
	}
	if cfg.Export.Style != DefaultStyleName {
		t.Errorf("Export.Style = %q, want %q", cfg.Export.Style, DefaultStyleName)
	}
	if cfg.Page.Size != "a4" || cfg.Page.Margin != DefaultMarginMM {
		t.Errorf("Page = %+v, want a4 / %v", cfg.Page, DefaultMarginMM)
	}
	if cfg.Display.GlamourStyle != DefaultGlamour {
		t.Errorf("Display.GlamourStyle = %q, want %q", cfg.Display.GlamourStyle, DefaultGlamour)
	}
	if !cfg.Preview.Sanitize {
		t.Error("Preview.Sanitize = false, want true")
	}
	if cfg.Assets.BasePath != "" {
		t.Errorf("Assets.BasePath = %q, want empty", cfg.Assets.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() error = %v", err)
	}
}

func TestValidateFieldLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		value   string
		max     int
		wantErr bool
	}{
		{"empty", "", 10, false},
		{"at limit", strings.Repeat("a", 10), 10, false},
		{"over limit", strings.Repeat("a", 11), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := validateFieldLength("field", tt.value, tt.max)
			if tt.wantErr {
				if !errors.Is(err, ErrFieldTooLong) {
					t.Errorf("error = %v, want ErrFieldTooLong", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero value", func(c *Config) { *c = Config{} }, nil},
		{"memory driver", func(c *Config) { c.Store.Driver = "memory" }, nil},
		{"uppercase enum", func(c *Config) { c.Export.Format = "PDF" }, nil},
		{"unknown driver", func(c *Config) { c.Store.Driver = "postgres" }, ErrInvalidValue},
		{"unknown format", func(c *Config) { c.Export.Format = "odt" }, ErrInvalidValue},
		{"unknown page size", func(c *Config) { c.Page.Size = "a5" }, ErrInvalidValue},
		{"unknown glamour style", func(c *Config) { c.Display.GlamourStyle = "neon" }, ErrInvalidValue},
		{"bad timeout", func(c *Config) { c.Export.Timeout = "soon" }, ErrInvalidValue},
		{"negative timeout", func(c *Config) { c.Export.Timeout = "-1s" }, ErrInvalidValue},
		{"margin default", func(c *Config) { c.Page.Margin = 0 }, nil},
		{"margin min", func(c *Config) { c.Page.Margin = MinPageMarginMM }, nil},
		{"margin max", func(c *Config) { c.Page.Margin = MaxPageMarginMM }, nil},
		{"margin too small", func(c *Config) { c.Page.Margin = 4.9 }, ErrInvalidValue},
		{"margin too large", func(c *Config) { c.Page.Margin = 51 }, ErrInvalidValue},
		{"word wrap disabled", func(c *Config) { c.Display.WordWrap = 0 }, nil},
		{"word wrap negative", func(c *Config) { c.Display.WordWrap = -1 }, ErrInvalidValue},
		{"word wrap too wide", func(c *Config) { c.Display.WordWrap = MaxWordWrap + 1 }, ErrInvalidValue},
		{"long store path", func(c *Config) { c.Store.Path = strings.Repeat("p", MaxPathLength+1) }, ErrFieldTooLong},
		{"long style", func(c *Config) { c.Export.Style = strings.Repeat("s", MaxStyleLength+1) }, ErrFieldTooLong},
		{"long addr", func(c *Config) { c.Preview.Addr = strings.Repeat("a", MaxAddrLength+1) }, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Validate_DateFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"empty", "", false},
		{"preset", "iso", false},
		{"tokens", "YYYY-MM-DD", false},
		{"unclosed bracket", "YYYY [at", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			cfg.Display.DateFormat = tt.format
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestConfig_ExportTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", DefaultTimeout},
		{"45s", 45 * time.Second},
		{"2m", 2 * time.Minute},
		{"garbage", DefaultTimeout},
		{"0s", DefaultTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Parallel()

			cfg := &Config{Export: ExportConfig{Timeout: tt.value}}
			if got := cfg.ExportTimeout(); got != tt.want {
				t.Errorf("ExportTimeout() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_StorePath(t *testing.T) {
	t.Parallel()

	t.Run("explicit path", func(t *testing.T) {
		t.Parallel()

		cfg := &Config{Store: StoreConfig{Path: "/tmp/n.db"}}
		got, err := cfg.StorePath()
		if err != nil || got != "/tmp/n.db" {
			t.Errorf("StorePath() = %q, %v", got, err)
		}
	})

	t.Run("default path", func(t *testing.T) {
		t.Parallel()

		if _, err := os.UserConfigDir(); err != nil {
			t.Skip("no user config dir")
		}
		got, err := (&Config{}).StorePath()
		if err != nil {
			t.Fatalf("StorePath() error = %v", err)
		}
		if !strings.HasSuffix(got, filepath.Join(AppDirName, "notes.db")) {
			t.Errorf("StorePath() = %q, want suffix %q", got, filepath.Join(AppDirName, "notes.db"))
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths("work")
	if len(paths) < 2 {
		t.Fatalf("SearchPaths() = %v, want at least 2 entries", paths)
	}
	if paths[0] != "work.yaml" || paths[1] != "work.yml" {
		t.Errorf("SearchPaths() first entries = %v, want work.yaml, work.yml", paths[:2])
	}
	for _, p := range paths[2:] {
		if !strings.Contains(filepath.ToSlash(p), AppDirName+"/") {
			t.Errorf("SearchPaths() entry %q not under %s", p, AppDirName)
		}
	}
}

// ---------------------------------------------------------------------------
// LoadConfig
// ---------------------------------------------------------------------------

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("valid file path loads config", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "test.yaml", `store:
  driver: memory
export:
  format: pdf
  timeout: 1m
page:
  size: letter
  margin: 20
display:
  glamourStyle: notty
  wordWrap: 100
preview:
  addr: "localhost:9000"
  sanitize: false
`)

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Store.Driver != "memory" {
			t.Errorf("Store.Driver = %q, want memory", cfg.Store.Driver)
		}
		if cfg.Export.Format != "pdf" {
			t.Errorf("Export.Format = %q, want pdf", cfg.Export.Format)
		}
		if cfg.ExportTimeout() != time.Minute {
			t.Errorf("ExportTimeout() = %v, want 1m", cfg.ExportTimeout())
		}
		if cfg.Page.Size != "letter" || cfg.Page.Margin != 20 {
			t.Errorf("Page = %+v, want letter / 20", cfg.Page)
		}
		if cfg.Display.GlamourStyle != "notty" || cfg.Display.WordWrap != 100 {
			t.Errorf("Display = %+v", cfg.Display)
		}
		if cfg.Preview.Addr != "localhost:9000" || cfg.Preview.Sanitize {
			t.Errorf("Preview = %+v", cfg.Preview)
		}
	})

	t.Run("missing sections keep defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "partial.yaml", "export:\n  format: word\n")

		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Export.Format != "word" {
			t.Errorf("Export.Format = %q, want word", cfg.Export.Format)
		}
		if cfg.Store.Driver != "sqlite" {
			t.Errorf("Store.Driver = %q, want default sqlite", cfg.Store.Driver)
		}
		if cfg.Preview.Addr != DefaultAddr {
			t.Errorf("Preview.Addr = %q, want default %q", cfg.Preview.Addr, DefaultAddr)
		}
	})

	t.Run("nonexistent file path returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("/nonexistent/path/config.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown name returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("no-such-config-name-xyz")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("invalid YAML returns ErrConfigParse", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "invalid.yaml", "export: [unclosed")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("unknown field returns ErrConfigParse in strict mode", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "unknown.yaml", "footer:\n  enabled: true\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "bad.yaml", "page:\n  size: tabloid\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})
}

func TestLoadConfig_ByName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "work.yml"), []byte("export:\n  style: technical\n"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Chdir(dir)

	cfg, err := LoadConfig("work")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Export.Style != "technical" {
		t.Errorf("Export.Style = %q, want technical", cfg.Export.Style)
	}
}
