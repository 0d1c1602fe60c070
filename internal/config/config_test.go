package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Output.Dir != "reports" {
		t.Errorf("Output.Dir = %q, want reports", cfg.Output.Dir)
	}
	if cfg.Document.Title != "Deep Research Report" {
		t.Errorf("Document.Title = %q", cfg.Document.Title)
	}
	if cfg.Document.DefaultQuery != "Research Report" {
		t.Errorf("Document.DefaultQuery = %q", cfg.Document.DefaultQuery)
	}
	if cfg.PDFTimeout() != 30*time.Second {
		t.Errorf("PDFTimeout() = %v, want 30s", cfg.PDFTimeout())
	}
	if cfg.MCP.Addr != "127.0.0.1:8001" {
		t.Errorf("MCP.Addr = %q", cfg.MCP.Addr)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "title too long", mutate: func(c *Config) { c.Document.Title = strings.Repeat("x", MaxTitleLength+1) }, wantErr: ErrFieldTooLong},
		{name: "style name too long", mutate: func(c *Config) { c.Assets.Style = strings.Repeat("s", MaxNameLength+1) }, wantErr: ErrFieldTooLong},
		{name: "bad pdf timeout", mutate: func(c *Config) { c.PDF.Timeout = "soon" }, wantErr: ErrInvalidValue},
		{name: "zero pdf timeout", mutate: func(c *Config) { c.PDF.Timeout = "0s" }, wantErr: ErrInvalidValue},
		{name: "empty agency timeout", mutate: func(c *Config) { c.Agency.Timeout = "" }, wantErr: ErrInvalidValue},
		{name: "negative workers", mutate: func(c *Config) { c.Server.Workers = -1 }, wantErr: ErrInvalidValue},
		{name: "too many workers", mutate: func(c *Config) { c.Server.Workers = MaxWorkers + 1 }, wantErr: ErrInvalidValue},
		{name: "log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidValue},
		{name: "log level case-insensitive", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
		{name: "log format", mutate: func(c *Config) { c.Log.Format = "xml" }, wantErr: ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
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

func TestConfig_Validate_TimestampFormat(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Document.TimestampFormat = "[unclosed"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "document.timestampFormat") {
		t.Errorf("Validate() error = %v, want document.timestampFormat error", err)
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	t.Run("overlays file on defaults", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "output:\n  dir: out\nserver:\n  workers: 4\n")
		cfg, source, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if source != path {
			t.Errorf("source = %q, want %q", source, path)
		}
		if cfg.Output.Dir != "out" {
			t.Errorf("Output.Dir = %q, want out", cfg.Output.Dir)
		}
		if cfg.Server.Workers != 4 {
			t.Errorf("Server.Workers = %d, want 4", cfg.Server.Workers)
		}
		if cfg.Document.Title != "Deep Research Report" {
			t.Errorf("Document.Title = %q, want default", cfg.Document.Title)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()

		_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("LoadFile() error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "output:\n  directory: out\n")
		_, _, err := LoadFile(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("LoadFile() error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("api key is not read from yaml", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "vectorStore:\n  id: vs_123\n")
		cfg, _, err := LoadFile(path)
		if err != nil {
			t.Fatalf("LoadFile() error = %v", err)
		}
		if cfg.VectorStore.ID != "vs_123" || cfg.VectorStore.APIKey != "" {
			t.Errorf("VectorStore = %+v", cfg.VectorStore)
		}
	})
}

func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := SearchPaths()
	if len(paths) == 0 || paths[0] != FileName {
		t.Fatalf("SearchPaths() = %v, want %q first", paths, FileName)
	}
	for _, p := range paths[1:] {
		if !strings.Contains(p, "go-researchpdf") {
			t.Errorf("user path %q does not contain go-researchpdf", p)
		}
	}
}

func TestConfig_ApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"RESEARCHPDF_OUTPUT_DIR":    "/tmp/out",
		"RESEARCHPDF_TIMEOUT":       "45s",
		"RESEARCHPDF_WORKERS":       " 3 ",
		"RESEARCHPDF_AGENCY_SCRIPT": "python3 agency.py",
		"RESEARCHPDF_STYLE":         "",
		"OPENAI_API_KEY":            "sk-test",
		"VECTOR_STORE_ID":           "vs_abc",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := DefaultConfig()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if cfg.Output.Dir != "/tmp/out" {
		t.Errorf("Output.Dir = %q", cfg.Output.Dir)
	}
	if cfg.PDFTimeout() != 45*time.Second {
		t.Errorf("PDFTimeout() = %v", cfg.PDFTimeout())
	}
	if cfg.Server.Workers != 3 {
		t.Errorf("Server.Workers = %d", cfg.Server.Workers)
	}
	if cfg.Agency.Command != "python3 agency.py" {
		t.Errorf("Agency.Command = %q", cfg.Agency.Command)
	}
	if cfg.Assets.Style != "research" {
		t.Errorf("empty env should not override style, got %q", cfg.Assets.Style)
	}
	if cfg.VectorStore.APIKey != "sk-test" || cfg.VectorStore.ID != "vs_abc" {
		t.Errorf("VectorStore = %+v", cfg.VectorStore)
	}
}

func TestConfig_ApplyEnv_InvalidWorkers(t *testing.T) {
	t.Parallel()

	lookup := func(k string) (string, bool) {
		if k == "RESEARCHPDF_WORKERS" {
			return "many", true
		}
		return "", false
	}
	if err := DefaultConfig().ApplyEnv(lookup); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("ApplyEnv() error = %v, want ErrInvalidValue", err)
	}
}

func TestUnknownEnvVars(t *testing.T) {
	t.Parallel()

	environ := []string{
		"PATH=/usr/bin",
		"RESEARCHPDF_OUTPUT_DIR=out",
		"RESEARCHPDF_OUTPU_DIR=typo",
		"RESEARCHPDF_COLOR=red",
		"OPENAI_API_KEY=sk",
	}
	got := UnknownEnvVars(environ)
	want := []string{"RESEARCHPDF_COLOR", "RESEARCHPDF_OUTPU_DIR"}
	if len(got) != len(want) {
		t.Fatalf("UnknownEnvVars() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnknownEnvVars()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

// NOTE: LoadDotEnv and Load mutate the process environment and cannot run in parallel.
func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("RESEARCHPDF_OUTPUT_DIR=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	t.Setenv("RESEARCHPDF_OUTPUT_DIR", "from-shell")

	if err := LoadDotEnv(envFile, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv() error = %v", err)
	}
	if got := os.Getenv("RESEARCHPDF_OUTPUT_DIR"); got != "from-dotenv" {
		t.Errorf("RESEARCHPDF_OUTPUT_DIR = %q, want from-dotenv (override)", got)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output:\n  dir: from-file\n")

	t.Setenv("RESEARCHPDF_CONFIG", path)
	t.Setenv("RESEARCHPDF_OUTPUT_DIR", "from-env")

	cfg, source, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if source != path {
		t.Errorf("source = %q, want %q", source, path)
	}
	if cfg.Output.Dir != "from-env" {
		t.Errorf("Output.Dir = %q, want from-env", cfg.Output.Dir)
	}
}

func TestLoad_InvalidEnvFailsValidation(t *testing.T) {
	path := writeConfig(t, "log:\n  format: json\n")

	t.Setenv("RESEARCHPDF_TIMEOUT", "-5s")

	if _, _, err := Load(path); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("Load() error = %v, want ErrInvalidValue", err)
	}
}
