package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-researchpdf/internal/dateutil"
	"github.com/alnah/go-researchpdf/internal/fileutil"
	"github.com/alnah/go-researchpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrFieldTooLong   = errors.New("field exceeds maximum length")
	ErrInvalidValue   = errors.New("invalid config value")
)

// FileName is the config file searched for in the standard locations.
const FileName = "researchpdf.yaml"

// Field length limits.
const (
	MaxPathLength    = 4096
	MaxTitleLength   = 200
	MaxNameLength    = 64
	MaxAddrLength    = 255
	MaxCommandLength = 1024
	MaxIDLength      = 128
	MaxWorkers       = 32
)

// Config holds all configuration for rendering and the long-running servers.
type Config struct {
	Output      OutputConfig      `yaml:"output"`
	Document    DocumentConfig    `yaml:"document"`
	Assets      AssetsConfig      `yaml:"assets"`
	PDF         PDFConfig         `yaml:"pdf"`
	Server      ServerConfig      `yaml:"server"`
	Agency      AgencyConfig      `yaml:"agency"`
	MCP         MCPConfig         `yaml:"mcp"`
	VectorStore VectorStoreConfig `yaml:"vectorStore"`
	Log         LogConfig         `yaml:"log"`
}

// OutputConfig defines where reports are written.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// DocumentConfig defines the report header.
type DocumentConfig struct {
	Title           string `yaml:"title"`           // header title
	DefaultQuery    string `yaml:"defaultQuery"`    // "Query:" label when the caller gives none
	TimestampFormat string `yaml:"timestampFormat"` // dateutil tokens or preset name
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
	Style    string `yaml:"style"`
	Template string `yaml:"template"`
}

// PDFConfig defines browser rendering options.
type PDFConfig struct {
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
}

// ServerConfig defines the HTTP API.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Workers int    `yaml:"workers"` // 0 = auto
}

// AgencyConfig defines the research agency subprocess.
type AgencyConfig struct {
	Command string `yaml:"command"`
	Timeout string `yaml:"timeout"`
}

// MCPConfig defines the MCP server.
type MCPConfig struct {
	Addr string `yaml:"addr"` // streamable HTTP listen address
}

// VectorStoreConfig defines the OpenAI vector store backend.
// The API key is read from the environment only.
type VectorStoreConfig struct {
	ID     string `yaml:"id"`
	APIKey string `yaml:"-"`
}

// LogConfig defines structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Dir: "reports"},
		Document: DocumentConfig{
			Title:           "Deep Research Report",
			DefaultQuery:    "Research Report",
			TimestampFormat: "report",
		},
		Assets: AssetsConfig{Style: "research", Template: "report"},
		PDF:    PDFConfig{Timeout: "30s"},
		Server: ServerConfig{Addr: ":8000"},
		Agency: AgencyConfig{
			Command: "python DeepResearchAgency/agency.py",
			Timeout: "10m",
		},
		MCP: MCPConfig{Addr: "127.0.0.1:8001"},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// PDFTimeout returns the parsed browser timeout.
func (c *Config) PDFTimeout() time.Duration {
	d, _ := time.ParseDuration(c.PDF.Timeout)
	return d
}

// AgencyTimeout returns the parsed agency timeout.
func (c *Config) AgencyTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Agency.Timeout)
	return d
}

// Validate checks field lengths, durations, and enumerations.
// Called by Load, but available for callers that build a Config by hand.
func (c *Config) Validate() error {
	lengths := []struct {
		field string
		value string
		max   int
	}{
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"document.title", c.Document.Title, MaxTitleLength},
		{"document.defaultQuery", c.Document.DefaultQuery, MaxTitleLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"assets.style", c.Assets.Style, MaxNameLength},
		{"assets.template", c.Assets.Template, MaxNameLength},
		{"server.addr", c.Server.Addr, MaxAddrLength},
		{"agency.command", c.Agency.Command, MaxCommandLength},
		{"mcp.addr", c.MCP.Addr, MaxAddrLength},
		{"vectorStore.id", c.VectorStore.ID, MaxIDLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.field, l.value, l.max); err != nil {
			return err
		}
	}

	if c.Document.TimestampFormat != "" {
		if _, err := dateutil.Format(c.Document.TimestampFormat, time.Time{}); err != nil {
			return fmt.Errorf("document.timestampFormat: %w", err)
		}
	}

	if err := validateDuration("pdf.timeout", c.PDF.Timeout); err != nil {
		return err
	}
	if err := validateDuration("agency.timeout", c.Agency.Timeout); err != nil {
		return err
	}

	if c.Server.Workers < 0 || c.Server.Workers > MaxWorkers {
		return fmt.Errorf("%w: server.workers must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Server.Workers)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (must be text or json)", ErrInvalidValue, c.Log.Format)
	}

	return nil
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

func validateDuration(fieldName, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidValue, fieldName)
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidValue, fieldName, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// SearchPaths lists the locations tried when no explicit config path is given.
func SearchPaths() []string {
	paths := []string{FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "go-researchpdf", FileName))
	}
	return paths
}

// LoadFile reads a config file over the defaults. An explicit path must
// exist. With an empty path the standard locations are searched and, when
// none exists, the defaults are returned with an empty source.
func LoadFile(path string) (cfg *Config, source string, err error) {
	if path == "" {
		for _, p := range SearchPaths() {
			if fileutil.FileExists(p) {
				path = p
				break
			}
		}
		if path == "" {
			return DefaultConfig(), "", nil
		}
	}

	cfg = DefaultConfig()
	if err := yamlutil.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, "", fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, path, nil
}

// Load resolves the full configuration: defaults, then the file, then
// environment overrides. The result is validated.
func Load(path string) (*Config, string, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}

	cfg, source, err := LoadFile(path)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, source, nil
}
