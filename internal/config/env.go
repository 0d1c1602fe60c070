package config

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every variable read by ApplyEnv.
const EnvPrefix = "RESEARCHPDF_"

// Variables outside the prefix, named after the upstream SDK conventions.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvVectorStoreID = "VECTOR_STORE_ID"
)

// envSetters maps each RESEARCHPDF_* suffix to the field it overrides.
var envSetters = map[string]func(*Config, string) error{
	"CONFIG":     func(*Config, string) error { return nil }, // consumed by Load
	"OUTPUT_DIR": func(c *Config, v string) error { c.Output.Dir = v; return nil },
	"STYLE":      func(c *Config, v string) error { c.Assets.Style = v; return nil },
	"TIMEOUT":    func(c *Config, v string) error { c.PDF.Timeout = v; return nil },
	"WORKERS": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sWORKERS=%q is not an integer", ErrInvalidValue, EnvPrefix, v)
		}
		c.Server.Workers = n
		return nil
	},
	"ADDR":          func(c *Config, v string) error { c.Server.Addr = v; return nil },
	"MCP_ADDR":      func(c *Config, v string) error { c.MCP.Addr = v; return nil },
	"AGENCY_SCRIPT": func(c *Config, v string) error { c.Agency.Command = v; return nil },
	"LOG_LEVEL":     func(c *Config, v string) error { c.Log.Level = v; return nil },
}

// LoadDotEnv loads KEY=VALUE files into the process environment, overriding
// existing values. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Overload(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv. Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	keys := make([]string, 0, len(envSetters))
	for k := range envSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v, ok := lookup(EnvPrefix + k)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if err := envSetters[k](c, strings.TrimSpace(v)); err != nil {
			return err
		}
	}

	if v, ok := lookup(EnvVectorStoreID); ok && v != "" {
		c.VectorStore.ID = v
	}
	if v, ok := lookup(EnvOpenAIKey); ok {
		c.VectorStore.APIKey = v
	}
	return nil
}

// UnknownEnvVars returns RESEARCHPDF_* names from environ (KEY=VALUE pairs)
// that no setting reads, usually typos.
func UnknownEnvVars(environ []string) []string {
	var unknown []string
	for _, kv := range environ {
		key, _, _ := strings.Cut(kv, "=")
		suffix, ok := strings.CutPrefix(key, EnvPrefix)
		if !ok {
			continue
		}
		if _, known := envSetters[suffix]; !known {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}
