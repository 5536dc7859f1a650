package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvBaseURL     = "F1RDF_BASE_URL"
	EnvOutputDir   = "F1RDF_OUTPUT_DIR"
	EnvLogLevel    = "F1RDF_LOG_LEVEL"
	EnvLogFormat   = "F1RDF_LOG_FORMAT"
	EnvConcurrency = "F1RDF_CONCURRENCY"
	EnvListenAddr  = "F1RDF_LISTEN_ADDR"
	EnvTimeout     = "F1RDF_TIMEOUT"
)

// Settings holds all configuration options.
type Settings struct {
	// API settings
	BaseURL        string   `json:"base_url" yaml:"base_url"`
	UserAgent      string   `json:"user_agent" yaml:"user_agent"`
	RequestTimeout Duration `json:"request_timeout" yaml:"request_timeout"`
	PageSize       int      `json:"page_size" yaml:"page_size"`

	// Fetch settings
	MaxConcurrentSections int `json:"max_concurrent_sections" yaml:"max_concurrent_sections"`
	DefaultSeason         int `json:"default_season" yaml:"default_season"`

	// Export settings
	OutputDir         string `json:"output_dir" yaml:"output_dir"`
	WriteSectionFiles bool   `json:"write_section_files" yaml:"write_section_files"`
	WriteWorkbook     bool   `json:"write_workbook" yaml:"write_workbook"`

	// Logging
	LogLevel  string `json:"log_level" yaml:"log_level"`   // debug, info, warn, error
	LogFormat string `json:"log_format" yaml:"log_format"` // text, json

	// HTTP service
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		BaseURL:        "https://api.jolpi.ca/ergast/f1",
		UserAgent:      "f1rdf",
		RequestTimeout: Duration{30 * time.Second},
		PageSize:       100,

		MaxConcurrentSections: 1,
		DefaultSeason:         time.Now().Year(),

		OutputDir:         filepath.Join(homeDir, "F1Data"),
		WriteSectionFiles: false,
		WriteWorkbook:     false,

		LogLevel:  "info",
		LogFormat: "text",

		ListenAddr: ":8080",
	}
}

// Load reads settings from a JSON or YAML file, chosen by extension, then
// applies environment overrides. A missing file yields the defaults with
// overrides applied.
func Load(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := settings.decode(data, filepath.Ext(path)); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := settings.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return settings, nil
}

// LoadDotEnv loads variables from .env files into the process environment
// without overriding variables that are already set. Missing files are
// ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (s *Settings) decode(data []byte, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, s)
	default:
		return json.Unmarshal(data, s)
	}
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(s)
	default:
		data, err = json.MarshalIndent(s, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ApplyEnv overrides settings from environment variables looked up with
// lookup, typically os.LookupEnv.
func (s *Settings) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		s.BaseURL = v
	}
	if v, ok := lookup(EnvOutputDir); ok && v != "" {
		s.OutputDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		s.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		s.LogFormat = v
	}
	if v, ok := lookup(EnvListenAddr); ok && v != "" {
		s.ListenAddr = v
	}
	if v, ok := lookup(EnvConcurrency); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvConcurrency, err)
		}
		s.MaxConcurrentSections = n
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		s.RequestTimeout = Duration{d}
	}
	return nil
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	switch {
	case s.BaseURL == "":
		return errors.New("base_url must not be empty")
	case !strings.HasPrefix(s.BaseURL, "http://") && !strings.HasPrefix(s.BaseURL, "https://"):
		return fmt.Errorf("base_url %q must be an http(s) URL", s.BaseURL)
	case s.RequestTimeout.Duration <= 0:
		return errors.New("request_timeout must be positive")
	case s.PageSize < 1 || s.PageSize > 100:
		return fmt.Errorf("page_size %d must be between 1 and 100", s.PageSize)
	case s.MaxConcurrentSections < 1:
		return fmt.Errorf("max_concurrent_sections %d must be at least 1", s.MaxConcurrentSections)
	case s.DefaultSeason != 0 && s.DefaultSeason < 1950:
		return fmt.Errorf("default_season %d is before 1950", s.DefaultSeason)
	}

	switch strings.ToLower(s.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", s.LogLevel)
	}
	switch strings.ToLower(s.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("log_format %q is not one of text, json", s.LogFormat)
	}
	return nil
}

// Duration is a time.Duration written as a string such as "30s" in both
// JSON and YAML files.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Bare numbers are seconds.
		var secs float64
		if err := json.Unmarshal(data, &secs); err != nil {
			return fmt.Errorf("invalid duration %s", data)
		}
		d.Duration = time.Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!int" || value.Tag == "!!float" {
		secs, err := strconv.ParseFloat(value.Value, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(secs * float64(time.Second))
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
