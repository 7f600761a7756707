// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"solar-estimate/internal/errors"
	"solar-estimate/internal/logging"
)

// Environment variables that override file settings.
const (
	EnvRules          = "SOLAR_ESTIMATE_RULES"
	EnvAddr           = "SOLAR_ESTIMATE_ADDR"
	EnvLogLevel       = "SOLAR_ESTIMATE_LOG_LEVEL"
	EnvFormat         = "SOLAR_ESTIMATE_FORMAT"
	EnvRepresentative = "SOLAR_ESTIMATE_REPRESENTATIVE"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rules locates the pricing rule document
	Rules RulesConfig `json:"rules"`

	// Company is the issuing company printed on the estimate cover
	Company CompanyConfig `json:"company"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP API settings
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RulesConfig selects the rule document.
type RulesConfig struct {
	// Path is an HCL or HCL-JSON rule document. Empty uses the embedded defaults.
	Path string `json:"path"`
}

// CompanyConfig describes the issuer of the estimate
type CompanyConfig struct {
	Name           string `json:"name"`
	PostalCode     string `json:"postal_code"`
	Address        string `json:"address"`
	Tel            string `json:"tel"`
	Fax            string `json:"fax"`
	Representative string `json:"representative"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// Color enables styled terminal output when stdout is a terminal
	Color bool `json:"color"`

	// ShowReasoning prints the flat reasoning list after the table
	ShowReasoning bool `json:"show_reasoning"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr         string        `json:"addr"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Company: CompanyConfig{
			Name:           "株式会社サンエー",
			PostalCode:     "〒238-0014",
			Address:        "神奈川県横須賀市三春町2-10",
			Tel:            "TEL 046-828-3351",
			Fax:            "FAX 046-828-3352",
			Representative: "根本　雄介",
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			Color:         true,
			ShowReasoning: true,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.solar-estimate.json
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".solar-estimate.json"
	}
	return filepath.Join(homeDir, ".solar-estimate.json")
}

// Load loads configuration from a file. A missing file yields the defaults.
// Environment overrides are applied on top in both cases.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Config("parse config "+path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, errors.Config("read config "+path, err)
	}

	config.ApplyEnv()
	return config, nil
}

// LoadDotEnv reads a .env file into the process environment if one exists.
// Variables already set in the environment win.
func LoadDotEnv(paths ...string) {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
	}
	_ = godotenv.Load(existing...)
}

// ApplyEnv overrides settings from SOLAR_ESTIMATE_* variables.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvRules)); v != "" {
		c.Rules.Path = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		c.Server.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		c.Output.DefaultFormat = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRepresentative)); v != "" {
		c.Company.Representative = v
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
