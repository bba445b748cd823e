// Package config provides configuration management.
package config

import (
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"ebill/internal/errors"
	"ebill/internal/logging"
)

// EnvPrefix is prepended to every environment override, e.g. EBILL_STORAGE_URI.
const EnvPrefix = "EBILL"

// Config is the main application configuration
type Config struct {
	// Storage configures the record sink
	Storage StorageConfig `mapstructure:"storage" json:"storage"`

	// Tariff configures the rate schedule
	Tariff TariffConfig `mapstructure:"tariff" json:"tariff"`

	// Output contains output configuration
	Output OutputConfig `mapstructure:"output" json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `mapstructure:"logging" json:"logging"`
}

// StorageConfig contains record sink settings
type StorageConfig struct {
	// Backend is one of mongo, file, memory
	Backend string `mapstructure:"backend" json:"backend"`

	// URI is the mongo connection string. It carries credentials and is
	// only ever supplied from the environment or a config file.
	URI string `mapstructure:"uri" json:"uri,omitempty"`

	// Database is the mongo database name
	Database string `mapstructure:"database" json:"database"`

	// Collection is the mongo collection name
	Collection string `mapstructure:"collection" json:"collection"`

	// Timeout bounds connect plus insert
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`

	// FilePath is the JSON-lines file used by the file backend
	FilePath string `mapstructure:"file_path" json:"file_path"`
}

// TariffConfig contains rate schedule settings
type TariffConfig struct {
	// File is an optional HCL tariff file; empty uses the built-in schedule
	File string `mapstructure:"file" json:"file,omitempty"`

	// Currency is the symbol printed before amounts
	Currency string `mapstructure:"currency" json:"currency"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Format is the invoice format (cli, json, yaml)
	Format string `mapstructure:"format" json:"format"`

	// NoColor disables ANSI colours on status lines
	NoColor bool `mapstructure:"no_color" json:"no_color"`

	// ShowDetails adds the per-tier breakdown to the cli invoice
	ShowDetails bool `mapstructure:"show_details" json:"show_details"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Storage: StorageConfig{
			Backend:    "mongo",
			Database:   "billing",
			Collection: "electricity_bills",
			Timeout:    10 * time.Second,
			FilePath:   filepath.Join(homeDir, ".ebill", "bills.jsonl"),
		},
		Tariff: TariffConfig{
			Currency: "Rs.",
		},
		Output: OutputConfig{
			Format:      "cli",
			NoColor:     false,
			ShowDetails: false,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configuration from an optional file and EBILL_* environment
// variables. Environment values win over file values. A path that does not
// exist yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.Config("read config file "+path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Config("decode config", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.uri", d.Storage.URI)
	v.SetDefault("storage.database", d.Storage.Database)
	v.SetDefault("storage.collection", d.Storage.Collection)
	v.SetDefault("storage.timeout", d.Storage.Timeout)
	v.SetDefault("storage.file_path", d.Storage.FilePath)

	v.SetDefault("tariff.file", d.Tariff.File)
	v.SetDefault("tariff.currency", d.Tariff.Currency)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.no_color", d.Output.NoColor)
	v.SetDefault("output.show_details", d.Output.ShowDetails)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.development", d.Logging.Development)
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "mongo", "file", "memory":
	default:
		return errors.Newf(errors.TypeConfig, "unsupported storage backend: %s (use mongo, file, or memory)", c.Storage.Backend)
	}

	switch c.Output.Format {
	case "cli", "json", "yaml":
	default:
		return errors.Newf(errors.TypeConfig, "unsupported output format: %s (use cli, json, or yaml)", c.Output.Format)
	}

	if c.Storage.Timeout <= 0 {
		return errors.Newf(errors.TypeConfig, "storage timeout must be positive, got %s", c.Storage.Timeout)
	}
	return c.Logging.Validate()
}

// Redacted returns a copy safe to print: the password in the storage URI is masked.
func (c *Config) Redacted() *Config {
	out := *c
	if c.Storage.URI == "" {
		return &out
	}

	u, err := url.Parse(c.Storage.URI)
	if err != nil {
		out.Storage.URI = "<unparseable>"
		return &out
	}
	if _, hasPassword := u.User.Password(); hasPassword {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	out.Storage.URI = u.String()
	return &out
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

	return os.WriteFile(path, data, 0600)
}
