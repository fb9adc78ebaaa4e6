// Package config loads huffcode settings from a config file, the environment
// and command-line flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Output formats.
const (
	FormatDigits = "digits"
	FormatPacked = "packed"
	FormatJSON   = "json"
)

// Log formats.
const (
	LogFormatConsole = "console"
	LogFormatJSON    = "json"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. HUFFCODE_OUTPUT_FORMAT.
const EnvPrefix = "HUFFCODE"

// Config holds all configuration for huffcode
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Input  InputConfig  `mapstructure:"input"`
	Output OutputConfig `mapstructure:"output"`
	Server ServerConfig `mapstructure:"server"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InputConfig controls how input text is read and tokenized
type InputConfig struct {
	Vocabulary     []string `mapstructure:"vocabulary"`
	VocabularyFile string   `mapstructure:"vocabulary_file"`
	Trim           bool     `mapstructure:"trim"`
}

// OutputConfig controls how results are written
type OutputConfig struct {
	Format    string `mapstructure:"format"`
	ShowCodes bool   `mapstructure:"show_codes"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	CacheSize       int           `mapstructure:"cache_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"log-level":        "log.level",
	"log-format":       "log.format",
	"vocabulary":       "input.vocabulary",
	"vocabulary-file":  "input.vocabulary_file",
	"trim":             "input.trim",
	"format":           "output.format",
	"show-codes":       "output.show_codes",
	"addr":             "server.addr",
	"cache-size":       "server.cache_size",
	"shutdown-timeout": "server.shutdown_timeout",
}

// RegisterFlags defines the command-line flags understood by Load.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", LogFormatConsole, "log format (console or json)")
	flags.StringSlice("vocabulary", nil, "comma-separated token vocabulary (default: characters of the input)")
	flags.String("vocabulary-file", "", "file with one vocabulary token per line")
	flags.Bool("trim", true, "trim surrounding whitespace from the input")
	flags.String("format", FormatDigits, "output format (digits, packed or json)")
	flags.Bool("show-codes", false, "print the code dictionary before the result")
	flags.String("addr", ":8080", "HTTP listen address for serve")
	flags.Int("cache-size", 128, "number of dictionaries cached by serve")
	flags.Duration("shutdown-timeout", 5*time.Second, "graceful shutdown deadline for serve")
}

// Load loads configuration from defaults, the optional config file at path,
// HUFFCODE_* environment variables and flags, in increasing precedence.
// Only flags that were set explicitly override other sources.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := bindFlags(v, flags); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", LogFormatConsole)

	v.SetDefault("input.vocabulary", []string{})
	v.SetDefault("input.vocabulary_file", "")
	v.SetDefault("input.trim", true)

	v.SetDefault("output.format", FormatDigits)
	v.SetDefault("output.show_codes", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cache_size", 128)
	v.SetDefault("server.shutdown_timeout", "5s")
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		flag := flags.Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatDigits, FormatPacked, FormatJSON:
	default:
		return fmt.Errorf("invalid output format: %q", c.Output.Format)
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format: %q", c.Log.Format)
	}
	if len(c.Input.Vocabulary) != 0 && c.Input.VocabularyFile != "" {
		return fmt.Errorf("vocabulary and vocabulary_file are mutually exclusive")
	}
	if c.Server.CacheSize <= 0 {
		return fmt.Errorf("invalid server cache size: %d", c.Server.CacheSize)
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("invalid server shutdown timeout: %v", c.Server.ShutdownTimeout)
	}
	return nil
}
