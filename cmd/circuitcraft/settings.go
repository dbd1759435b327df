package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/connectors"
	"github.com/randalmurphal/circuitcraft/pkg/circuitcraft/validation"
)

const (
	envPrefix  = "CIRCUITCRAFT"
	configName = "circuitcraft"
)

// settings are the host options shared by every command. Values come
// from flags, then CIRCUITCRAFT_* variables, then circuitcraft.yaml.
type settings struct {
	LogLevel    string        `json:"log_level" mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat   string        `json:"log_format" mapstructure:"log_format" validate:"oneof=auto text json"`
	History     string        `json:"history" mapstructure:"history"`
	HTTPTimeout time.Duration `json:"http_timeout" mapstructure:"http_timeout" validate:"gt=0"`
	NodeTimeout time.Duration `json:"node_timeout" mapstructure:"node_timeout" validate:"gte=0"`
	Metrics     bool          `json:"metrics" mapstructure:"metrics"`
	Tracing     bool          `json:"tracing" mapstructure:"tracing"`
}

// flagKeys maps persistent flag names to settings keys.
var flagKeys = map[string]string{
	"log-level":    "log_level",
	"log-format":   "log_format",
	"history":      "history",
	"http-timeout": "http_timeout",
	"node-timeout": "node_timeout",
	"metrics":      "metrics",
	"tracing":      "tracing",
}

func addSettingsFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Settings file (default: ./circuitcraft.yaml if present)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.String("log-format", "auto", "Log format: auto, text, json")
	flags.String("history", "", "SQLite database for execution history")
	flags.Duration("http-timeout", connectors.DefaultHTTPTimeout, "Default timeout of http-request nodes")
	flags.Duration("node-timeout", 0, "Bound on each node's execution (0 = none)")
	flags.Bool("metrics", false, "Record OpenTelemetry metrics and log them after the run")
	flags.Bool("tracing", false, "Record OpenTelemetry spans and log them")
}

// loadSettings resolves settings for the given flags.
func loadSettings(flags *pflag.FlagSet) (settings, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "auto")
	v.SetDefault("history", "")
	v.SetDefault("http_timeout", connectors.DefaultHTTPTimeout)
	v.SetDefault("node_timeout", time.Duration(0))
	v.SetDefault("metrics", false)
	v.SetDefault("tracing", false)

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return settings{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return settings{}, fmt.Errorf("decode settings: %w", err)
	}
	s.LogLevel = strings.ToLower(s.LogLevel)
	s.LogFormat = strings.ToLower(s.LogFormat)

	if err := validation.Validate(s); err != nil {
		return settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
