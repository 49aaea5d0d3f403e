package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	numfmt "github.com/goliatone/go-numfmt"
	"github.com/goliatone/go-numfmt/internal/server"
)

const envPrefix = "NUMFMT"

// cliConfig is the file and environment configuration of the numfmt command.
//
//	default_locale: en-US
//	format_files: [formats.yaml]
//	log:
//	  level: debug
//	server:
//	  addr: ":9090"
type cliConfig struct {
	DefaultLocale string       `mapstructure:"default_locale"`
	Locales       []string     `mapstructure:"locales"`
	FormatFiles   []string     `mapstructure:"format_files"`
	RulesOverride []string     `mapstructure:"rules_override"`
	StrictFormats bool         `mapstructure:"strict_formats"`
	Log           logConfig    `mapstructure:"log"`
	Server        serverConfig `mapstructure:"server"`
}

type logConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type serverConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// flagKeys maps persistent flags onto config keys. A flag only wins over the
// file and environment when it was set explicitly.
var flagKeys = map[string]string{
	"default-locale": "default_locale",
	"format-file":    "format_files",
	"rules":          "rules_override",
	"strict":         "strict_formats",
	"log-level":      "log.level",
	"log-format":     "log.format",
	"addr":           "server.addr",
}

// loadConfig reads configuration with precedence flags > env > file > defaults.
func loadConfig(configFile string, flags *pflag.FlagSet) (cliConfig, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return cliConfig{}, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return cliConfig{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg cliConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cliConfig{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return cliConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	srv := server.DefaultConfig()

	v.SetDefault("default_locale", "en-US")
	v.SetDefault("locales", []string{})
	v.SetDefault("format_files", []string{})
	v.SetDefault("rules_override", []string{})
	v.SetDefault("strict_formats", false)
	v.SetDefault("log.level", string(numfmt.InfoLevel))
	v.SetDefault("log.format", string(numfmt.TextFormat))
	v.SetDefault("server.addr", srv.Addr)
	v.SetDefault("server.read_timeout", srv.ReadTimeout)
	v.SetDefault("server.write_timeout", srv.WriteTimeout)
	v.SetDefault("server.idle_timeout", srv.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", srv.ShutdownTimeout)
}

func (c cliConfig) validate() error {
	if _, err := numfmt.ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	if _, err := numfmt.ParseLogFormat(c.Log.Format); err != nil {
		return err
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// options converts the configuration into numfmt.Config options.
func (c cliConfig) options() []numfmt.Option {
	opts := []numfmt.Option{numfmt.WithDefaultLocale(c.DefaultLocale)}
	if len(c.Locales) > 0 {
		opts = append(opts, numfmt.WithLocales(c.Locales...))
	}
	if files := nonEmpty(c.FormatFiles); len(files) > 0 {
		opts = append(opts, numfmt.WithFormatFiles(files...))
	}
	if files := nonEmpty(c.RulesOverride); len(files) > 0 {
		opts = append(opts, numfmt.WithRulesOverride(files...))
	}
	if c.StrictFormats {
		opts = append(opts, numfmt.WithStrictFormats())
	}
	return opts
}

func (c cliConfig) serverConfig() server.Config {
	return server.Config{
		Addr:            c.Server.Addr,
		ReadTimeout:     c.Server.ReadTimeout,
		WriteTimeout:    c.Server.WriteTimeout,
		IdleTimeout:     c.Server.IdleTimeout,
		ShutdownTimeout: c.Server.ShutdownTimeout,
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
