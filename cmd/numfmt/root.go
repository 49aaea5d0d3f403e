package main

import (
	"github.com/spf13/cobra"

	numfmt "github.com/goliatone/go-numfmt"
)

// app carries the state shared by subcommands once flags are parsed.
type app struct {
	configFile string
	cfg        cliConfig
	logger     *numfmt.ZapLogger
}

func newRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "numfmt",
		Short: "Locale aware number formatting with named presets",
		Long: `Format numbers for a locale using named presets merged with inline options.

Presets are read from JSON, YAML or TOML format files. Settings come from an
optional config file and NUMFMT_* environment variables; flags win over both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (yaml, json or toml)")
	flags.String("default-locale", "", "locale used when nothing else selects one")
	flags.StringSlice("format-file", nil, "preset file to load, repeatable")
	flags.StringSlice("rules", nil, "number rules override file, repeatable")
	flags.Bool("strict", false, "fail on unknown preset names")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (json, text)")

	root.AddCommand(
		newFormatCommand(a),
		newResolveCommand(a),
		newLocalesCommand(a),
		newServeCommand(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configFile, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := numfmt.ParseLogLevel(cfg.Log.Level)
	format, _ := numfmt.ParseLogFormat(cfg.Log.Format)
	logger, err := numfmt.NewZapLogger(numfmt.LoggerConfig{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.logger = logger
	logger.Debug("configuration loaded", "config_file", a.configFile, "default_locale", cfg.DefaultLocale)
	return nil
}

// build assembles the numfmt configuration and resolver. Extra hooks run
// after the logging hook.
func (a *app) build(hooks ...numfmt.FormatHook) (*numfmt.Config, *numfmt.Resolver, error) {
	opts := append(a.cfg.options(),
		numfmt.WithLogger(a.logger.With("component", "resolver")),
		numfmt.WithFormatHooks(append([]numfmt.FormatHook{numfmt.LoggingHook(a.logger)}, hooks...)...),
	)

	cfg, err := numfmt.NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	resolver, err := cfg.BuildResolver()
	if err != nil {
		return nil, nil, err
	}
	return cfg, resolver, nil
}
