package numfmt

import (
	"errors"
	"fmt"
)

// Config captures resolver and formatter setup.
type Config struct {
	DefaultLocale  string
	Locales        []string
	Formats        Formats
	FormatLoader   FormatLoader
	Store          FormatStore
	Formatter      NumberFormatter
	LocaleProvider LocaleProvider
	Logger         Logger
	Hooks          []FormatHook
	StrictFormats  bool

	rulesOverrides []string
	rulesProvider  *RulesProvider
	localeState    *LocaleState
	localeCatalog  *LocaleCatalog
}

// Option mutates Config during construction.
type Option func(*Config) error

// NewConfig builds Config via supplied options.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := &Config{}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	cfg.Locales = normalizeLocales(cfg.Locales)
	cfg.DefaultLocale = canonicalLocale(cfg.DefaultLocale)
	if cfg.DefaultLocale == "" {
		if len(cfg.Locales) > 0 {
			cfg.DefaultLocale = cfg.Locales[0]
		} else {
			cfg.DefaultLocale = "en-US"
		}
	}

	if cfg.Logger == nil {
		cfg.Logger = NopLogger()
	}

	if cfg.Store == nil {
		store, err := cfg.buildStore()
		if err != nil {
			return nil, err
		}
		cfg.Store = store
	}

	if cfg.Formatter == nil {
		provider, err := cfg.ensureRulesProvider()
		if err != nil {
			return nil, err
		}
		formatter, err := NewRulesFormatter(provider)
		if err != nil {
			return nil, err
		}
		cfg.Formatter = formatter
	}

	if cfg.LocaleProvider == nil {
		cfg.localeState = NewLocaleState(cfg.Locales...)
		cfg.LocaleProvider = cfg.localeState
	}

	return cfg, nil
}

// WithDefaultLocale sets the locale used when no active locale is available.
func WithDefaultLocale(locale string) Option {
	return func(c *Config) error {
		c.DefaultLocale = locale
		return nil
	}
}

// WithLocales sets the initial active locales of the built-in LocaleState.
func WithLocales(locales ...string) Option {
	return func(c *Config) error {
		c.Locales = append(c.Locales, locales...)
		return nil
	}
}

// WithFormats registers presets in code. They override presets with the same
// name coming from a loader.
func WithFormats(formats Formats) Option {
	return func(c *Config) error {
		if len(formats) == 0 {
			return nil
		}
		if c.Formats == nil {
			c.Formats = make(Formats, len(formats))
		}
		for name, opts := range formats {
			if err := opts.ValidatePartial(); err != nil {
				return fmt.Errorf("numfmt: format %q: %w", name, err)
			}
		}
		mergeFormats(c.Formats, formats)
		return nil
	}
}

func WithFormatLoader(loader FormatLoader) Option {
	return func(c *Config) error {
		c.FormatLoader = loader
		return nil
	}
}

// WithFormatFiles loads presets from JSON, YAML or TOML files.
func WithFormatFiles(paths ...string) Option {
	return func(c *Config) error {
		if len(paths) == 0 {
			return nil
		}
		c.FormatLoader = NewFileLoader(paths...)
		return nil
	}
}

func WithFormatStore(store FormatStore) Option {
	return func(c *Config) error {
		c.Store = store
		return nil
	}
}

func WithFormatter(formatter NumberFormatter) Option {
	return func(c *Config) error {
		c.Formatter = formatter
		return nil
	}
}

// WithLocaleProvider replaces the built-in LocaleState.
func WithLocaleProvider(provider LocaleProvider) Option {
	return func(c *Config) error {
		c.LocaleProvider = provider
		return nil
	}
}

// WithStrictFormats makes unknown preset names an error instead of an empty base.
func WithStrictFormats() Option {
	return func(c *Config) error {
		c.StrictFormats = true
		return nil
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

func WithFormatHooks(hooks ...FormatHook) Option {
	return func(c *Config) error {
		for _, hook := range hooks {
			if hook == nil {
				continue
			}
			c.Hooks = append(c.Hooks, hook)
		}
		return nil
	}
}

// WithRulesOverride merges number rule files over the embedded CLDR data.
func WithRulesOverride(paths ...string) Option {
	return func(c *Config) error {
		c.rulesOverrides = append(c.rulesOverrides, paths...)
		c.rulesProvider = nil
		c.localeCatalog = nil
		return nil
	}
}

func (cfg *Config) BuildResolver() (*Resolver, error) {
	if cfg == nil {
		return nil, errors.New("numfmt: nil config")
	}

	return NewResolver(cfg.Formatter,
		WithResolverFormats(cfg.Store),
		WithResolverLocaleProvider(cfg.LocaleProvider),
		WithResolverDefaultLocale(cfg.DefaultLocale),
		WithResolverStrictFormats(cfg.StrictFormats),
		WithResolverLogger(cfg.Logger),
		WithResolverHooks(cfg.Hooks...),
	)
}

// LocaleState returns the built-in locale state, or nil when a custom
// LocaleProvider was configured.
func (cfg *Config) LocaleState() *LocaleState {
	if cfg == nil {
		return nil
	}
	return cfg.localeState
}

// RulesProvider returns the number rules in use by the default formatter.
func (cfg *Config) RulesProvider() (*RulesProvider, error) {
	if cfg == nil {
		return nil, errors.New("numfmt: nil config")
	}
	return cfg.ensureRulesProvider()
}

// LocaleCatalog lists the locales with number rules.
func (cfg *Config) LocaleCatalog() (*LocaleCatalog, error) {
	if cfg == nil {
		return nil, errors.New("numfmt: nil config")
	}
	if cfg.localeCatalog != nil {
		return cfg.localeCatalog, nil
	}
	provider, err := cfg.ensureRulesProvider()
	if err != nil {
		return nil, err
	}
	cfg.localeCatalog = NewLocaleCatalog(provider, cfg.DefaultLocale)
	return cfg.localeCatalog, nil
}

func (cfg *Config) TemplateHelpers(r *Resolver, helperCfg HelperConfig) map[string]any {
	if helperCfg.LocaleState == nil && cfg != nil {
		helperCfg.LocaleState = cfg.localeState
	}
	return TemplateHelpers(r, helperCfg)
}

func (cfg *Config) buildStore() (FormatStore, error) {
	formats := make(Formats)
	if cfg.FormatLoader != nil {
		loaded, err := cfg.FormatLoader.Load()
		if err != nil {
			return nil, err
		}
		mergeFormats(formats, loaded)
	}
	mergeFormats(formats, cfg.Formats)
	return NewFormatRegistry(formats), nil
}

func (cfg *Config) ensureRulesProvider() (*RulesProvider, error) {
	if cfg.rulesProvider != nil {
		return cfg.rulesProvider, nil
	}

	data, err := LoadRulesData(cfg.rulesOverrides...)
	if err != nil {
		return nil, err
	}
	provider, err := NewRulesProvider(data)
	if err != nil {
		return nil, err
	}
	cfg.rulesProvider = provider
	return provider, nil
}
