package numfmt

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// FormatRequest is a single format call. A nil Value means the value is
// absent; Locale, when non-empty, overrides the active locales.
type FormatRequest struct {
	Value      *float64
	Format     string
	Locale     []string
	AllowEmpty bool
	Options    Options
}

// LocaleSource records where the locales of a Resolution came from.
type LocaleSource string

const (
	LocaleFromRequest  LocaleSource = "request"
	LocaleFromContext  LocaleSource = "context"
	LocaleFromProvider LocaleSource = "provider"
	LocaleFromDefault  LocaleSource = "default"
)

// Resolution is the effective input handed to the formatter.
type Resolution struct {
	Format       string
	PresetFound  bool
	Options      Options
	Locales      []string
	LocaleSource LocaleSource
}

// Resolver merges named presets with inline options and drives a NumberFormatter
// for the active locale.
type Resolver struct {
	formats       FormatStore
	formatter     NumberFormatter
	locales       LocaleProvider
	defaultLocale string
	strict        bool
	logger        Logger
	hooks         []FormatHook
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

func WithResolverFormats(formats FormatStore) ResolverOption {
	return func(r *Resolver) {
		r.formats = formats
	}
}

func WithResolverLocaleProvider(provider LocaleProvider) ResolverOption {
	return func(r *Resolver) {
		r.locales = provider
	}
}

func WithResolverDefaultLocale(locale string) ResolverOption {
	return func(r *Resolver) {
		r.defaultLocale = canonicalLocale(locale)
	}
}

// WithResolverStrictFormats makes unknown preset names fail with ErrUnknownFormat.
func WithResolverStrictFormats(strict bool) ResolverOption {
	return func(r *Resolver) {
		r.strict = strict
	}
}

func WithResolverLogger(logger Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

func WithResolverHooks(hooks ...FormatHook) ResolverOption {
	return func(r *Resolver) {
		for _, hook := range hooks {
			if hook != nil {
				r.hooks = append(r.hooks, hook)
			}
		}
	}
}

func NewResolver(formatter NumberFormatter, opts ...ResolverOption) (*Resolver, error) {
	if formatter == nil {
		return nil, errors.New("numfmt: resolver requires a number formatter")
	}

	r := &Resolver{
		formatter:     formatter,
		defaultLocale: "en-US",
		logger:        NopLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	if r.formats == nil {
		r.formats = NewFormatRegistry(nil)
	}
	return r, nil
}

// Format renders req using the active locales.
func (r *Resolver) Format(req FormatRequest) (string, error) {
	return r.FormatContext(context.Background(), req)
}

// FormatContext renders req. Locales stored with WithLocale are used when the
// request has no override; they take precedence over the locale provider.
func (r *Resolver) FormatContext(ctx context.Context, req FormatRequest) (string, error) {
	if r == nil || r.formatter == nil {
		return "", errors.New("numfmt: resolver is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if req.Value == nil {
		if req.AllowEmpty {
			return "", nil
		}
		return "", invalidArgument("a value is required unless allowEmpty is set")
	}

	resolution, err := r.ResolveContext(ctx, req)
	if err != nil {
		return "", err
	}

	hookCtx := &FormatHookContext{
		Context: ctx,
		Value:   *req.Value,
		Format:  resolution.Format,
		Locales: resolution.Locales,
		Options: resolution.Options,
	}
	hookCtx.SetMetadata(MetadataPresetFound, resolution.PresetFound)
	hookCtx.SetMetadata(MetadataLocaleSource, string(resolution.LocaleSource))

	for _, hook := range r.hooks {
		hook.BeforeFormat(hookCtx)
	}

	result, err := r.formatter.FormatNumber(hookCtx.Value, hookCtx.Locales, hookCtx.Options)
	if err != nil {
		locale := ""
		if len(hookCtx.Locales) > 0 {
			locale = hookCtx.Locales[0]
		}
		err = newFormatError(locale, hookCtx.Options, err)
		result = ""
	}
	hookCtx.Result = result
	hookCtx.Error = err

	for _, hook := range r.hooks {
		hook.AfterFormat(hookCtx)
	}

	return hookCtx.Result, hookCtx.Error
}

// Resolve returns the merged options and locales for req without formatting.
func (r *Resolver) Resolve(req FormatRequest) (Resolution, error) {
	return r.ResolveContext(context.Background(), req)
}

func (r *Resolver) ResolveContext(ctx context.Context, req FormatRequest) (Resolution, error) {
	if r == nil {
		return Resolution{}, errors.New("numfmt: resolver is not configured")
	}

	resolution := Resolution{Format: strings.TrimSpace(req.Format)}

	var base Options
	if resolution.Format != "" {
		base, resolution.PresetFound = r.formats.Lookup(resolution.Format)
		if !resolution.PresetFound {
			if r.strict {
				return Resolution{}, fmt.Errorf("%w: %q", ErrUnknownFormat, resolution.Format)
			}
			r.logger.Debug("unknown number format, using inline options only", "format", resolution.Format)
		}
	}

	resolution.Options = base.Merge(req.Options)
	resolution.Locales, resolution.LocaleSource = r.activeLocales(ctx, req.Locale)
	return resolution, nil
}

// Locales returns the locales a call without an override would use.
func (r *Resolver) Locales(ctx context.Context) []string {
	if r == nil {
		return nil
	}
	locales, _ := r.activeLocales(ctx, nil)
	return locales
}

// Formats exposes the preset store.
func (r *Resolver) Formats() FormatStore {
	if r == nil {
		return nil
	}
	return r.formats
}

func (r *Resolver) activeLocales(ctx context.Context, override []string) ([]string, LocaleSource) {
	if locales := normalizeLocales(override); len(locales) > 0 {
		return locales, LocaleFromRequest
	}
	if locales := LocalesFromContext(ctx); len(locales) > 0 {
		return locales, LocaleFromContext
	}
	if r.locales != nil {
		if locales := normalizeLocales(r.locales.Locales()); len(locales) > 0 {
			return locales, LocaleFromProvider
		}
	}
	if r.defaultLocale == "" {
		return nil, LocaleFromDefault
	}
	return []string{r.defaultLocale}, LocaleFromDefault
}
