package numfmt

import "context"

// Metadata keys set by the resolver on every FormatHookContext.
const (
	MetadataPresetFound  = "preset_found"
	MetadataLocaleSource = "locale_source"
)

// FormatHook observes, and may adjust, a format call. BeforeFormat runs after
// presets and locales are resolved; AfterFormat can rewrite Result or Error.
type FormatHook interface {
	BeforeFormat(ctx *FormatHookContext)
	AfterFormat(ctx *FormatHookContext)
}

type FormatHookContext struct {
	Context  context.Context
	Value    float64
	Format   string
	Locales  []string
	Options  Options
	Result   string
	Error    error
	Metadata map[string]any
}

func (ctx *FormatHookContext) ensureMetadata() {
	if ctx.Metadata == nil {
		ctx.Metadata = make(map[string]any)
	}
}

func (ctx *FormatHookContext) SetMetadata(key string, value any) {
	if ctx == nil || key == "" {
		return
	}
	ctx.ensureMetadata()
	ctx.Metadata[key] = value
}

func (ctx *FormatHookContext) MetadataValue(key string) (any, bool) {
	if ctx == nil || ctx.Metadata == nil {
		return nil, false
	}
	val, ok := ctx.Metadata[key]
	return val, ok
}

// PresetFound reports whether the named preset existed. Calls without a preset
// name report false.
func (ctx *FormatHookContext) PresetFound() bool {
	value, _ := ctx.MetadataValue(MetadataPresetFound)
	found, _ := value.(bool)
	return found
}

// LocaleSource reports where the locales of the call came from.
func (ctx *FormatHookContext) LocaleSource() LocaleSource {
	value, _ := ctx.MetadataValue(MetadataLocaleSource)
	switch v := value.(type) {
	case LocaleSource:
		return v
	case string:
		return LocaleSource(v)
	default:
		return ""
	}
}

// Style returns the effective style, defaulting to decimal.
func (ctx *FormatHookContext) Style() Style {
	if ctx == nil || ctx.Options.Style == "" {
		return StyleDecimal
	}
	return ctx.Options.Style
}

type FormatHookFuncs struct {
	Before func(ctx *FormatHookContext)
	After  func(ctx *FormatHookContext)
}

func (h FormatHookFuncs) BeforeFormat(ctx *FormatHookContext) {
	if h.Before != nil {
		h.Before(ctx)
	}
}

func (h FormatHookFuncs) AfterFormat(ctx *FormatHookContext) {
	if h.After != nil {
		h.After(ctx)
	}
}

// LoggingHook logs failed format calls at warn level and successful ones at debug.
func LoggingHook(logger Logger) FormatHook {
	if logger == nil {
		logger = NopLogger()
	}
	return FormatHookFuncs{
		After: func(ctx *FormatHookContext) {
			fields := []any{
				"format", ctx.Format,
				"locales", ctx.Locales,
				"options", ctx.Options.String(),
			}
			if ctx.Error != nil {
				logger.Warn("number format failed", append(fields, "error", ctx.Error)...)
				return
			}
			logger.Debug("number formatted", append(fields, "result", ctx.Result)...)
		},
	}
}
