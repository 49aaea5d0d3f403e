package numfmt

import "context"

type contextKey string

const localeContextKey contextKey = "numfmt.locale"

// WithLocale stores a locale preference list in ctx. FormatContext uses it
// when the request carries no locale override.
func WithLocale(ctx context.Context, locales ...string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, localeContextKey, normalizeLocales(locales))
}

// LocalesFromContext returns the locales stored by WithLocale, if any.
func LocalesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	locales, _ := ctx.Value(localeContextKey).([]string)
	if len(locales) == 0 {
		return nil
	}
	return append([]string(nil), locales...)
}
