package numfmt

import (
	"context"
	"reflect"
	"strings"
)

// Helper argument names that are not formatting options.
const (
	HelperArgFormat     = "format"
	HelperArgLocale     = "locale"
	HelperArgAllowEmpty = "allowEmpty"
)

// HelperConfig configures template helper exports.
type HelperConfig struct {
	// HelperKey renames the format helper; defaults to "format_number"
	HelperKey string
	// LocaleKey is the template data key current_locale reads; defaults to "locale"
	LocaleKey string
	// LocaleState, when set, backs the set_locale helper
	LocaleState *LocaleState
	// OnError renders a failed call instead of aborting template execution
	OnError func(req FormatRequest, err error) string
}

// TemplateHelpers exposes number formatting helpers for text/template and
// html/template.
//
//	{{ format_number 40000 "format" "currency" "currency" "EUR" }}
//	{{ format_number .Missing "allowEmpty" true }}
//	{{ format_number "allowEmpty" true }}
//
// An odd number of arguments means the first one is the value; an even number
// means the value is absent. The remaining arguments are name/value pairs:
// format, locale, allowEmpty, or any option name such as minimumFractionDigits.
func TemplateHelpers(r *Resolver, cfg HelperConfig) map[string]any {
	helperKey := cfg.HelperKey
	if helperKey == "" {
		helperKey = "format_number"
	}
	localeKey := cfg.LocaleKey
	if localeKey == "" {
		localeKey = HelperArgLocale
	}

	helpers := map[string]any{
		helperKey: func(args ...any) (string, error) {
			req, err := ParseHelperArgs(args...)
			if err != nil {
				if cfg.OnError != nil {
					return cfg.OnError(req, err), nil
				}
				return "", err
			}
			out, err := r.Format(req)
			if err != nil && cfg.OnError != nil {
				return cfg.OnError(req, err), nil
			}
			return out, err
		},
		"current_locale": func(data any) string {
			if locale := localeFromData(data, localeKey); locale != "" {
				return locale
			}
			if locales := r.Locales(context.Background()); len(locales) > 0 {
				return locales[0]
			}
			return ""
		},
	}

	if cfg.LocaleState != nil {
		helpers["set_locale"] = func(locales ...string) string {
			cfg.LocaleState.SetLocale(locales...)
			return ""
		}
	}

	return helpers
}

// ParseHelperArgs turns positional helper arguments into a FormatRequest.
func ParseHelperArgs(args ...any) (FormatRequest, error) {
	var req FormatRequest

	pairs := args
	if len(args)%2 == 1 {
		value, ok, err := NumberValue(args[0])
		if err != nil {
			return req, err
		}
		if ok {
			req.Value = Float(value)
		}
		pairs = args[1:]
	}

	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok || key == "" {
			return req, invalidArgument("helper argument %d must be an option name, got %T", i, pairs[i])
		}
		value := pairs[i+1]

		switch key {
		case HelperArgFormat:
			name, err := optionString(key, value)
			if err != nil {
				return req, err
			}
			req.Format = name
		case HelperArgLocale:
			locales, err := helperLocales(value)
			if err != nil {
				return req, err
			}
			req.Locale = locales
		case HelperArgAllowEmpty:
			allow, err := optionBool(key, value)
			if err != nil {
				return req, err
			}
			req.AllowEmpty = allow
		default:
			if err := req.Options.Set(key, value); err != nil {
				return req, err
			}
		}
	}

	return req, nil
}

func helperLocales(value any) ([]string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return splitLocales(v), nil
	case []string:
		return normalizeLocales(v), nil
	case []any:
		locales := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalidArgument("locale list entries must be strings, got %T", item)
			}
			locales = append(locales, s)
		}
		return normalizeLocales(locales), nil
	default:
		return nil, invalidArgument("locale must be a string or list of strings, got %T", value)
	}
}

// splitLocales accepts a single tag or a comma separated preference list.
func splitLocales(value string) []string {
	return normalizeLocales(strings.Split(value, ","))
}

func localeFromData(data any, key string) string {
	switch v := data.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]string:
		return v[key]
	case map[string]any:
		if s, ok := v[key].(string); ok {
			return s
		}
		return ""
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		for i := 0; i < rv.NumField(); i++ {
			field := rv.Type().Field(i)
			if field.IsExported() && strings.EqualFold(field.Name, key) && field.Type.Kind() == reflect.String {
				return rv.Field(i).String()
			}
		}
	}
	return ""
}
