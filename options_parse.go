package numfmt

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/goccy/go-json"
)

// ParseOptions builds Options from raw option names, as found in preset files
// and template helper arguments. Unknown keys are rejected so typos surface
// early instead of silently falling back to defaults.
func ParseOptions(raw map[string]any) (Options, error) {
	var opts Options
	if len(raw) == 0 {
		return opts, nil
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if err := opts.Set(key, raw[key]); err != nil {
			return Options{}, err
		}
	}
	return opts, nil
}

// Set assigns a single option by name.
func (o *Options) Set(key string, value any) error {
	if o == nil {
		return invalidArgument("nil options")
	}

	switch key {
	case KeyStyle:
		s, err := optionString(key, value)
		if err != nil {
			return err
		}
		o.Style = Style(s)
	case KeyCurrency:
		s, err := optionString(key, value)
		if err != nil {
			return err
		}
		o.Currency = strings.ToUpper(s)
	case KeyCurrencyDisplay:
		s, err := optionString(key, value)
		if err != nil {
			return err
		}
		o.CurrencyDisplay = CurrencyDisplay(s)
	case KeyNotation:
		s, err := optionString(key, value)
		if err != nil {
			return err
		}
		o.Notation = Notation(s)
	case KeySignDisplay:
		s, err := optionString(key, value)
		if err != nil {
			return err
		}
		o.SignDisplay = SignDisplay(s)
	case KeyUseGrouping:
		b, err := optionBool(key, value)
		if err != nil {
			return err
		}
		o.UseGrouping = Bool(b)
	case KeyMinimumIntegerDigits:
		return setDigits(&o.MinimumIntegerDigits, key, value)
	case KeyMinimumFractionDigits:
		return setDigits(&o.MinimumFractionDigits, key, value)
	case KeyMaximumFractionDigits:
		return setDigits(&o.MaximumFractionDigits, key, value)
	case KeyMinimumSignificantDigits:
		return setDigits(&o.MinimumSignificantDigits, key, value)
	case KeyMaximumSignificantDigits:
		return setDigits(&o.MaximumSignificantDigits, key, value)
	default:
		return invalidArgument("unknown option %q", key)
	}
	return nil
}

// SetString assigns an option from its textual form, as found in query
// strings and command line flags. Digit options are parsed as integers.
func (o *Options) SetString(key, raw string) error {
	switch key {
	case KeyMinimumIntegerDigits, KeyMinimumFractionDigits, KeyMaximumFractionDigits,
		KeyMinimumSignificantDigits, KeyMaximumSignificantDigits:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return invalidArgument("option %q expects an integer, got %q", key, raw)
		}
		return o.Set(key, n)
	default:
		return o.Set(key, raw)
	}
}

// IsOptionKey reports whether key names a formatting option.
func IsOptionKey(key string) bool {
	switch key {
	case KeyStyle, KeyCurrency, KeyCurrencyDisplay, KeyNotation, KeySignDisplay, KeyUseGrouping,
		KeyMinimumIntegerDigits, KeyMinimumFractionDigits, KeyMaximumFractionDigits,
		KeyMinimumSignificantDigits, KeyMaximumSignificantDigits:
		return true
	}
	return false
}

func setDigits(target **int, key string, value any) error {
	n, err := optionInt(key, value)
	if err != nil {
		return err
	}
	*target = Int(n)
	return nil
}

func optionString(key string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), nil
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), nil
	}

	if rv := reflect.ValueOf(value); rv.IsValid() && rv.Kind() == reflect.String {
		return strings.TrimSpace(rv.String()), nil
	}
	return "", invalidArgument("option %q expects a string, got %T", key, value)
}

func optionBool(key string, value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, invalidArgument("option %q expects a boolean, got %q", key, v)
		}
		return b, nil
	default:
		return false, invalidArgument("option %q expects a boolean, got %T", key, value)
	}
}

func optionInt(key string, value any) (int, error) {
	var (
		n   int
		err error
	)

	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		n, err = safecast.Conv[int](v)
	case int16:
		n, err = safecast.Conv[int](v)
	case int32:
		n, err = safecast.Conv[int](v)
	case int64:
		n, err = safecast.Conv[int](v)
	case uint:
		n, err = safecast.Conv[int](v)
	case uint8:
		n, err = safecast.Conv[int](v)
	case uint16:
		n, err = safecast.Conv[int](v)
	case uint32:
		n, err = safecast.Conv[int](v)
	case uint64:
		n, err = safecast.Conv[int](v)
	case float32:
		n, err = safecast.Convert[int](v)
	case float64:
		n, err = safecast.Convert[int](v)
	case json.Number:
		var i int64
		i, err = v.Int64()
		if err == nil {
			n, err = safecast.Conv[int](i)
		}
	default:
		return 0, invalidArgument("option %q expects an integer, got %T", key, value)
	}

	if err != nil {
		return 0, invalidArgument("option %q expects an integer, got %v", key, value)
	}
	return n, nil
}

// NumberValue coerces a template or decoded value into a float64. A nil value,
// or a nil pointer, reports ok=false.
func NumberValue(value any) (number float64, ok bool, err error) {
	if value == nil {
		return 0, false, nil
	}

	switch v := value.(type) {
	case float64:
		return v, true, nil
	case float32:
		return float64(v), true, nil
	case int:
		return convertNumber(v)
	case int8:
		return float64(v), true, nil
	case int16:
		return float64(v), true, nil
	case int32:
		return float64(v), true, nil
	case int64:
		return convertNumber(v)
	case uint:
		return convertNumber(v)
	case uint8:
		return float64(v), true, nil
	case uint16:
		return float64(v), true, nil
	case uint32:
		return float64(v), true, nil
	case uint64:
		return convertNumber(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false, invalidArgument("value %q is not a number", v.String())
		}
		return f, true, nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false, nil
		}
		return NumberValue(rv.Elem().Interface())
	}

	return 0, false, invalidArgument("value of type %T is not a number", value)
}

func convertNumber[T safecast.Integer](v T) (float64, bool, error) {
	f, err := safecast.Convert[float64](v)
	if err != nil {
		return 0, false, invalidArgument("value %v cannot be represented exactly", v)
	}
	if math.IsInf(f, 0) {
		return 0, false, invalidArgument("value %v overflows", v)
	}
	return f, true, nil
}
