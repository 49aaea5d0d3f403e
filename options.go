package numfmt

import (
	"fmt"
	"strings"
)

// Style selects how a number is presented.
type Style string

const (
	StyleDecimal  Style = "decimal"
	StylePercent  Style = "percent"
	StyleCurrency Style = "currency"
)

// Notation selects the notation used to render the number.
type Notation string

const (
	NotationStandard Notation = "standard"
	NotationCompact  Notation = "compact"
)

// CurrencyDisplay selects how the currency unit is rendered.
type CurrencyDisplay string

const (
	CurrencyDisplaySymbol       CurrencyDisplay = "symbol"
	CurrencyDisplayNarrowSymbol CurrencyDisplay = "narrowSymbol"
	CurrencyDisplayCode         CurrencyDisplay = "code"
	CurrencyDisplayName         CurrencyDisplay = "name"
)

// SignDisplay controls when the sign is rendered.
type SignDisplay string

const (
	SignDisplayAuto       SignDisplay = "auto"
	SignDisplayAlways     SignDisplay = "always"
	SignDisplayNever      SignDisplay = "never"
	SignDisplayExceptZero SignDisplay = "exceptZero"
	SignDisplayNegative   SignDisplay = "negative"
)

// Option keys as they appear in preset files and template helper arguments.
const (
	KeyStyle                    = "style"
	KeyCurrency                 = "currency"
	KeyCurrencyDisplay          = "currencyDisplay"
	KeyNotation                 = "notation"
	KeySignDisplay              = "signDisplay"
	KeyUseGrouping              = "useGrouping"
	KeyMinimumIntegerDigits     = "minimumIntegerDigits"
	KeyMinimumFractionDigits    = "minimumFractionDigits"
	KeyMaximumFractionDigits    = "maximumFractionDigits"
	KeyMinimumSignificantDigits = "minimumSignificantDigits"
	KeyMaximumSignificantDigits = "maximumSignificantDigits"
)

// Options is the set of formatting options for a single call. Zero values mean
// "not set": empty strings for enumerations and nil pointers for numbers and
// flags, so a merge can tell an explicit 0 apart from an absent key.
type Options struct {
	Style                    Style
	Currency                 string
	CurrencyDisplay          CurrencyDisplay
	Notation                 Notation
	SignDisplay              SignDisplay
	UseGrouping              *bool
	MinimumIntegerDigits     *int
	MinimumFractionDigits    *int
	MaximumFractionDigits    *int
	MinimumSignificantDigits *int
	MaximumSignificantDigits *int
}

// Int returns a pointer to v for use in Options literals.
func Int(v int) *int {
	return &v
}

// Bool returns a pointer to v for use in Options literals.
func Bool(v bool) *bool {
	return &v
}

// Float returns a pointer to v for use as FormatRequest.Value.
func Float(v float64) *float64 {
	return &v
}

// Merge returns a copy of o overlaid with every key set in override.
// Keys only present in o carry through unchanged.
func (o Options) Merge(override Options) Options {
	out := o.Clone()

	if override.Style != "" {
		out.Style = override.Style
	}
	if override.Currency != "" {
		out.Currency = override.Currency
	}
	if override.CurrencyDisplay != "" {
		out.CurrencyDisplay = override.CurrencyDisplay
	}
	if override.Notation != "" {
		out.Notation = override.Notation
	}
	if override.SignDisplay != "" {
		out.SignDisplay = override.SignDisplay
	}
	if override.UseGrouping != nil {
		out.UseGrouping = Bool(*override.UseGrouping)
	}
	if override.MinimumIntegerDigits != nil {
		out.MinimumIntegerDigits = Int(*override.MinimumIntegerDigits)
	}
	if override.MinimumFractionDigits != nil {
		out.MinimumFractionDigits = Int(*override.MinimumFractionDigits)
	}
	if override.MaximumFractionDigits != nil {
		out.MaximumFractionDigits = Int(*override.MaximumFractionDigits)
	}
	if override.MinimumSignificantDigits != nil {
		out.MinimumSignificantDigits = Int(*override.MinimumSignificantDigits)
	}
	if override.MaximumSignificantDigits != nil {
		out.MaximumSignificantDigits = Int(*override.MaximumSignificantDigits)
	}

	return out
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	out := o
	out.UseGrouping = cloneBool(o.UseGrouping)
	out.MinimumIntegerDigits = cloneInt(o.MinimumIntegerDigits)
	out.MinimumFractionDigits = cloneInt(o.MinimumFractionDigits)
	out.MaximumFractionDigits = cloneInt(o.MaximumFractionDigits)
	out.MinimumSignificantDigits = cloneInt(o.MinimumSignificantDigits)
	out.MaximumSignificantDigits = cloneInt(o.MaximumSignificantDigits)
	return out
}

// IsZero reports whether no option is set.
func (o Options) IsZero() bool {
	return len(o.Keys()) == 0
}

// Keys returns the names of the options that are set, in declaration order.
func (o Options) Keys() []string {
	var keys []string
	for _, entry := range o.entries() {
		keys = append(keys, entry.key)
	}
	return keys
}

// Map returns the set options keyed by their option names.
func (o Options) Map() map[string]any {
	entries := o.entries()
	out := make(map[string]any, len(entries))
	for _, entry := range entries {
		out[entry.key] = entry.value
	}
	return out
}

// String renders the set options as key=value pairs in declaration order.
func (o Options) String() string {
	entries := o.entries()
	parts := make([]string, 0, len(entries))
	for _, entry := range entries {
		parts = append(parts, fmt.Sprintf("%s=%v", entry.key, entry.value))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

type optionEntry struct {
	key   string
	value any
}

func (o Options) entries() []optionEntry {
	var entries []optionEntry
	add := func(key string, value any) {
		entries = append(entries, optionEntry{key: key, value: value})
	}

	if o.Style != "" {
		add(KeyStyle, string(o.Style))
	}
	if o.Currency != "" {
		add(KeyCurrency, o.Currency)
	}
	if o.CurrencyDisplay != "" {
		add(KeyCurrencyDisplay, string(o.CurrencyDisplay))
	}
	if o.Notation != "" {
		add(KeyNotation, string(o.Notation))
	}
	if o.SignDisplay != "" {
		add(KeySignDisplay, string(o.SignDisplay))
	}
	if o.UseGrouping != nil {
		add(KeyUseGrouping, *o.UseGrouping)
	}
	if o.MinimumIntegerDigits != nil {
		add(KeyMinimumIntegerDigits, *o.MinimumIntegerDigits)
	}
	if o.MinimumFractionDigits != nil {
		add(KeyMinimumFractionDigits, *o.MinimumFractionDigits)
	}
	if o.MaximumFractionDigits != nil {
		add(KeyMaximumFractionDigits, *o.MaximumFractionDigits)
	}
	if o.MinimumSignificantDigits != nil {
		add(KeyMinimumSignificantDigits, *o.MinimumSignificantDigits)
	}
	if o.MaximumSignificantDigits != nil {
		add(KeyMaximumSignificantDigits, *o.MaximumSignificantDigits)
	}
	return entries
}

// Validate checks a complete option set: enumerations, digit ranges and the
// currency code required by the currency style. Whether the code is a known
// ISO 4217 currency is checked by the formatter.
func (o Options) Validate() error {
	if err := o.ValidatePartial(); err != nil {
		return err
	}
	if o.Style == StyleCurrency && strings.TrimSpace(o.Currency) == "" {
		return fmt.Errorf("currency code is required with currency style")
	}
	return nil
}

// ValidatePartial checks enumerations and digit ranges only. Presets are
// validated this way since inline options may still supply the currency.
func (o Options) ValidatePartial() error {
	switch o.Style {
	case "", StyleDecimal, StylePercent, StyleCurrency:
	default:
		return fmt.Errorf("invalid style %q", o.Style)
	}

	switch o.Notation {
	case "", NotationStandard, NotationCompact:
	default:
		return fmt.Errorf("invalid notation %q", o.Notation)
	}

	switch o.CurrencyDisplay {
	case "", CurrencyDisplaySymbol, CurrencyDisplayNarrowSymbol, CurrencyDisplayCode:
	case CurrencyDisplayName:
		return fmt.Errorf("currencyDisplay %q is not supported", o.CurrencyDisplay)
	default:
		return fmt.Errorf("invalid currencyDisplay %q", o.CurrencyDisplay)
	}

	switch o.SignDisplay {
	case "", SignDisplayAuto, SignDisplayAlways, SignDisplayNever, SignDisplayExceptZero, SignDisplayNegative:
	default:
		return fmt.Errorf("invalid signDisplay %q", o.SignDisplay)
	}

	if err := checkRange(KeyMinimumIntegerDigits, o.MinimumIntegerDigits, 1, 21); err != nil {
		return err
	}
	if err := checkRange(KeyMinimumFractionDigits, o.MinimumFractionDigits, 0, 100); err != nil {
		return err
	}
	if err := checkRange(KeyMaximumFractionDigits, o.MaximumFractionDigits, 0, 100); err != nil {
		return err
	}
	if err := checkRange(KeyMinimumSignificantDigits, o.MinimumSignificantDigits, 1, 21); err != nil {
		return err
	}
	if err := checkRange(KeyMaximumSignificantDigits, o.MaximumSignificantDigits, 1, 21); err != nil {
		return err
	}

	if o.MinimumFractionDigits != nil && o.MaximumFractionDigits != nil &&
		*o.MinimumFractionDigits > *o.MaximumFractionDigits {
		return fmt.Errorf("%s %d exceeds %s %d", KeyMinimumFractionDigits, *o.MinimumFractionDigits,
			KeyMaximumFractionDigits, *o.MaximumFractionDigits)
	}
	if o.MinimumSignificantDigits != nil && o.MaximumSignificantDigits != nil &&
		*o.MinimumSignificantDigits > *o.MaximumSignificantDigits {
		return fmt.Errorf("%s %d exceeds %s %d", KeyMinimumSignificantDigits, *o.MinimumSignificantDigits,
			KeyMaximumSignificantDigits, *o.MaximumSignificantDigits)
	}

	return nil
}

func checkRange(key string, value *int, min, max int) error {
	if value == nil {
		return nil
	}
	if *value < min || *value > max {
		return fmt.Errorf("%s %d out of range [%d, %d]", key, *value, min, max)
	}
	return nil
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	return Int(*v)
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return Bool(*v)
}
