package numfmt

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NumberFormatter renders a number for the first usable locale in locales.
// Implementations must be safe for concurrent use.
type NumberFormatter interface {
	FormatNumber(value float64, locales []string, opts Options) (string, error)
}

// NumberFormatterFunc adapts a function to NumberFormatter.
type NumberFormatterFunc func(value float64, locales []string, opts Options) (string, error)

func (fn NumberFormatterFunc) FormatNumber(value float64, locales []string, opts Options) (string, error) {
	return fn(value, locales, opts)
}

// RulesFormatter renders numbers from CLDR derived rules. It is the default
// formatter and supports every style, notation and sign display in Options.
type RulesFormatter struct {
	provider *RulesProvider
}

// NewRulesFormatter creates a formatter over provider. A nil provider uses the embedded rules.
func NewRulesFormatter(provider *RulesProvider) (*RulesFormatter, error) {
	if provider == nil {
		var err error
		provider, err = NewRulesProvider(nil)
		if err != nil {
			return nil, err
		}
	}
	return &RulesFormatter{provider: provider}, nil
}

// Provider exposes the rules the formatter renders with.
func (f *RulesFormatter) Provider() *RulesProvider {
	if f == nil {
		return nil
	}
	return f.provider
}

func (f *RulesFormatter) FormatNumber(value float64, locales []string, opts Options) (string, error) {
	if f == nil || f.provider == nil {
		return "", errors.New("numfmt: rules formatter is not configured")
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}

	resolved, tag := f.provider.match(locales)
	rules := resolved.rules

	style := opts.Style
	if style == "" {
		style = StyleDecimal
	}

	var (
		pattern        numberPattern
		symbol         string
		currencyDigits int
	)
	switch style {
	case StylePercent:
		pattern = resolved.percent
	case StyleCurrency:
		unit, err := parseCurrency(opts.Currency)
		if err != nil {
			return "", err
		}
		currencyDigits, _ = currency.Standard.Rounding(unit)
		symbol = currencySymbol(rules, tag, unit, opts.CurrencyDisplay)
		pattern = resolved.currency
	default:
		pattern = resolved.decimal
	}

	digits, explicit, err := resolveDigits(style, opts, currencyDigits)
	if err != nil {
		return "", err
	}

	var (
		body     string
		negative = math.Signbit(value)
		zero     bool
	)
	switch {
	case math.IsNaN(value):
		body, negative = rules.Symbols.NaN, false
	case math.IsInf(value, 0):
		body = rules.Symbols.Infinity
	default:
		d := newDecimal(value)
		if style == StylePercent {
			d.shift(2)
		}
		grouping := opts.UseGrouping == nil || *opts.UseGrouping
		if opts.Notation == NotationCompact {
			body, zero = renderCompact(d, resolved, pattern, digits, explicit, grouping)
		} else {
			rounded, intPart, fracPart := d.render(digits)
			body = joinParts(intPart, fracPart, pattern, rules.Symbols, rules.MinGroupingDigits, grouping)
			zero = rounded.isZero()
		}
	}

	sign := signFor(opts.SignDisplay, negative, zero, rules.Symbols)
	if pattern.negative && negative && sign == rules.Symbols.MinusSign {
		return pattern.applyNegative(body, rules.Symbols.MinusSign, rules.Symbols.PercentSign, symbol), nil
	}
	return sign + pattern.apply(body, rules.Symbols.PercentSign, symbol), nil
}

func parseCurrency(code string) (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(code))
	if err != nil || unit.String() == "XXX" {
		return currency.Unit{}, fmt.Errorf("unknown currency code %q", code)
	}
	return unit, nil
}

// resolveDigits applies style defaults to the digit options. The second result
// reports whether any fraction or significant digit option was set explicitly.
func resolveDigits(style Style, opts Options, currencyDigits int) (digitRules, bool, error) {
	defaultMin, defaultMax := 0, 3
	switch style {
	case StylePercent:
		defaultMax = 0
	case StyleCurrency:
		defaultMin, defaultMax = currencyDigits, currencyDigits
	}

	rules := digitRules{minInt: 1, minFrac: defaultMin, maxFrac: defaultMax}
	if opts.MinimumIntegerDigits != nil {
		rules.minInt = *opts.MinimumIntegerDigits
	}

	minFrac, maxFrac := opts.MinimumFractionDigits, opts.MaximumFractionDigits
	switch {
	case minFrac != nil && maxFrac != nil:
		rules.minFrac, rules.maxFrac = *minFrac, *maxFrac
	case minFrac != nil:
		rules.minFrac = *minFrac
		rules.maxFrac = max(defaultMax, *minFrac)
	case maxFrac != nil:
		rules.maxFrac = *maxFrac
		rules.minFrac = min(defaultMin, *maxFrac)
	}
	if rules.minFrac > rules.maxFrac {
		return digitRules{}, false, fmt.Errorf("%s %d exceeds %s %d", KeyMinimumFractionDigits, rules.minFrac,
			KeyMaximumFractionDigits, rules.maxFrac)
	}

	minSig, maxSig := opts.MinimumSignificantDigits, opts.MaximumSignificantDigits
	if minSig != nil || maxSig != nil {
		rules.useSig = true
		rules.minSig, rules.maxSig = 1, 21
		if minSig != nil {
			rules.minSig = *minSig
		}
		if maxSig != nil {
			rules.maxSig = *maxSig
		}
		if rules.minSig > rules.maxSig {
			return digitRules{}, false, fmt.Errorf("%s %d exceeds %s %d", KeyMinimumSignificantDigits, rules.minSig,
				KeyMaximumSignificantDigits, rules.maxSig)
		}
	}

	explicit := minFrac != nil || maxFrac != nil || minSig != nil || maxSig != nil
	return rules, explicit, nil
}

// compactRounding keeps whole numbers once the scaled value has two integer
// digits, and two significant digits below that: 1234 -> 1.2K, 12345 -> 12K.
func compactRounding(scaled decimal, minInt int) digitRules {
	if scaled.integerDigits() >= 2 {
		return digitRules{minInt: minInt}
	}
	return digitRules{minInt: minInt, useSig: true, minSig: 1, maxSig: 2}
}

func renderCompact(d decimal, resolved *resolvedRules, pattern numberPattern, digits digitRules, explicit, grouping bool) (string, bool) {
	symbols := resolved.rules.Symbols
	minGrouping := max(resolved.rules.MinGroupingDigits, 2)
	magnitude := d.integerDigits() - 1

	for attempt := 0; ; attempt++ {
		cp, ok := resolved.compactFor(magnitude)

		scaled := d.clone()
		divisor := 0
		if ok {
			divisor = cp.divisorExponent()
			scaled.shift(-divisor)
		}

		rules := digits
		if !explicit {
			rules = compactRounding(scaled, digits.minInt)
		}
		rounded, intPart, fracPart := scaled.render(rules)

		// 999999 rounds to 1000K; pick the pattern for the rounded magnitude instead.
		if roundedMagnitude := rounded.integerDigits() - 1 + divisor; attempt == 0 && roundedMagnitude > magnitude {
			if next, nextOK := resolved.compactFor(roundedMagnitude); nextOK != ok || next != cp {
				magnitude = roundedMagnitude
				continue
			}
		}

		number := joinParts(intPart, fracPart, pattern, symbols, minGrouping, grouping)
		if ok {
			number = cp.prefix + number + cp.suffix
		}
		return number, rounded.isZero()
	}
}

func (r *resolvedRules) compactFor(magnitude int) (compactPattern, bool) {
	if magnitude < 0 || len(r.compact) == 0 {
		return compactPattern{}, false
	}
	if magnitude > r.compactLimit {
		magnitude = r.compactLimit
	}
	cp, ok := r.compact[magnitude]
	if !ok || !cp.abbreviates() {
		return compactPattern{}, false
	}
	return cp, true
}

func joinParts(intPart, fracPart string, pattern numberPattern, symbols NumberSymbols, minGrouping int, grouping bool) string {
	if grouping {
		intPart = groupDigits(intPart, symbols.Group, pattern.primary, pattern.secondary, minGrouping)
	}
	if fracPart == "" {
		return intPart
	}
	return intPart + symbols.Decimal + fracPart
}

func signFor(display SignDisplay, negative, zero bool, symbols NumberSymbols) string {
	switch display {
	case SignDisplayNever:
		return ""
	case SignDisplayAlways:
		if negative {
			return symbols.MinusSign
		}
		return symbols.PlusSign
	case SignDisplayExceptZero:
		switch {
		case zero:
			return ""
		case negative:
			return symbols.MinusSign
		default:
			return symbols.PlusSign
		}
	case SignDisplayNegative:
		if negative && !zero {
			return symbols.MinusSign
		}
		return ""
	default:
		if negative {
			return symbols.MinusSign
		}
		return ""
	}
}

// currencySymbol looks the unit up in the locale rules first and falls back to
// the x/text currency tables, then to the ISO code.
func currencySymbol(rules NumberRules, locale string, unit currency.Unit, display CurrencyDisplay) string {
	code := unit.String()

	switch display {
	case CurrencyDisplayCode:
		return code
	case CurrencyDisplayNarrowSymbol:
		if symbol := rules.NarrowCurrencySymbols[code]; symbol != "" {
			return symbol
		}
		if symbol := xtextSymbol(locale, currency.NarrowSymbol(unit)); symbol != "" && symbol != code {
			return symbol
		}
	}

	if symbol := rules.CurrencySymbols[code]; symbol != "" {
		return symbol
	}
	if symbol := xtextSymbol(locale, currency.Symbol(unit)); symbol != "" {
		return symbol
	}
	return code
}

func xtextSymbol(locale string, value any) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return strings.TrimSpace(message.NewPrinter(tag).Sprint(value))
}
