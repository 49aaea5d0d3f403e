package numfmt

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// XTextFormatter renders numbers with golang.org/x/text/number. It covers the
// decimal, percent and currency styles with x/text's own layouts; compact
// notation and sign display are not available and report an error.
type XTextFormatter struct {
	fallback language.Tag
}

// NewXTextFormatter creates an x/text backed formatter. fallbackLocale is used
// when no preference parses; it defaults to English.
func NewXTextFormatter(fallbackLocale string) *XTextFormatter {
	tag := language.English
	if parsed, err := language.Parse(normalizeLocale(fallbackLocale)); err == nil {
		tag = parsed
	}
	return &XTextFormatter{fallback: tag}
}

func (f *XTextFormatter) FormatNumber(value float64, locales []string, opts Options) (string, error) {
	if f == nil {
		return "", errors.New("numfmt: x/text formatter is not configured")
	}
	if err := opts.Validate(); err != nil {
		return "", err
	}
	if opts.Notation == NotationCompact {
		return "", errors.New("compact notation is not supported by the x/text formatter")
	}
	switch opts.SignDisplay {
	case "", SignDisplayAuto:
	default:
		return "", errors.New("signDisplay is not supported by the x/text formatter")
	}

	printer := message.NewPrinter(f.tagFor(locales))

	style := opts.Style
	if style == "" {
		style = StyleDecimal
	}

	var (
		unit           currency.Unit
		currencyDigits int
	)
	if style == StyleCurrency {
		var err error
		unit, err = parseCurrency(opts.Currency)
		if err != nil {
			return "", err
		}
		currencyDigits, _ = currency.Standard.Rounding(unit)
	}

	digits, _, err := resolveDigits(style, opts, currencyDigits)
	if err != nil {
		return "", err
	}

	numberOpts := []number.Option{
		number.MinFractionDigits(digits.minFrac),
		number.MaxFractionDigits(digits.maxFrac),
	}
	if digits.minInt > 1 {
		numberOpts = append(numberOpts, number.MinIntegerDigits(digits.minInt))
	}
	if digits.useSig {
		numberOpts = append(numberOpts, number.Precision(digits.maxSig))
	}
	if opts.UseGrouping != nil && !*opts.UseGrouping {
		numberOpts = append(numberOpts, number.NoSeparator())
	}

	switch style {
	case StylePercent:
		return printer.Sprint(number.Percent(value, numberOpts...)), nil
	case StyleCurrency:
		amount := printer.Sprint(number.Decimal(math.Abs(value), numberOpts...))
		symbol := unit.String()
		if opts.CurrencyDisplay != CurrencyDisplayCode {
			if s := strings.TrimSpace(printer.Sprint(currency.Symbol(unit))); s != "" {
				symbol = s
			}
		}
		out := symbol + " " + amount
		if math.Signbit(value) {
			out = "-" + out
		}
		return out, nil
	default:
		return printer.Sprint(number.Decimal(value, numberOpts...)), nil
	}
}

func (f *XTextFormatter) tagFor(locales []string) language.Tag {
	for _, locale := range locales {
		if tag, err := language.Parse(normalizeLocale(locale)); err == nil && tag != language.Und {
			return tag
		}
	}
	return f.fallback
}
