package numfmt

import (
	"errors"
	"math"
	"testing"
)

func newTestRulesFormatter(t *testing.T) *RulesFormatter {
	t.Helper()
	formatter, err := NewRulesFormatter(nil)
	if err != nil {
		t.Fatalf("NewRulesFormatter: %v", err)
	}
	return formatter
}

func TestRulesFormatterDecimal(t *testing.T) {
	formatter := newTestRulesFormatter(t)

	tests := []struct {
		name   string
		value  float64
		locale string
		opts   Options
		want   string
	}{
		{name: "en integer", value: 100, locale: "en-US", want: "100"},
		{name: "en grouping", value: 1000, locale: "en-US", want: "1,000"},
		{name: "en fraction", value: 4.004, locale: "en-US", want: "4.004"},
		{name: "en grouping and fraction", value: 40000.004, locale: "en-US", want: "40,000.004"},
		{name: "en default max fraction", value: 1.23456, locale: "en", want: "1.235"},
		{name: "en negative", value: -1234.5, locale: "en", want: "-1,234.5"},
		{name: "en round half away from zero", value: 2.5, locale: "en", opts: Options{MaximumFractionDigits: Int(0)}, want: "3"},
		{name: "en round negative half", value: -2.5, locale: "en", opts: Options{MaximumFractionDigits: Int(0)}, want: "-3"},
		{name: "en carry", value: 9.9996, locale: "en", want: "10"},
		{name: "en large", value: 1234567891, locale: "en", want: "1,234,567,891"},
		{name: "en tiny", value: 0.0004, locale: "en", want: "0"},
		{name: "de integer", value: 4, locale: "de-de", want: "4"},
		{name: "de fraction", value: 4.004, locale: "de-de", want: "4,004"},
		{name: "de grouping", value: 40000, locale: "de-de", want: "40.000"},
		{name: "de grouping and fraction", value: 40000.004, locale: "de-de", want: "40.000,004"},
		{name: "pt-br via parent", value: 1000, locale: "pt-br", want: "1.000"},
		{name: "es min grouping four digits", value: 1000, locale: "es", want: "1000"},
		{name: "es min grouping five digits", value: 10000, locale: "es", want: "10.000"},
		{name: "en-IN lakh grouping", value: 12345678, locale: "en-IN", want: "1,23,45,678"},
		{name: "fr narrow no-break group", value: 12345.5, locale: "fr", want: "12\u202f345,5"},
		{name: "de-CH apostrophe group", value: 12345.5, locale: "de-CH", want: "12’345.5"},
		{name: "underscore locale", value: 1000, locale: "de_DE", want: "1.000"},
		{name: "unknown locale falls back to en", value: 1000, locale: "zz", want: "1,000"},
		{
			name: "min integer digits", value: 1, locale: "en-US",
			opts: Options{MinimumFractionDigits: Int(2), MinimumIntegerDigits: Int(10)},
			want: "0,000,000,001.00",
		},
		{name: "no grouping", value: 1234567, locale: "en", opts: Options{UseGrouping: Bool(false)}, want: "1234567"},
		{name: "max fraction", value: 3.14159, locale: "en", opts: Options{MaximumFractionDigits: Int(2)}, want: "3.14"},
		{name: "min fraction raises max", value: 1.5, locale: "en", opts: Options{MinimumFractionDigits: Int(5)}, want: "1.50000"},
		{name: "significant digits", value: 123456, locale: "en", opts: Options{MaximumSignificantDigits: Int(2)}, want: "120,000"},
		{name: "significant digits fraction", value: 0.012345, locale: "en", opts: Options{MaximumSignificantDigits: Int(3)}, want: "0.0123"},
		{name: "min significant digits", value: 1.5, locale: "en", opts: Options{MinimumSignificantDigits: Int(4)}, want: "1.500"},
		{name: "min significant zero", value: 0, locale: "en", opts: Options{MinimumSignificantDigits: Int(3)}, want: "0.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatter.FormatNumber(tc.value, []string{tc.locale}, tc.opts)
			if err != nil {
				t.Fatalf("FormatNumber: %v", err)
			}
			if got != tc.want {
				t.Fatalf("FormatNumber(%v, %s, %v) = %q want %q", tc.value, tc.locale, tc.opts, got, tc.want)
			}
		})
	}
}

func TestRulesFormatterPercent(t *testing.T) {
	formatter := newTestRulesFormatter(t)
	percent := Options{Style: StylePercent}

	tests := []struct {
		value  float64
		locale string
		opts   Options
		want   string
	}{
		{value: 400, locale: "en-US", opts: percent, want: "40,000%"},
		{value: 400, locale: "de-de", opts: percent, want: "40.000\u00a0%"},
		{value: 0.256, locale: "en", opts: percent, want: "26%"},
		{value: 0.07, locale: "en", opts: percent, want: "7%"},
		{value: 0.1234, locale: "en", opts: Options{Style: StylePercent, MaximumFractionDigits: Int(1)}, want: "12.3%"},
		{value: 0.5, locale: "fr", opts: percent, want: "50\u202f%"},
	}

	for _, tc := range tests {
		got, err := formatter.FormatNumber(tc.value, []string{tc.locale}, tc.opts)
		if err != nil {
			t.Fatalf("FormatNumber(%v, %s): %v", tc.value, tc.locale, err)
		}
		if got != tc.want {
			t.Fatalf("FormatNumber(%v, %s, %v) = %q want %q", tc.value, tc.locale, tc.opts, got, tc.want)
		}
	}
}

func TestRulesFormatterCurrency(t *testing.T) {
	formatter := newTestRulesFormatter(t)

	tests := []struct {
		name   string
		value  float64
		locale string
		opts   Options
		want   string
	}{
		{name: "usd", value: 40000, locale: "en-US", opts: Options{Style: StyleCurrency, Currency: "USD"}, want: "$40,000.00"},
		{name: "eur", value: 40000, locale: "en-US", opts: Options{Style: StyleCurrency, Currency: "EUR"}, want: "€40,000.00"},
		{name: "jpy has no minor unit", value: 40000, locale: "en-US", opts: Options{Style: StyleCurrency, Currency: "JPY"}, want: "¥40,000"},
		{name: "lower case code", value: 1, locale: "en", opts: Options{Style: StyleCurrency, Currency: "usd"}, want: "$1.00"},
		{
			name: "currency2", value: 1, locale: "en-US",
			opts: Options{Style: StyleCurrency, Currency: "USD", MinimumFractionDigits: Int(3)},
			want: "$1.000",
		},
		{
			name: "currency2 with inline override", value: 1, locale: "en-US",
			opts: Options{Style: StyleCurrency, Currency: "USD", MinimumFractionDigits: Int(0)},
			want: "$1",
		},
		{
			name: "jpy with min fraction", value: 10, locale: "en-US",
			opts: Options{Style: StyleCurrency, Currency: "JPY", MinimumFractionDigits: Int(2)},
			want: "¥10.00",
		},
		{name: "de eur suffix", value: 1234.5, locale: "de", opts: Options{Style: StyleCurrency, Currency: "EUR"}, want: "1.234,50\u00a0€"},
		{name: "en-GB usd", value: 5, locale: "en-GB", opts: Options{Style: StyleCurrency, Currency: "USD"}, want: "US$5.00"},
		{name: "en-IN inr", value: 1234567, locale: "en-IN", opts: Options{Style: StyleCurrency, Currency: "INR"}, want: "₹12,34,567.00"},
		{name: "ja jpy", value: 1234, locale: "ja", opts: Options{Style: StyleCurrency, Currency: "JPY"}, want: "￥1,234"},
		{
			name: "code display", value: 5, locale: "en",
			opts: Options{Style: StyleCurrency, Currency: "USD", CurrencyDisplay: CurrencyDisplayCode},
			want: "USD\u00a05.00",
		},
		{
			name: "narrow symbol", value: 5, locale: "en",
			opts: Options{Style: StyleCurrency, Currency: "CAD", CurrencyDisplay: CurrencyDisplayNarrowSymbol},
			want: "$5.00",
		},
		{name: "symbol for cad", value: 5, locale: "en", opts: Options{Style: StyleCurrency, Currency: "CAD"}, want: "CA$5.00"},
		{name: "negative", value: -5, locale: "en", opts: Options{Style: StyleCurrency, Currency: "USD"}, want: "-$5.00"},
		{name: "de-CH chf prefix", value: 1234.5, locale: "de-CH", opts: Options{Style: StyleCurrency, Currency: "CHF"}, want: "CHF\u00a01’234.50"},
		{name: "de-CH negative subpattern", value: -5, locale: "de-CH", opts: Options{Style: StyleCurrency, Currency: "CHF"}, want: "CHF-5.00"},
		{
			name: "de-CH negative subpattern always", value: -1234.5, locale: "de-CH",
			opts: Options{Style: StyleCurrency, Currency: "CHF", SignDisplay: SignDisplayAlways},
			want: "CHF-1’234.50",
		},
		{
			name: "de-CH positive always keeps positive pattern", value: 5, locale: "de-CH",
			opts: Options{Style: StyleCurrency, Currency: "CHF", SignDisplay: SignDisplayAlways},
			want: "+CHF\u00a05.00",
		},
		{
			name: "de-CH never drops negative subpattern", value: -5, locale: "de-CH",
			opts: Options{Style: StyleCurrency, Currency: "CHF", SignDisplay: SignDisplayNever},
			want: "CHF\u00a05.00",
		},
		{name: "nl negative subpattern", value: -5, locale: "nl", opts: Options{Style: StyleCurrency, Currency: "EUR"}, want: "€\u00a0-5,00"},
		{name: "nl positive", value: 5, locale: "nl", opts: Options{Style: StyleCurrency, Currency: "EUR"}, want: "€\u00a05,00"},
		{name: "en-CA cad", value: 10, locale: "en-CA", opts: Options{Style: StyleCurrency, Currency: "CAD"}, want: "$10.00"},
		{name: "en-CA usd", value: 10, locale: "en-CA", opts: Options{Style: StyleCurrency, Currency: "USD"}, want: "US$10.00"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formatter.FormatNumber(tc.value, []string{tc.locale}, tc.opts)
			if err != nil {
				t.Fatalf("FormatNumber: %v", err)
			}
			if got != tc.want {
				t.Fatalf("FormatNumber(%v, %s, %v) = %q want %q", tc.value, tc.locale, tc.opts, got, tc.want)
			}
		})
	}
}

func TestRulesFormatterCompact(t *testing.T) {
	formatter := newTestRulesFormatter(t)
	compact := Options{Notation: NotationCompact}

	tests := []struct {
		value  float64
		locale string
		opts   Options
		want   string
	}{
		{value: 50000, locale: "en-US", opts: compact, want: "50K"},
		{value: 999, locale: "en", opts: compact, want: "999"},
		{value: 1234, locale: "en", opts: compact, want: "1.2K"},
		{value: 1500000, locale: "en", opts: compact, want: "1.5M"},
		{value: 999999, locale: "en", opts: compact, want: "1M"},
		{value: 2500000000, locale: "en", opts: compact, want: "2.5B"},
		{value: 1e15, locale: "en", opts: compact, want: "1000T"},
		{value: 0.5, locale: "en", opts: compact, want: "0.5"},
		{value: -1234, locale: "en", opts: compact, want: "-1.2K"},
		{value: 50000, locale: "de", opts: compact, want: "50.000"},
		{value: 1234, locale: "de", opts: compact, want: "1234"},
		{value: 1500000, locale: "de", opts: compact, want: "1,5\u00a0Mio."},
		{value: 123456, locale: "ja", opts: compact, want: "12万"},
		{value: 1234, locale: "es", opts: compact, want: "1,2\u00a0mil"},
		{value: 150000, locale: "en-IN", opts: compact, want: "1.5L"},
		{value: 1234, locale: "en", opts: Options{Notation: NotationCompact, MaximumFractionDigits: Int(2)}, want: "1.23K"},
		{value: 50000, locale: "en", opts: Options{Notation: NotationCompact, Style: StyleCurrency, Currency: "USD"}, want: "$50K"},
	}

	for _, tc := range tests {
		got, err := formatter.FormatNumber(tc.value, []string{tc.locale}, tc.opts)
		if err != nil {
			t.Fatalf("FormatNumber(%v, %s): %v", tc.value, tc.locale, err)
		}
		if got != tc.want {
			t.Fatalf("FormatNumber(%v, %s, %v) = %q want %q", tc.value, tc.locale, tc.opts, got, tc.want)
		}
	}
}

func TestRulesFormatterSignDisplay(t *testing.T) {
	formatter := newTestRulesFormatter(t)

	tests := []struct {
		display SignDisplay
		value   float64
		want    string
	}{
		{display: SignDisplayAuto, value: 1, want: "1"},
		{display: SignDisplayAuto, value: -1, want: "-1"},
		{display: SignDisplayAlways, value: 1, want: "+1"},
		{display: SignDisplayAlways, value: 0, want: "+0"},
		{display: SignDisplayNever, value: -1, want: "1"},
		{display: SignDisplayExceptZero, value: 1, want: "+1"},
		{display: SignDisplayExceptZero, value: 0, want: "0"},
		{display: SignDisplayExceptZero, value: -0.0001, want: "0"},
		{display: SignDisplayExceptZero, value: -1, want: "-1"},
		{display: SignDisplayNegative, value: -1, want: "-1"},
		{display: SignDisplayNegative, value: 1, want: "1"},
		{display: SignDisplayNegative, value: -0.0001, want: "0"},
	}

	for _, tc := range tests {
		got, err := formatter.FormatNumber(tc.value, []string{"en"}, Options{SignDisplay: tc.display})
		if err != nil {
			t.Fatalf("FormatNumber(%v, %s): %v", tc.value, tc.display, err)
		}
		if got != tc.want {
			t.Fatalf("FormatNumber(%v, %s) = %q want %q", tc.value, tc.display, got, tc.want)
		}
	}
}

func TestRulesFormatterSpecialValues(t *testing.T) {
	formatter := newTestRulesFormatter(t)

	tests := []struct {
		value float64
		want  string
	}{
		{value: math.NaN(), want: "NaN"},
		{value: math.Inf(1), want: "∞"},
		{value: math.Inf(-1), want: "-∞"},
	}

	for _, tc := range tests {
		got, err := formatter.FormatNumber(tc.value, []string{"en"}, Options{})
		if err != nil {
			t.Fatalf("FormatNumber(%v): %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("FormatNumber(%v) = %q want %q", tc.value, got, tc.want)
		}
	}
}

func TestRulesFormatterLocalePreferenceList(t *testing.T) {
	formatter := newTestRulesFormatter(t)

	got, err := formatter.FormatNumber(1000, []string{"", "zz-ZZ", "de"}, Options{})
	if err != nil {
		t.Fatalf("FormatNumber: %v", err)
	}
	if got != "1.000" {
		t.Fatalf("expected first locale with rules to win, got %q", got)
	}
}

func TestRulesFormatterErrors(t *testing.T) {
	formatter := newTestRulesFormatter(t)

	tests := []struct {
		name string
		opts Options
	}{
		{name: "currency style without currency", opts: Options{Style: StyleCurrency}},
		{name: "unknown currency", opts: Options{Style: StyleCurrency, Currency: "ZZZZ"}},
		{name: "unknown style", opts: Options{Style: "scientific"}},
		{name: "unknown notation", opts: Options{Notation: "engineering"}},
		{name: "currency name display", opts: Options{Style: StyleCurrency, Currency: "USD", CurrencyDisplay: CurrencyDisplayName}},
		{name: "fraction out of range", opts: Options{MaximumFractionDigits: Int(101)}},
		{name: "integer digits out of range", opts: Options{MinimumIntegerDigits: Int(0)}},
		{name: "min above max", opts: Options{MinimumFractionDigits: Int(3), MaximumFractionDigits: Int(1)}},
		{name: "percent max below min", opts: Options{Style: StylePercent, MinimumSignificantDigits: Int(5), MaximumSignificantDigits: Int(2)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := formatter.FormatNumber(1, []string{"en"}, tc.opts); err == nil {
				t.Fatalf("expected error for %v", tc.opts)
			}
		})
	}
}

func TestRulesFormatterNotConfigured(t *testing.T) {
	var formatter *RulesFormatter
	if _, err := formatter.FormatNumber(1, nil, Options{}); err == nil {
		t.Fatal("expected error from nil formatter")
	}
}

func TestNumberFormatterFunc(t *testing.T) {
	boom := errors.New("boom")
	fn := NumberFormatterFunc(func(value float64, locales []string, opts Options) (string, error) {
		return "", boom
	})
	if _, err := fn.FormatNumber(1, nil, Options{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
}
