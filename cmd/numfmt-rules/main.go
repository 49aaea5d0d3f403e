// Command numfmt-rules extracts number formatting rules from a CLDR core
// archive and writes them in the number_rules.json layout embedded by numfmt.
//
//	numfmt-rules -cldr ./cldr/common -locale en,de,de-CH -out data/number_rules.json
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
	cldr "golang.org/x/text/unicode/cldr"

	numfmt "github.com/goliatone/go-numfmt"
)

// numberSystem is the only numbering system the formatter renders.
const numberSystem = "latn"

var defaultCurrencies = []string{
	"AUD", "BRL", "CAD", "CHF", "CNY", "EUR", "GBP", "HKD", "ILS", "INR",
	"JPY", "KRW", "MXN", "NZD", "SEK", "TWD", "USD", "VND", "XAF", "XOF",
}

type generatorConfig struct {
	out           string
	cldrPath      string
	defaultLocale string
	locales       []string
	currencies    []string
}

type listFlag struct {
	items []string
}

func (f *listFlag) String() string {
	return strings.Join(f.items, ",")
}

func (f *listFlag) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f.items = append(f.items, part)
	}
	return nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		reportError(err)
	}

	if err := run(cfg); err != nil {
		reportError(err)
	}
}

func reportError(err error) {
	fmt.Fprintf(os.Stderr, "numfmt-rules: %v\n", err)
	os.Exit(1)
}

func parseFlags(args []string) (generatorConfig, error) {
	var cfg generatorConfig
	var localeList, currencyList listFlag

	fs := flag.NewFlagSet("numfmt-rules", flag.ContinueOnError)
	fs.StringVar(&cfg.out, "out", "data/number_rules.json", "path to the generated rules file")
	fs.StringVar(&cfg.cldrPath, "cldr", "", "path to CLDR core data directory (expects a main/ subdirectory)")
	fs.StringVar(&cfg.defaultLocale, "default", "en", "default locale recorded in the rules file")
	fs.Var(&localeList, "locale", "locale to extract. Repeat flag or separate with commas to add more.")
	fs.Var(&currencyList, "currency", "ISO 4217 code whose symbols are extracted (defaults to a common set)")

	if err := fs.Parse(args); err != nil {
		return generatorConfig{}, err
	}

	if len(localeList.items) == 0 {
		return generatorConfig{}, errors.New("at least one -locale value is required")
	}
	for _, item := range localeList.items {
		locale, err := normalizeLocale(item)
		if err != nil {
			return generatorConfig{}, err
		}
		cfg.locales = append(cfg.locales, locale)
	}

	cfg.currencies = defaultCurrencies
	if len(currencyList.items) > 0 {
		cfg.currencies = nil
		for _, code := range currencyList.items {
			cfg.currencies = append(cfg.currencies, strings.ToUpper(code))
		}
	}

	if cfg.cldrPath == "" {
		cfg.cldrPath = os.Getenv("CLDR_CORE_DIR")
	}
	if cfg.cldrPath == "" {
		return generatorConfig{}, errors.New("missing CLDR data directory (set -cldr or CLDR_CORE_DIR)")
	}

	return cfg, nil
}

func run(cfg generatorConfig) error {
	data, err := loadCLDR(cfg.cldrPath)
	if err != nil {
		return err
	}

	rules, err := buildRules(data, cfg)
	if err != nil {
		return err
	}

	// round trip through the provider so a broken extraction never lands on disk
	if _, err := numfmt.NewRulesProvider(rules); err != nil {
		return fmt.Errorf("validate rules: %w", err)
	}

	raw, err := json.MarshalIndent(rules, "", "  ")
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}

	if err := ensureDir(cfg.out); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(cfg.out, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write rules: %w", err)
	}

	fmt.Printf("wrote %s (%s)\n", cfg.out, strings.Join(sortedKeys(rules.Locales), ", "))
	return nil
}

func loadCLDR(path string) (*cldr.CLDR, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat CLDR directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("CLDR path %q is not a directory", path)
	}

	var decoder cldr.Decoder
	decoder.SetDirFilter("main")
	decoder.SetSectionFilter("numbers")

	data, err := decoder.DecodePath(path)
	if err != nil {
		return nil, fmt.Errorf("decode CLDR data: %w", err)
	}
	return data, nil
}

func normalizeLocale(input string) (string, error) {
	input = strings.ReplaceAll(strings.TrimSpace(input), "_", "-")
	if input == "" {
		return "", errors.New("empty locale identifier")
	}
	tag, err := language.Parse(input)
	if err != nil {
		return "", fmt.Errorf("parse locale %q: %w", input, err)
	}
	return tag.String(), nil
}

func buildRules(data *cldr.CLDR, cfg generatorConfig) (*numfmt.RulesData, error) {
	out := &numfmt.RulesData{
		DefaultLocale: cfg.defaultLocale,
		Locales:       make(map[string]numfmt.NumberRules, len(cfg.locales)),
	}

	wanted := make(map[string]bool, len(cfg.currencies))
	for _, code := range cfg.currencies {
		wanted[code] = true
	}

	for _, locale := range cfg.locales {
		ldml := data.RawLDML(strings.ReplaceAll(locale, "-", "_"))
		if ldml == nil {
			return nil, fmt.Errorf("locale %s not found in CLDR data", locale)
		}
		rules := extractRules(ldml, wanted)
		rules.Locale = locale
		out.Locales[locale] = rules
	}

	if _, ok := out.Locales[cfg.defaultLocale]; !ok {
		return nil, fmt.Errorf("default locale %s is not among the extracted locales", cfg.defaultLocale)
	}
	return out, nil
}

// extractRules reads the fields present in a single LDML file. Values that the
// file inherits from its parent stay empty so the runtime overlay fills them.
func extractRules(ldml *cldr.LDML, currencies map[string]bool) numfmt.NumberRules {
	var rules numfmt.NumberRules
	numbers := ldml.Numbers
	if numbers == nil {
		return rules
	}

	if len(numbers.MinimumGroupingDigits) > 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(numbers.MinimumGroupingDigits[0].Data())); err == nil {
			rules.MinGroupingDigits = n
		}
	}

	for _, symbols := range numbers.Symbols {
		if !latn(symbols.NumberSystem) || symbols.Alt != "" {
			continue
		}
		s := &rules.Symbols
		for _, d := range symbols.Decimal {
			s.Decimal = d.Data()
		}
		for _, g := range symbols.Group {
			s.Group = g.Data()
		}
		for _, p := range symbols.PercentSign {
			s.PercentSign = p.Data()
		}
		for _, p := range symbols.PlusSign {
			s.PlusSign = p.Data()
		}
		for _, m := range symbols.MinusSign {
			s.MinusSign = m.Data()
		}
		for _, i := range symbols.Infinity {
			s.Infinity = i.Data()
		}
		for _, n := range symbols.Nan {
			s.NaN = n.Data()
		}
	}

	for _, formats := range numbers.DecimalFormats {
		if !latn(formats.NumberSystem) {
			continue
		}
		for _, length := range formats.DecimalFormatLength {
			switch length.Type {
			case "":
				for _, f := range length.DecimalFormat {
					if p := standardPattern(f.Type, f.Pattern); p != "" {
						rules.Patterns.Decimal = p
					}
				}
			case "short":
				for _, f := range length.DecimalFormat {
					for _, p := range f.Pattern {
						power, ok := compactPower(p.Type)
						if !ok || p.Count != "other" || p.Alt != "" {
							continue
						}
						if rules.CompactShort == nil {
							rules.CompactShort = make(map[string]string)
						}
						rules.CompactShort[strconv.Itoa(power)] = p.Data()
					}
				}
			}
		}
	}

	for _, formats := range numbers.PercentFormats {
		if !latn(formats.NumberSystem) {
			continue
		}
		for _, length := range formats.PercentFormatLength {
			if length.Type != "" {
				continue
			}
			for _, f := range length.PercentFormat {
				if p := standardPattern(f.Type, f.Pattern); p != "" {
					rules.Patterns.Percent = p
				}
			}
		}
	}

	for _, formats := range numbers.CurrencyFormats {
		if !latn(formats.NumberSystem) {
			continue
		}
		for _, length := range formats.CurrencyFormatLength {
			if length.Type != "" {
				continue
			}
			for _, f := range length.CurrencyFormat {
				if p := standardPattern(f.Type, f.Pattern); p != "" {
					rules.Patterns.Currency = p
				}
			}
		}
	}

	if numbers.Currencies != nil {
		for _, currency := range numbers.Currencies.Currency {
			code := strings.ToUpper(currency.Type)
			if !currencies[code] {
				continue
			}
			for _, symbol := range currency.Symbol {
				switch symbol.Alt {
				case "":
					rules.CurrencySymbols = setSymbol(rules.CurrencySymbols, code, symbol.Data())
				case "narrow":
					rules.NarrowCurrencySymbols = setSymbol(rules.NarrowCurrencySymbols, code, symbol.Data())
				}
			}
		}
	}

	return rules
}

func latn(system string) bool {
	return system == "" || system == numberSystem
}

// standardPattern returns the pattern of a "standard" format element, skipping
// alternates such as alphaNextToNumber and the accounting format.
func standardPattern(formatType string, patterns []*struct {
	cldr.Common
	Numbers string `xml:"numbers,attr"`
	Count   string `xml:"count,attr"`
}) string {
	if formatType != "" && formatType != "standard" {
		return ""
	}
	for _, p := range patterns {
		if p.Alt == "" && p.Type == "" && p.Count == "" {
			return p.Data()
		}
	}
	return ""
}

// compactPower turns a CLDR compact type such as "10000" into its exponent.
func compactPower(typ string) (int, bool) {
	if len(typ) < 2 || typ[0] != '1' || strings.Trim(typ[1:], "0") != "" {
		return 0, false
	}
	return len(typ) - 1, true
}

func setSymbol(symbols map[string]string, code, value string) map[string]string {
	if value == "" {
		return symbols
	}
	if symbols == nil {
		symbols = make(map[string]string)
	}
	symbols[code] = value
	return symbols
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func sortedKeys(m map[string]numfmt.NumberRules) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
