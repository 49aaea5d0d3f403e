package numfmt

import (
	_ "embed"
	"fmt"
	"maps"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
)

//go:embed data/number_rules.json
var defaultNumberRulesJSON []byte

// NumberSymbols holds the locale specific symbols used while rendering numbers.
type NumberSymbols struct {
	Decimal     string `json:"decimal"`
	Group       string `json:"group"`
	PercentSign string `json:"percent_sign"`
	PlusSign    string `json:"plus_sign"`
	MinusSign   string `json:"minus_sign"`
	Infinity    string `json:"infinity"`
	NaN         string `json:"nan"`
}

// NumberPatterns are CLDR number patterns for each style, e.g. "#,##0.###".
type NumberPatterns struct {
	Decimal  string `json:"decimal"`
	Percent  string `json:"percent"`
	Currency string `json:"currency"`
}

// NumberRules describes how numbers render for a locale. Entries for regional
// locales only need the fields that differ from their parent locale.
type NumberRules struct {
	Locale                string            `json:"locale"`
	Symbols               NumberSymbols     `json:"symbols"`
	MinGroupingDigits     int               `json:"min_grouping_digits"`
	Patterns              NumberPatterns    `json:"patterns"`
	CompactShort          map[string]string `json:"compact_short"`
	CurrencySymbols       map[string]string `json:"currency_symbols"`
	NarrowCurrencySymbols map[string]string `json:"narrow_currency_symbols"`
}

// RulesData is the full set of locale rules, as stored in number_rules.json.
type RulesData struct {
	DefaultLocale string                 `json:"default_locale"`
	Locales       map[string]NumberRules `json:"locales"`
}

var (
	defaultRulesOnce sync.Once
	defaultRulesData *RulesData
	defaultRulesErr  error
)

// DefaultRulesData returns a copy of the embedded CLDR derived rules.
func DefaultRulesData() (*RulesData, error) {
	defaultRulesOnce.Do(func() {
		var data RulesData
		if err := json.Unmarshal(defaultNumberRulesJSON, &data); err != nil {
			defaultRulesErr = fmt.Errorf("parse default number rules: %w", err)
			return
		}
		defaultRulesData = &data
	})
	if defaultRulesErr != nil {
		return nil, defaultRulesErr
	}
	return defaultRulesData.clone(), nil
}

// LoadRulesData reads the embedded rules and merges each override file on top,
// in order. Later files win per locale and per field.
func LoadRulesData(paths ...string) (*RulesData, error) {
	base, err := DefaultRulesData()
	if err != nil {
		return nil, err
	}

	for _, path := range paths {
		if strings.TrimSpace(path) == "" {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load number rules override: %w", err)
		}
		var override RulesData
		if err := json.Unmarshal(raw, &override); err != nil {
			return nil, fmt.Errorf("parse number rules override %s: %w", path, err)
		}
		base.merge(&override)
	}
	return base, nil
}

func (d *RulesData) clone() *RulesData {
	out := &RulesData{
		DefaultLocale: d.DefaultLocale,
		Locales:       make(map[string]NumberRules, len(d.Locales)),
	}
	for code, rules := range d.Locales {
		out.Locales[code] = rules.overlay(NumberRules{})
	}
	return out
}

func (d *RulesData) merge(source *RulesData) {
	if source == nil {
		return
	}
	if source.DefaultLocale != "" {
		d.DefaultLocale = source.DefaultLocale
	}
	if d.Locales == nil {
		d.Locales = make(map[string]NumberRules, len(source.Locales))
	}
	for code, rules := range source.Locales {
		key := canonicalLocale(code)
		d.Locales[key] = d.Locales[key].overlay(rules)
	}
}

// overlay returns r with every non-empty field of top applied over it.
func (r NumberRules) overlay(top NumberRules) NumberRules {
	out := r
	if top.Locale != "" {
		out.Locale = top.Locale
	}
	out.Symbols = overlaySymbols(out.Symbols, top.Symbols)
	if top.MinGroupingDigits > 0 {
		out.MinGroupingDigits = top.MinGroupingDigits
	}
	if top.Patterns.Decimal != "" {
		out.Patterns.Decimal = top.Patterns.Decimal
	}
	if top.Patterns.Percent != "" {
		out.Patterns.Percent = top.Patterns.Percent
	}
	if top.Patterns.Currency != "" {
		out.Patterns.Currency = top.Patterns.Currency
	}
	out.CompactShort = mergeStringMaps(r.CompactShort, top.CompactShort)
	out.CurrencySymbols = mergeStringMaps(r.CurrencySymbols, top.CurrencySymbols)
	out.NarrowCurrencySymbols = mergeStringMaps(r.NarrowCurrencySymbols, top.NarrowCurrencySymbols)
	return out
}

func overlaySymbols(base, top NumberSymbols) NumberSymbols {
	pick := func(a, b string) string {
		if b != "" {
			return b
		}
		return a
	}
	return NumberSymbols{
		Decimal:     pick(base.Decimal, top.Decimal),
		Group:       pick(base.Group, top.Group),
		PercentSign: pick(base.PercentSign, top.PercentSign),
		PlusSign:    pick(base.PlusSign, top.PlusSign),
		MinusSign:   pick(base.MinusSign, top.MinusSign),
		Infinity:    pick(base.Infinity, top.Infinity),
		NaN:         pick(base.NaN, top.NaN),
	}
}

func mergeStringMaps(base, top map[string]string) map[string]string {
	if len(base) == 0 && len(top) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(top))
	maps.Copy(out, base)
	maps.Copy(out, top)
	return out
}

// RulesProvider resolves NumberRules for locale preference lists.
type RulesProvider struct {
	data          *RulesData
	defaultLocale string

	mu    sync.RWMutex
	cache map[string]*resolvedRules
}

type resolvedRules struct {
	rules        NumberRules
	decimal      numberPattern
	percent      numberPattern
	currency     numberPattern
	compact      map[int]compactPattern
	compactLimit int
}

// NewRulesProvider creates a provider over data. A nil data set uses the embedded rules.
func NewRulesProvider(data *RulesData) (*RulesProvider, error) {
	if data == nil {
		var err error
		data, err = DefaultRulesData()
		if err != nil {
			return nil, err
		}
	}

	defaultLocale := canonicalLocale(data.DefaultLocale)
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	if _, ok := data.Locales[defaultLocale]; !ok {
		return nil, fmt.Errorf("numfmt: default rules locale %q is not defined", defaultLocale)
	}

	normalized := &RulesData{
		DefaultLocale: defaultLocale,
		Locales:       make(map[string]NumberRules, len(data.Locales)),
	}
	for code, rules := range data.Locales {
		normalized.Locales[canonicalLocale(code)] = rules
	}

	return &RulesProvider{
		data:          normalized,
		defaultLocale: defaultLocale,
		cache:         make(map[string]*resolvedRules),
	}, nil
}

// Locales returns every locale with explicit rules, sorted.
func (p *RulesProvider) Locales() []string {
	if p == nil {
		return nil
	}
	codes := make([]string, 0, len(p.data.Locales))
	for code := range p.data.Locales {
		codes = append(codes, code)
	}
	return sortedLocales(codes)
}

// Get returns the effective rules for a single locale.
func (p *RulesProvider) Get(locale string) NumberRules {
	resolved, _ := p.match([]string{locale})
	return resolved.rules
}

// Match returns the rules for the first preference with data, and the
// canonical tag of that preference. It falls back to the default locale.
func (p *RulesProvider) Match(locales []string) (NumberRules, string) {
	resolved, tag := p.match(locales)
	return resolved.rules, tag
}

func (p *RulesProvider) match(locales []string) (*resolvedRules, string) {
	for _, locale := range locales {
		tag := canonicalLocale(locale)
		if tag == "" {
			continue
		}
		if resolved := p.resolve(tag); resolved != nil {
			return resolved, tag
		}
	}
	return p.resolve(p.defaultLocale), p.defaultLocale
}

// lookupChain lists tag and then the locales it inherits rules from, closest
// first: en-IN, en-001, en. Tags x/text cannot parse lose one subtag per step.
// The base language always closes the chain.
func lookupChain(tag string) []string {
	chain := []string{tag}
	add := func(code string) bool {
		if code == "" || code == "und" || containsLocale(chain, code) {
			return false
		}
		chain = append(chain, code)
		return true
	}

	if parsed, err := language.Parse(tag); err == nil {
		for parent := parsed.Parent(); parent != language.Und; parent = parent.Parent() {
			if !add(parent.String()) {
				break
			}
		}
	} else {
		for code := tag; ; {
			idx := strings.LastIndex(code, "-")
			if idx <= 0 {
				break
			}
			code = code[:idx]
			add(code)
		}
	}
	add(baseLanguage(tag))
	return chain
}

// fallbacks returns the ancestors of tag that carry their own rules entry.
func (p *RulesProvider) fallbacks(tag string) []string {
	var out []string
	for _, code := range lookupChain(tag)[1:] {
		if _, ok := p.data.Locales[code]; ok {
			out = append(out, code)
		}
	}
	return out
}

// resolve overlays the locale chain from the least specific entry to the most
// specific one, so regional entries only override what differs.
func (p *RulesProvider) resolve(tag string) *resolvedRules {
	p.mu.RLock()
	if cached, ok := p.cache[tag]; ok {
		p.mu.RUnlock()
		return cached
	}
	p.mu.RUnlock()

	chain := lookupChain(tag)

	var (
		found bool
		rules NumberRules
	)
	if root, ok := p.data.Locales[p.defaultLocale]; ok && tag != p.defaultLocale {
		rules = root
	}
	for i := len(chain) - 1; i >= 0; i-- {
		entry, ok := p.data.Locales[chain[i]]
		if !ok {
			continue
		}
		found = true
		rules = rules.overlay(entry)
	}
	if !found {
		return nil
	}
	rules.Locale = tag

	resolved := &resolvedRules{
		rules:    rules,
		decimal:  parsePattern(rules.Patterns.Decimal),
		percent:  parsePattern(rules.Patterns.Percent),
		currency: parsePattern(rules.Patterns.Currency),
		compact:  make(map[int]compactPattern, len(rules.CompactShort)),
	}
	for key, pattern := range rules.CompactShort {
		power, err := strconv.Atoi(key)
		if err != nil || power < 0 {
			continue
		}
		resolved.compact[power] = parseCompactPattern(power, pattern)
		if power > resolved.compactLimit {
			resolved.compactLimit = power
		}
	}

	p.mu.Lock()
	p.cache[tag] = resolved
	p.mu.Unlock()

	return resolved
}
