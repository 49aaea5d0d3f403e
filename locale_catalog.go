package numfmt

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// LocaleCatalog is an immutable snapshot of the locales that carry number rules.
type LocaleCatalog struct {
	defaultLocale string
	defaultEntry  string
	locales       map[string]localeEntry
	codes         []string
}

type localeEntry struct {
	displayName string
	fallbacks   []string
	symbols     NumberSymbols
	sample      string
}

// LocaleMetadata exposes the metadata for a single locale.
type LocaleMetadata struct {
	Code        string   `json:"code"`
	DisplayName string   `json:"display_name"`
	Fallbacks   []string `json:"fallbacks,omitempty"`
	Decimal     string   `json:"decimal"`
	Group       string   `json:"group"`
	Sample      string   `json:"sample"`
}

const catalogSampleValue = 1234567.891

// NewLocaleCatalog builds a catalog from the locales provider has rules for.
// Display names are autonyms from x/text, e.g. "Deutsch" for de.
func NewLocaleCatalog(provider *RulesProvider, defaultLocale string) *LocaleCatalog {
	if provider == nil {
		return nil
	}

	formatter := &RulesFormatter{provider: provider}
	codes := provider.Locales()
	locales := make(map[string]localeEntry, len(codes))

	for _, code := range codes {
		entry := localeEntry{
			symbols:   provider.Get(code).Symbols,
			fallbacks: provider.fallbacks(code),
		}
		if tag, err := language.Parse(code); err == nil {
			entry.displayName = display.Self.Name(tag)
		}
		if entry.displayName == "" {
			entry.displayName = code
		}
		entry.sample, _ = formatter.FormatNumber(catalogSampleValue, []string{code}, Options{})
		locales[code] = entry
	}

	catalog := &LocaleCatalog{
		defaultLocale: canonicalLocale(defaultLocale),
		locales:       locales,
		codes:         codes,
	}
	for _, code := range lookupChain(catalog.defaultLocale) {
		if _, ok := locales[code]; ok {
			catalog.defaultEntry = code
			break
		}
	}
	return catalog
}

// DefaultLocale returns the configured default locale.
func (c *LocaleCatalog) DefaultLocale() string {
	if c == nil {
		return ""
	}
	return c.defaultLocale
}

// DefaultEntry returns the catalog code whose rules serve the default locale,
// e.g. "en" when the default is "en-US". It is empty when no entry matches.
func (c *LocaleCatalog) DefaultEntry() string {
	if c == nil {
		return ""
	}
	return c.defaultEntry
}

// LocaleCodes returns every locale in the catalog, sorted alphabetically.
func (c *LocaleCatalog) LocaleCodes() []string {
	if c == nil || len(c.codes) == 0 {
		return nil
	}
	out := make([]string, len(c.codes))
	copy(out, c.codes)
	return out
}

// DisplayName returns the autonym for the requested locale.
func (c *LocaleCatalog) DisplayName(locale string) string {
	if c == nil {
		return ""
	}
	entry, ok := c.locales[canonicalLocale(locale)]
	if !ok {
		return ""
	}
	return entry.displayName
}

// Has reports whether the locale has its own rules entry.
func (c *LocaleCatalog) Has(locale string) bool {
	if c == nil {
		return false
	}
	_, ok := c.locales[canonicalLocale(locale)]
	return ok
}

// Locale returns the full metadata payload for a locale.
func (c *LocaleCatalog) Locale(locale string) (LocaleMetadata, bool) {
	if c == nil {
		return LocaleMetadata{}, false
	}
	code := canonicalLocale(locale)
	entry, ok := c.locales[code]
	if !ok {
		return LocaleMetadata{}, false
	}
	meta := LocaleMetadata{
		Code:        code,
		DisplayName: entry.displayName,
		Decimal:     entry.symbols.Decimal,
		Group:       entry.symbols.Group,
		Sample:      entry.sample,
	}
	if len(entry.fallbacks) > 0 {
		meta.Fallbacks = append([]string(nil), entry.fallbacks...)
	}
	return meta, true
}

// All returns metadata for every locale, sorted by code.
func (c *LocaleCatalog) All() []LocaleMetadata {
	if c == nil {
		return nil
	}
	out := make([]LocaleMetadata, 0, len(c.codes))
	for _, code := range c.codes {
		if meta, ok := c.Locale(code); ok {
			out = append(out, meta)
		}
	}
	return out
}
