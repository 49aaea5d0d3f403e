package numfmt

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// normalizeLocale trims whitespace and replaces underscores with hyphens.
func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")
}

// canonicalLocale returns the BCP 47 canonical form, e.g. "de_de" -> "de-DE".
// Identifiers x/text cannot parse are returned normalized but otherwise untouched.
func canonicalLocale(locale string) string {
	normalized := normalizeLocale(locale)
	if normalized == "" {
		return ""
	}
	tag, err := language.Parse(normalized)
	if err != nil || tag == language.Und {
		return normalized
	}
	return tag.String()
}

func baseLanguage(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		if idx := strings.Index(locale, "-"); idx > 0 {
			return locale[:idx]
		}
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// normalizeLocales canonicalizes a preference list, dropping blanks and
// duplicates while keeping the caller's order.
func normalizeLocales(locales []string) []string {
	if len(locales) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(locales))
	result := make([]string, 0, len(locales))
	for _, locale := range locales {
		normalized := canonicalLocale(locale)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

func sortedLocales(locales []string) []string {
	out := normalizeLocales(locales)
	sort.Strings(out)
	return out
}

func containsLocale(locales []string, locale string) bool {
	for _, candidate := range locales {
		if candidate == locale {
			return true
		}
	}
	return false
}
