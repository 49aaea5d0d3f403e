package numfmt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	currencyPlaceholder = "¤"
	percentPlaceholder  = "%"
	nbsp                = "\u00a0"
)

// numberPattern is a parsed CLDR number pattern such as "#,##0.00 ¤".
// Affixes keep the ¤, % and - placeholders unexpanded. The negative affixes
// are only set when the pattern carries an explicit ";" subpattern.
type numberPattern struct {
	prefix    string
	suffix    string
	primary   int
	secondary int

	negative  bool
	negPrefix string
	negSuffix string
}

func parsePattern(pattern string) numberPattern {
	positive, negative, found := strings.Cut(pattern, ";")
	out := parsePositive(positive)
	if found {
		out.negative = true
		out.negPrefix, out.negSuffix = splitAffixes(negative)
	}
	return out
}

// splitAffixes returns the text around the number core of a subpattern. The
// grouping of a negative subpattern always follows the positive one.
func splitAffixes(pattern string) (string, string) {
	start := strings.IndexAny(pattern, "#0,.")
	if start < 0 {
		return unquote(pattern), ""
	}
	end := strings.LastIndexAny(pattern, "#0,.")
	return unquote(pattern[:start]), unquote(pattern[end+1:])
}

func parsePositive(pattern string) numberPattern {
	start := strings.IndexAny(pattern, "#0,.")
	if start < 0 {
		return numberPattern{prefix: unquote(pattern), primary: 3}
	}
	end := strings.LastIndexAny(pattern, "#0,.")

	core := pattern[start : end+1]
	integer, _, _ := strings.Cut(core, ".")

	out := numberPattern{
		prefix: unquote(pattern[:start]),
		suffix: unquote(pattern[end+1:]),
	}

	groups := strings.Split(integer, ",")
	switch len(groups) {
	case 1:
		// no grouping in the pattern
	case 2:
		out.primary = len(groups[1])
	default:
		out.primary = len(groups[len(groups)-1])
		out.secondary = len(groups[len(groups)-2])
	}
	return out
}

// apply wraps a rendered number in the pattern affixes, expanding placeholders.
func (p numberPattern) apply(number, percentSign, currencySymbol string) string {
	prefix := expandAffix(p.prefix, percentSign, currencySymbol, true)
	suffix := expandAffix(p.suffix, percentSign, currencySymbol, false)
	return prefix + number + suffix
}

// applyNegative renders a negative number through the explicit negative
// subpattern, so "¤-#,##0.00" gives "CHF-5.00" rather than "-CHF 5.00".
func (p numberPattern) applyNegative(number, minusSign, percentSign, currencySymbol string) string {
	negPrefix, negSuffix := p.negPrefix, p.negSuffix
	if minusSign != "-" {
		negPrefix = strings.ReplaceAll(negPrefix, "-", minusSign)
		negSuffix = strings.ReplaceAll(negSuffix, "-", minusSign)
	}
	prefix := expandAffix(negPrefix, percentSign, currencySymbol, true)
	suffix := expandAffix(negSuffix, percentSign, currencySymbol, false)
	return prefix + number + suffix
}

// expandAffix substitutes placeholders. A currency symbol that ends (or, in a
// suffix, starts) with a letter gets a no-break space next to the digits, so
// "CHF10" renders as "CHF 10".
func expandAffix(affix, percentSign, currencySymbol string, isPrefix bool) string {
	if affix == "" {
		return ""
	}
	if strings.Contains(affix, percentPlaceholder) {
		affix = strings.ReplaceAll(affix, percentPlaceholder, percentSign)
	}
	if !strings.Contains(affix, currencyPlaceholder) {
		return affix
	}

	symbol := currencySymbol
	if isPrefix && strings.HasSuffix(affix, currencyPlaceholder) {
		if r, _ := utf8.DecodeLastRuneInString(symbol); unicode.IsLetter(r) {
			symbol += nbsp
		}
	}
	if !isPrefix && strings.HasPrefix(affix, currencyPlaceholder) {
		if r, _ := utf8.DecodeRuneInString(symbol); unicode.IsLetter(r) {
			symbol = nbsp + symbol
		}
	}
	return strings.ReplaceAll(affix, currencyPlaceholder, symbol)
}

func unquote(s string) string {
	if !strings.Contains(s, "'") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\'' {
			b.WriteByte(s[i])
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			b.WriteByte('\'')
			i++
		}
	}
	return b.String()
}

// compactPattern is a short compact pattern such as "00K" registered for a
// power of ten. A pattern of "0" means the number renders uncompacted.
type compactPattern struct {
	power  int
	zeros  int
	prefix string
	suffix string
}

func parseCompactPattern(power int, pattern string) compactPattern {
	out := compactPattern{power: power}
	start := strings.Index(pattern, "0")
	if start < 0 {
		return out
	}
	end := strings.LastIndex(pattern, "0")

	out.zeros = end - start + 1
	out.prefix = unquote(pattern[:start])
	out.suffix = unquote(pattern[end+1:])
	return out
}

// abbreviates reports whether the pattern scales the number.
func (c compactPattern) abbreviates() bool {
	return c.zeros > 0 && (c.prefix != "" || c.suffix != "")
}

// divisorExponent is the power of ten the value is divided by.
func (c compactPattern) divisorExponent() int {
	return c.power - (c.zeros - 1)
}
