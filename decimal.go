package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// decimal is an unsigned decimal value 0.d1d2d3... x 10^exp. Digits carry no
// leading or trailing zeros; an empty digit slice is zero.
type decimal struct {
	digits []byte
	exp    int
}

func newDecimal(v float64) decimal {
	v = math.Abs(v)
	if v == 0 {
		return decimal{}
	}

	// shortest representation that round-trips, in d.ddddde±XX form
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mantissa, exponent, _ := strings.Cut(s, "e")
	e, _ := strconv.Atoi(exponent)

	digits := make([]byte, 0, len(mantissa))
	for i := 0; i < len(mantissa); i++ {
		if mantissa[i] != '.' {
			digits = append(digits, mantissa[i])
		}
	}

	d := decimal{digits: digits, exp: e + 1}
	d.trim()
	return d
}

func (d decimal) isZero() bool {
	return len(d.digits) == 0
}

func (d decimal) clone() decimal {
	return decimal{digits: append([]byte(nil), d.digits...), exp: d.exp}
}

// shift multiplies the value by 10^n.
func (d *decimal) shift(n int) {
	if d.isZero() {
		return
	}
	d.exp += n
}

// integerDigits returns the number of digits before the decimal point.
func (d decimal) integerDigits() int {
	if d.isZero() || d.exp <= 0 {
		return 0
	}
	return d.exp
}

// roundFraction rounds half away from zero to maxFrac fraction digits.
func (d *decimal) roundFraction(maxFrac int) {
	d.roundAt(d.exp + maxFrac)
}

// roundSignificant rounds half away from zero to maxSig significant digits.
func (d *decimal) roundSignificant(maxSig int) {
	d.roundAt(maxSig)
}

// roundAt keeps the first n digits.
func (d *decimal) roundAt(n int) {
	if d.isZero() || n >= len(d.digits) {
		return
	}
	if n < 0 {
		*d = decimal{}
		return
	}

	roundUp := d.digits[n] >= '5'
	d.digits = d.digits[:n]

	if roundUp {
		i := n - 1
		for ; i >= 0; i-- {
			if d.digits[i] < '9' {
				d.digits[i]++
				break
			}
			d.digits[i] = '0'
		}
		if i < 0 {
			d.digits = append([]byte{'1'}, d.digits...)
			d.exp++
		}
	}
	d.trim()
}

func (d *decimal) trim() {
	end := len(d.digits)
	for end > 0 && d.digits[end-1] == '0' {
		end--
	}
	d.digits = d.digits[:end]

	start := 0
	for start < len(d.digits) && d.digits[start] == '0' {
		start++
	}
	if start > 0 {
		d.digits = d.digits[start:]
		d.exp -= start
	}

	if len(d.digits) == 0 {
		d.exp = 0
	}
}

// parts splits the value into integer and fraction digit strings.
func (d decimal) parts() (intPart, fracPart string) {
	if d.isZero() {
		return "0", ""
	}

	switch {
	case d.exp <= 0:
		return "0", strings.Repeat("0", -d.exp) + string(d.digits)
	case d.exp >= len(d.digits):
		return string(d.digits) + strings.Repeat("0", d.exp-len(d.digits)), ""
	default:
		return string(d.digits[:d.exp]), string(d.digits[d.exp:])
	}
}

// digitRules is the resolved digit policy applied to a decimal.
type digitRules struct {
	minInt  int
	minFrac int
	maxFrac int
	minSig  int
	maxSig  int
	useSig  bool
}

// render rounds d according to rules and returns padded integer and fraction parts.
func (d decimal) render(rules digitRules) (decimal, string, string) {
	rounded := d.clone()
	if rules.useSig {
		rounded.roundSignificant(rules.maxSig)
	} else {
		rounded.roundFraction(rules.maxFrac)
	}

	intPart, fracPart := rounded.parts()

	if rules.useSig {
		sig := significantCount(intPart, fracPart)
		if sig < rules.minSig {
			fracPart += strings.Repeat("0", rules.minSig-sig)
		}
	} else if len(fracPart) < rules.minFrac {
		fracPart += strings.Repeat("0", rules.minFrac-len(fracPart))
	}

	if rules.minInt > len(intPart) {
		intPart = strings.Repeat("0", rules.minInt-len(intPart)) + intPart
	}

	return rounded, intPart, fracPart
}

func significantCount(intPart, fracPart string) int {
	if strings.TrimLeft(intPart, "0") != "" {
		return len(strings.TrimLeft(intPart, "0")) + len(fracPart)
	}
	trimmed := strings.TrimLeft(fracPart, "0")
	if trimmed == "" {
		// zero counts its single integer digit
		return 1 + len(fracPart)
	}
	return len(trimmed)
}

// groupDigits inserts sep into an integer digit string using CLDR grouping sizes.
func groupDigits(intPart, sep string, primary, secondary, minGrouping int) string {
	if sep == "" || primary <= 0 || len(intPart) < primary+max(minGrouping, 1) {
		return intPart
	}
	if secondary <= 0 {
		secondary = primary
	}

	var groups []string
	rest := intPart
	size := primary
	for len(rest) > size {
		groups = append(groups, rest[len(rest)-size:])
		rest = rest[:len(rest)-size]
		size = secondary
	}
	groups = append(groups, rest)

	var b strings.Builder
	for i := len(groups) - 1; i >= 0; i-- {
		b.WriteString(groups[i])
		if i > 0 {
			b.WriteString(sep)
		}
	}
	return b.String()
}
