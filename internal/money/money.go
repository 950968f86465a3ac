// Package money normalizes monetary values at the catalog boundary.
//
// The legacy storefront carried prices either as raw numbers or as
// formatted strings ("2,490 ฿") depending on call site. Everything past
// this package works in integer satang; formatting happens only at
// display time.
package money

import (
	"strconv"
	"strings"
)

// FractionDigits is the number of minor-unit digits for Thai baht.
const FractionDigits = 2

// Parse converts a formatted price string to integer satang. Currency
// symbols, thousands separators and surrounding whitespace are
// stripped; "2,490 ฿" parses to 249000. Anything that does not
// normalize to a finite non-negative number parses to 0.
func Parse(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || strings.Count(cleaned, ".") > 1 {
		return 0
	}

	major := cleaned
	frac := ""
	if i := strings.IndexByte(cleaned, '.'); i >= 0 {
		major, frac = cleaned[:i], cleaned[i+1:]
	}
	if major == "" {
		major = "0"
	}
	switch {
	case len(frac) > FractionDigits:
		frac = frac[:FractionDigits]
	case len(frac) < FractionDigits:
		frac += strings.Repeat("0", FractionDigits-len(frac))
	}

	units, err := strconv.ParseInt(major, 10, 64)
	if err != nil {
		return 0
	}
	minor, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0
	}
	return units*100 + minor
}

// ParseCents accepts values that may already be numeric cents or may be
// a formatted string, collapsing the legacy ambiguity to one rule.
func ParseCents(v interface{}) int64 {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return 0
		}
		return n
	case int:
		if n < 0 {
			return 0
		}
		return int64(n)
	case float64:
		if n < 0 || n != n {
			return 0
		}
		return int64(n)
	case string:
		return Parse(n)
	default:
		return 0
	}
}

// Format renders satang as a display string with thousands separators
// and the baht sign, e.g. 249000 -> "2,490 ฿", 249050 -> "2,490.50 ฿".
func Format(cents int64) string {
	if cents < 0 {
		cents = 0
	}
	units := cents / 100
	minor := cents % 100

	digits := strconv.FormatInt(units, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if minor > 0 {
		b.WriteString(".")
		if minor < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(minor, 10))
	}
	b.WriteString(" ฿")
	return b.String()
}
