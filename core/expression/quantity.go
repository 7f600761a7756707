// Package expression resolves rule expressions against a survey record:
// quantity references, "path == literal" conditions and remarks templates.
// Every function here is pure and never fails; unresolved input degrades to
// empty/zero as described on each function.
package expression

import (
	"strings"

	"github.com/shopspring/decimal"

	"solar-estimate/core/survey"
)

// ResolveQuantity returns the display text and numeric value of a rule quantity.
//
// A source path that resolves wins; its string form is displayed and its
// numeric content (0 for non-numeric text) is the value. Otherwise the literal
// is parsed, keeping the original text for display and falling back to 0 when
// it is not a number. With neither, the result is "" and 0.
func ResolveQuantity(source, literal string, s *survey.Survey) (string, decimal.Decimal) {
	if source != "" {
		if v, ok := survey.Lookup(s, source); ok {
			f, _ := v.Float()
			return v.String(), decimal.NewFromFloat(f)
		}
	}

	if literal != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(literal))
		if err != nil {
			return literal, decimal.Zero
		}
		return literal, d
	}

	return "", decimal.Zero
}

// CapacityKW returns the planned PV capacity of s.
func CapacityKW(s *survey.Survey) decimal.Decimal {
	if s == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(s.Equipment.PVCapacityKW)
}

// FormatDecimal renders d without trailing zeros, e.g. 190.08, 45, 1.5.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}
