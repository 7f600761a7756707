// Package estimate holds the estimate document model: categories, pricing
// methods, line items, sections, summary and cover.
package estimate

import (
	"fmt"
	"strings"
)

// Category is one of the six fixed groupings of an estimate
type Category string

const (
	CategorySupplied     Category = "supplied"
	CategoryMaterial     Category = "material"
	CategoryConstruction Category = "construction"
	CategoryOverhead     Category = "overhead"
	CategoryAdditional   Category = "additional"
	CategorySpecialNotes Category = "special_notes"
)

// categories is the document order
var categories = []Category{
	CategorySupplied,
	CategoryMaterial,
	CategoryConstruction,
	CategoryOverhead,
	CategoryAdditional,
	CategorySpecialNotes,
}

var categoryLabels = map[Category]string{
	CategorySupplied:     "支給品",
	CategoryMaterial:     "材料費",
	CategoryConstruction: "施工費",
	CategoryOverhead:     "その他・諸経費等",
	CategoryAdditional:   "付帯工事",
	CategorySpecialNotes: "特記事項",
}

// Categories returns all categories in document order
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory accepts the identifier form, e.g. "construction".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSpace(s))
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// Label is the heading printed on the estimate
func (c Category) Label() string {
	return categoryLabels[c]
}

// Number is the 1-based position in the document
func (c Category) Number() int {
	for i, cat := range categories {
		if cat == c {
			return i + 1
		}
	}
	return 0
}

// Method is the strategy used to turn a rule item into an amount
type Method int

const (
	MethodFixed Method = iota
	MethodKWRate
	MethodConditional
	MethodDistance
	MethodManual
	MethodSupplied
)

var methodNames = map[Method]string{
	MethodFixed:       "fixed",
	MethodKWRate:      "kw_rate",
	MethodConditional: "conditional",
	MethodDistance:    "distance",
	MethodManual:      "manual",
	MethodSupplied:    "supplied",
}

// String returns the rule-document name of the method
func (m Method) String() string {
	if name, ok := methodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// ParseMethod maps a rule-document name to a Method. An empty name means fixed.
func ParseMethod(s string) (Method, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MethodFixed, nil
	}
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown pricing method %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (m Method) MarshalText() ([]byte, error) {
	if _, ok := methodNames[m]; !ok {
		return nil, fmt.Errorf("unknown pricing method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DiscountMethod names the policy applied to the subtotal before tax
type DiscountMethod string

const (
	// DiscountRoundDown10000 rounds the subtotal down to the nearest ¥10,000
	DiscountRoundDown10000 DiscountMethod = "round_down_10000"

	// DiscountNone leaves the subtotal as is
	DiscountNone DiscountMethod = "none"
)

// Valid reports whether d is a known policy
func (d DiscountMethod) Valid() bool {
	return d == DiscountRoundDown10000 || d == DiscountNone
}
