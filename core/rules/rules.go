// Package rules holds the declarative pricing rules: one ordered list of item
// definitions per estimate category plus the global tax and discount settings.
// A RuleSet is immutable once built and safe to share between goroutines.
package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"solar-estimate/core/estimate"
	"solar-estimate/core/expression"
	"solar-estimate/core/survey"
	"solar-estimate/internal/errors"
)

// DefaultTaxRate is used when a rule document does not set tax_rate
var DefaultTaxRate = decimal.NewFromFloat(0.10)

// ItemDef describes how to price one recurring line of the estimate
type ItemDef struct {
	No              int             `json:"no"`
	Description     string          `json:"description"`
	Remarks         string          `json:"remarks,omitempty"`
	RemarksTemplate string          `json:"remarks_template,omitempty"`
	Quantity        string          `json:"quantity,omitempty"`
	QuantitySource  string          `json:"quantity_source,omitempty"`
	QuantityUnit    string          `json:"quantity_unit,omitempty"`
	UnitPrice       int64           `json:"unit_price"`
	Method          estimate.Method `json:"method"`
	Condition       string          `json:"condition,omitempty"`
	IsManual        bool            `json:"is_manual,omitempty"`
	Note            string          `json:"note,omitempty"`
}

// EffectiveMethod is the method the item is priced with: is_manual forces
// manual entry whatever method was declared.
func (d ItemDef) EffectiveMethod() estimate.Method {
	if d.IsManual {
		return estimate.MethodManual
	}
	return d.Method
}

// Params are the global settings of a rule set
type Params struct {
	Version        string
	TaxRate        decimal.Decimal
	DiscountMethod estimate.DiscountMethod
}

// RuleSet is a validated rule document
type RuleSet struct {
	Version        string
	TaxRate        decimal.Decimal
	DiscountMethod estimate.DiscountMethod

	// Warnings lists problems that do not stop loading, e.g. conditions that
	// cannot be parsed and therefore always include their item.
	Warnings []string

	items map[estimate.Category][]ItemDef
}

// New validates items and params and builds a RuleSet. A zero TaxRate is
// kept as zero; an empty DiscountMethod means round_down_10000.
func New(p Params, items map[estimate.Category][]ItemDef) (*RuleSet, error) {
	rs := &RuleSet{
		Version:        p.Version,
		TaxRate:        p.TaxRate,
		DiscountMethod: p.DiscountMethod,
		items:          make(map[estimate.Category][]ItemDef, len(items)),
	}

	if rs.DiscountMethod == "" {
		rs.DiscountMethod = estimate.DiscountRoundDown10000
	}
	if !rs.DiscountMethod.Valid() {
		return nil, errors.Configf("unknown discount method %q", p.DiscountMethod)
	}
	if rs.TaxRate.IsNegative() {
		return nil, errors.Configf("tax rate must not be negative, got %s", rs.TaxRate)
	}

	for _, cat := range estimate.Categories() {
		defs := items[cat]
		if len(defs) == 0 {
			continue
		}
		if cat == estimate.CategorySpecialNotes {
			return nil, errors.Configf("category %s takes no rule items", cat)
		}
		warnings, err := validateItems(cat, defs)
		if err != nil {
			return nil, err
		}
		rs.Warnings = append(rs.Warnings, warnings...)
		rs.items[cat] = append([]ItemDef(nil), defs...)
	}

	for cat := range items {
		if cat.Number() == 0 {
			return nil, errors.Configf("unknown category %q", string(cat))
		}
	}

	return rs, nil
}

func validateItems(cat estimate.Category, defs []ItemDef) ([]string, error) {
	var warnings []string
	prev := 0

	for _, d := range defs {
		where := fmt.Sprintf("%s item %d", cat, d.No)

		if d.No <= prev {
			return nil, errors.Configf("%s: item numbers must be unique and increasing (previous %d)", where, prev)
		}
		prev = d.No

		if strings.TrimSpace(d.Description) == "" {
			return nil, errors.Configf("%s: description is required", where)
		}
		if d.UnitPrice < 0 {
			return nil, errors.Configf("%s: unit price must not be negative, got %d", where, d.UnitPrice)
		}
		if d.QuantitySource != "" && !survey.KnownField(d.QuantitySource) {
			return nil, errors.Configf("%s: unknown quantity source %q", where, d.QuantitySource)
		}

		if strings.TrimSpace(d.Condition) == "" {
			continue
		}
		c, ok := expression.ParseCondition(d.Condition)
		if !ok {
			warnings = append(warnings, fmt.Sprintf(
				"%s: condition %q is not of the form <path> == <value>; the item is always included", where, d.Condition))
			continue
		}
		if !survey.KnownField(c.Path) {
			return nil, errors.Configf("%s: condition refers to unknown field %q", where, c.Path)
		}
	}

	return warnings, nil
}

// Items returns the ordered definitions of category c
func (r *RuleSet) Items(c estimate.Category) []ItemDef {
	defs := r.items[c]
	out := make([]ItemDef, len(defs))
	copy(out, defs)
	return out
}

// Len returns the number of item definitions across all categories
func (r *RuleSet) Len() int {
	n := 0
	for _, defs := range r.items {
		n += len(defs)
	}
	return n
}
