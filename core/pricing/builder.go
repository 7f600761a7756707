// Package pricing turns rule items into priced line items, one section per
// estimate category, and holds the discount and tax policy applied to the
// summed sections.
package pricing

import (
	"github.com/shopspring/decimal"

	"solar-estimate/core/estimate"
	"solar-estimate/core/explanation"
	"solar-estimate/core/expression"
	"solar-estimate/core/rules"
	"solar-estimate/core/survey"
)

// SuppliedMarker is appended to the remarks of every supplied item
const SuppliedMarker = "御支給品"

// Builder prices the rule items of one category
type Builder struct {
	category estimate.Category
}

// NewBuilder creates a builder for category c
func NewBuilder(c estimate.Category) *Builder {
	return &Builder{category: c}
}

// Category returns the category this builder prices
func (b *Builder) Category() estimate.Category {
	return b.category
}

// Build prices every rule item of the category in rule order. The special
// notes section is always empty.
func (b *Builder) Build(rs *rules.RuleSet, s *survey.Survey) *estimate.CategorySection {
	section := estimate.NewSection(b.category)
	if b.category != estimate.CategorySpecialNotes {
		for _, def := range rs.Items(b.category) {
			section.Items = append(section.Items, b.Price(def, s))
		}
	}
	section.CalculateTotals()
	return section
}

// BuildAll builds all six sections in document order
func BuildAll(rs *rules.RuleSet, s *survey.Survey) []*estimate.CategorySection {
	cats := estimate.Categories()
	sections := make([]*estimate.CategorySection, 0, len(cats))
	for _, c := range cats {
		sections = append(sections, NewBuilder(c).Build(rs, s))
	}
	return sections
}

// Price turns one rule item into a line item
func (b *Builder) Price(def rules.ItemDef, s *survey.Survey) *estimate.LineItem {
	item := &estimate.LineItem{
		No:            def.No,
		Description:   def.Description,
		Remarks:       def.Remarks,
		QuantityValue: decimal.Zero,
		IsManualInput: def.IsManual,
	}
	if def.RemarksTemplate != "" {
		item.Remarks = expression.ResolveTemplate(def.RemarksTemplate, s)
	}
	if b.category == estimate.CategorySupplied {
		item.Remarks = withSuppliedMarker(item.Remarks)
	}

	if def.Condition != "" && !expression.EvaluateCondition(def.Condition, s) {
		r := explanation.NotFulfilled(def.Condition, def.Note)
		item.Reasoning = &r
		return item
	}

	qstr, qval := expression.ResolveQuantity(def.QuantitySource, def.Quantity, s)

	method := def.EffectiveMethod()
	if b.category == estimate.CategorySupplied {
		method = estimate.MethodSupplied
	}

	item.QuantityUnit = def.QuantityUnit
	item.UnitPrice = def.UnitPrice

	switch method {
	case estimate.MethodKWRate:
		kw := expression.CapacityKW(s)
		qstr, qval = expression.FormatDecimal(kw), kw
		item.Amount = Amount(kw, def.UnitPrice)
	case estimate.MethodSupplied:
		item.UnitPrice = 0
		item.Amount = 0
		item.IsManualInput = false
	case estimate.MethodManual:
		item.Amount = 0
		item.IsManualInput = true
	default:
		item.Amount = Amount(qval, def.UnitPrice)
	}

	item.Quantity = QuantityDisplay(qstr, def.QuantityUnit)
	item.QuantityValue = qval

	def.Method, def.IsManual = method, method == estimate.MethodManual
	r := explanation.Generate(def, qval, item.UnitPrice, item.Amount, s)
	item.Reasoning = &r
	return item
}

// Amount is quantity × unit price truncated to whole yen
func Amount(quantity decimal.Decimal, unitPrice int64) int64 {
	return quantity.Mul(decimal.NewFromInt(unitPrice)).IntPart()
}

// QuantityDisplay joins a quantity and its unit, e.g. "288枚". An empty
// quantity displays as empty whatever the unit.
func QuantityDisplay(quantity, unit string) string {
	if quantity == "" {
		return ""
	}
	return quantity + unit
}

func withSuppliedMarker(remarks string) string {
	if remarks == "" {
		return SuppliedMarker
	}
	return remarks + "\n" + SuppliedMarker
}
