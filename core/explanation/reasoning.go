// Package explanation produces the reasoning attached to every line item:
// the formula that led to the amount, where its inputs came from, and any
// note carried over from the rule.
// Exposes WHY an amount exists, not just the number.
package explanation

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"solar-estimate/core/estimate"
	"solar-estimate/core/expression"
	"solar-estimate/core/rules"
	"solar-estimate/core/survey"
)

// Sources cited in reasoning
const (
	SourceCapacity    = "現調シート PV容量より"
	SourceDistance    = "配線距離より算出"
	SourceFixed       = "定額単価"
	SourceConditional = "条件付き計上"
	SourceSupplied    = "支給品リスト"
)

// Fixed formulas and notes
const (
	FormulaManual       = "手動入力が必要です"
	FormulaSupplied     = "御支給品のため ¥0"
	FormulaNotFulfilled = "条件不成立のため ¥0"
	NoteManual          = "金額を手動で入力してください"
)

// Yen formats n with a yen sign and thousands separators: ¥627,264, -¥388.
func Yen(n int64) string {
	if n < 0 {
		return "-¥" + humanize.Comma(-n)
	}
	return "¥" + humanize.Comma(n)
}

// Generate explains an amount that has already been computed for def.
// quantity is the resolved quantity value; for kw_rate the capacity is read
// from s instead.
func Generate(def rules.ItemDef, quantity decimal.Decimal, unitPrice, amount int64, s *survey.Survey) estimate.Reasoning {
	method := def.EffectiveMethod()
	r := estimate.Reasoning{Method: method, Note: def.Note}

	switch method {
	case estimate.MethodKWRate:
		kw := expression.FormatDecimal(expression.CapacityKW(s))
		r.Formula = fmt.Sprintf("%skW × %s/kW = %s", kw, Yen(unitPrice), Yen(amount))
		r.Source = SourceCapacity

	case estimate.MethodDistance:
		unit := def.QuantityUnit
		if unit == "" {
			unit = "m"
		}
		r.Formula = fmt.Sprintf("%s%s × %s/%s = %s",
			expression.FormatDecimal(quantity), unit, Yen(unitPrice), unit, Yen(amount))
		r.Source = SourceDistance

	case estimate.MethodFixed:
		if quantity.GreaterThan(decimal.NewFromInt(1)) {
			r.Formula = fmt.Sprintf("%s × %d = %s", Yen(unitPrice), quantity.IntPart(), Yen(amount))
		} else {
			r.Formula = fmt.Sprintf("%s（固定額）", Yen(unitPrice))
		}
		r.Source = SourceFixed

	case estimate.MethodConditional:
		r.Formula = fmt.Sprintf("%s（条件: %s）", Yen(unitPrice), ConditionPhrase(def.Condition))
		r.Source = SourceConditional

	case estimate.MethodManual:
		r.Formula = FormulaManual
		if r.Note == "" {
			r.Note = NoteManual
		}

	case estimate.MethodSupplied:
		r.Formula = FormulaSupplied
		r.Source = SourceSupplied

	default:
		r.Formula = Yen(amount)
	}

	return r
}

// NotFulfilled explains an item whose condition evaluated false
func NotFulfilled(condition, note string) estimate.Reasoning {
	return estimate.Reasoning{
		Method:  estimate.MethodConditional,
		Formula: FormulaNotFulfilled,
		Source:  "条件: " + condition,
		Note:    note,
	}
}
