package pricing

import (
	"github.com/shopspring/decimal"

	"solar-estimate/core/estimate"
	"solar-estimate/internal/errors"
)

// DiscountPolicy adjusts the subtotal before tax
type DiscountPolicy interface {
	// Method names the policy
	Method() estimate.DiscountMethod

	// Discount returns the adjustment to add to subtotal. It is never positive.
	Discount(subtotal int64) int64
}

// RoundDown rounds the subtotal down to a multiple of Unit
type RoundDown struct {
	Unit int64
}

// Method implements DiscountPolicy
func (p RoundDown) Method() estimate.DiscountMethod {
	return estimate.DiscountRoundDown10000
}

// Discount implements DiscountPolicy. A subtotal that is already a multiple
// of Unit gets no discount.
func (p RoundDown) Discount(subtotal int64) int64 {
	if p.Unit <= 0 {
		return 0
	}
	return floorDiv(subtotal, p.Unit)*p.Unit - subtotal
}

// NoDiscount leaves the subtotal unchanged
type NoDiscount struct{}

// Method implements DiscountPolicy
func (NoDiscount) Method() estimate.DiscountMethod { return estimate.DiscountNone }

// Discount implements DiscountPolicy
func (NoDiscount) Discount(int64) int64 { return 0 }

// Adjusted fixes the total before tax at an agreed figure. The discount is
// whatever brings the subtotal down to it. A target above the subtotal gives
// no discount.
type Adjusted struct {
	Base           estimate.DiscountMethod
	TotalBeforeTax int64
}

// Method implements DiscountPolicy. It reports the policy the figure replaced.
func (p Adjusted) Method() estimate.DiscountMethod { return p.Base }

// Discount implements DiscountPolicy
func (p Adjusted) Discount(subtotal int64) int64 {
	if p.TotalBeforeTax >= subtotal {
		return 0
	}
	return p.TotalBeforeTax - subtotal
}

// PolicyFor returns the policy named by m
func PolicyFor(m estimate.DiscountMethod) (DiscountPolicy, error) {
	switch m {
	case estimate.DiscountRoundDown10000, "":
		return RoundDown{Unit: 10000}, nil
	case estimate.DiscountNone:
		return NoDiscount{}, nil
	default:
		return nil, errors.Configf("unknown discount method %q", string(m))
	}
}

// Tax is floor(beforeTax × rate)
func Tax(beforeTax int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(beforeTax).Mul(rate).Floor().IntPart()
}

// Summarize sums the sections and applies the discount policy and tax rate
// from scratch. Section totals must already be current.
func Summarize(sections []*estimate.CategorySection, policy DiscountPolicy, rate decimal.Decimal) estimate.Summary {
	var subtotal int64
	for _, s := range sections {
		subtotal += s.Total
	}

	discount := policy.Discount(subtotal)
	beforeTax := subtotal + discount
	tax := Tax(beforeTax, rate)

	return estimate.Summary{
		Categories:     sections,
		Subtotal:       subtotal,
		Discount:       discount,
		TotalBeforeTax: beforeTax,
		Tax:            tax,
		TotalWithTax:   beforeTax + tax,
		TaxRate:        rate,
		DiscountMethod: policy.Method(),
	}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
