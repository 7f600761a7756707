package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-estimate/core/estimate"
	"solar-estimate/internal/errors"
)

func TestRoundDownDiscount(t *testing.T) {
	policy := RoundDown{Unit: 10000}

	tests := []struct {
		subtotal int64
		want     int64
	}{
		{9230388, -388},
		{9230000, 0},
		{9239999, -9999},
		{9999, -9999},
		{0, 0},
	}
	for _, tt := range tests {
		got := policy.Discount(tt.subtotal)
		assert.Equal(t, tt.want, got, "subtotal %d", tt.subtotal)
		assert.LessOrEqual(t, got, int64(0))
	}

	assert.Equal(t, int64(0), RoundDown{}.Discount(12345))
	assert.Equal(t, estimate.DiscountRoundDown10000, policy.Method())
}

func TestNoDiscount(t *testing.T) {
	assert.Equal(t, int64(0), NoDiscount{}.Discount(9230388))
	assert.Equal(t, estimate.DiscountNone, NoDiscount{}.Method())
}

func TestAdjustedDiscount(t *testing.T) {
	tests := []struct {
		name     string
		target   int64
		subtotal int64
		want     int64
	}{
		{"below subtotal", 5700000, 5770524, -70524},
		{"equal to subtotal", 5770524, 5770524, 0},
		{"above subtotal", 6000000, 5770524, 0},
		{"zero", 0, 5770524, -5770524},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Adjusted{Base: estimate.DiscountRoundDown10000, TotalBeforeTax: tt.target}
			assert.Equal(t, tt.want, p.Discount(tt.subtotal))
			assert.Equal(t, estimate.DiscountRoundDown10000, p.Method())
		})
	}

	s := Summarize(nil, Adjusted{TotalBeforeTax: 0}, decimal.NewFromFloat(0.10))
	assert.Equal(t, int64(0), s.TotalWithTax)
}

func TestPolicyFor(t *testing.T) {
	p, err := PolicyFor(estimate.DiscountRoundDown10000)
	require.NoError(t, err)
	assert.Equal(t, RoundDown{Unit: 10000}, p)

	p, err = PolicyFor(estimate.DiscountNone)
	require.NoError(t, err)
	assert.Equal(t, NoDiscount{}, p)

	_, err = PolicyFor("round_half_up")
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestTaxFloors(t *testing.T) {
	rate := decimal.NewFromFloat(0.10)
	assert.Equal(t, int64(923000), Tax(9230000, rate))
	assert.Equal(t, int64(12), Tax(129, rate))
	assert.Equal(t, int64(0), Tax(9, rate))
	assert.Equal(t, int64(7), Tax(99, decimal.NewFromFloat(0.08)))
}

func TestSummarize(t *testing.T) {
	material := estimate.NewSection(estimate.CategoryMaterial)
	material.Items = []*estimate.LineItem{{Amount: 4000000}}
	material.CalculateTotals()
	construction := estimate.NewSection(estimate.CategoryConstruction)
	construction.Items = []*estimate.LineItem{{Amount: 5230388}}
	construction.CalculateTotals()
	notes := estimate.NewSection(estimate.CategorySpecialNotes)

	sections := []*estimate.CategorySection{material, construction, notes}
	summary := Summarize(sections, RoundDown{Unit: 10000}, decimal.NewFromFloat(0.10))

	assert.Equal(t, int64(9230388), summary.Subtotal)
	assert.Equal(t, int64(-388), summary.Discount)
	assert.Equal(t, int64(9230000), summary.TotalBeforeTax)
	assert.Equal(t, int64(923000), summary.Tax)
	assert.Equal(t, int64(10153000), summary.TotalWithTax)
	assert.Equal(t, summary.Subtotal+summary.Discount, summary.TotalBeforeTax)
	assert.Equal(t, estimate.DiscountRoundDown10000, summary.DiscountMethod)
	assert.Len(t, summary.Categories, 3)

	again := Summarize(sections, RoundDown{Unit: 10000}, decimal.NewFromFloat(0.10))
	assert.Equal(t, summary, again)

	plain := Summarize(sections, NoDiscount{}, decimal.NewFromFloat(0.10))
	assert.Equal(t, int64(0), plain.Discount)
	assert.Equal(t, int64(9230388), plain.TotalBeforeTax)
	assert.Equal(t, int64(923038), plain.Tax)
}
