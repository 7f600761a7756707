package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-estimate/core/estimate"
	"solar-estimate/internal/errors"
)

func int64p(v int64) *int64 { return &v }

func decp(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// indexOf returns the category and item index of the item with description
func indexOf(t *testing.T, est *estimate.Estimate, description string) (int, int) {
	t.Helper()
	for ci, section := range est.Summary.Categories {
		for ii, item := range section.Items {
			if item.Description == description {
				return ci, ii
			}
		}
	}
	t.Fatalf("no item %q", description)
	return 0, 0
}

func amounts(est *estimate.Estimate) map[string]int64 {
	out := make(map[string]int64)
	for _, section := range est.Summary.Categories {
		for _, item := range section.Items {
			out[item.Description] = item.Amount
		}
	}
	return out
}

func TestManualOverridePropagates(t *testing.T) {
	e, est := generate(t)
	ci, ii := indexOf(t, est, "電力会社申請費")
	item := est.Summary.Categories[ci].Items[ii]
	require.True(t, item.IsManualInput)
	require.Equal(t, int64(0), item.Amount)
	require.True(t, item.QuantityValue.Equal(decimal.NewFromInt(1)))

	before := amounts(est)
	overheadBefore := est.Summary.Categories[ci].Total

	require.NoError(t, e.UpdateLineItem(est, Edit{Category: ci, Item: ii, UnitPrice: int64p(200000)}))

	assert.Equal(t, int64(200000), item.Amount)
	assert.Equal(t, overheadBefore+200000, est.Summary.Categories[ci].Total)

	assert.Equal(t, int64(5970524), est.Summary.Subtotal)
	assert.Equal(t, int64(-524), est.Summary.Discount)
	assert.Equal(t, int64(5970000), est.Summary.TotalBeforeTax)
	assert.Equal(t, int64(597000), est.Summary.Tax)
	assert.Equal(t, int64(6567000), est.Summary.TotalWithTax)
	assert.Equal(t, int64(6567000), est.Cover.TotalWithTax)
	assertInvariants(t, est)

	after := amounts(est)
	for desc, amount := range before {
		if desc == "電力会社申請費" {
			continue
		}
		assert.Equal(t, amount, after[desc], "%s must be untouched", desc)
	}

	assert.Contains(t, est.ReasoningList, "[その他・諸経費等] 電力会社申請費: 手動入力が必要です")
}

func TestUpdateLineItem(t *testing.T) {
	tests := []struct {
		name         string
		description  string
		edit         func(ci, ii int) Edit
		wantAmount   int64
		wantQuantity string
	}{
		{
			name:        "explicit amount wins",
			description: "接続箱・集電箱",
			edit: func(ci, ii int) Edit {
				return Edit{Category: ci, Item: ii, Quantity: decp("5"), UnitPrice: int64p(1000), Amount: int64p(123456)}
			},
			wantAmount:   123456,
			wantQuantity: "5台",
		},
		{
			name:        "quantity change recomputes",
			description: "接続箱・集電箱",
			edit: func(ci, ii int) Edit {
				return Edit{Category: ci, Item: ii, Quantity: decp("3")}
			},
			wantAmount:   255000,
			wantQuantity: "3台",
		},
		{
			name:        "fractional quantity truncates",
			description: "交流幹線ケーブル",
			edit: func(ci, ii int) Edit {
				return Edit{Category: ci, Item: ii, Quantity: decp("52.35")}
			},
			wantAmount:   235575,
			wantQuantity: "52.35m",
		},
		{
			name:        "amount alone keeps quantity",
			description: "現場管理費",
			edit: func(ci, ii int) Edit {
				return Edit{Category: ci, Item: ii, Amount: int64p(380000)}
			},
			wantAmount:   380000,
			wantQuantity: "1式",
		},
		{
			name:        "empty edit changes nothing",
			description: "安全対策費",
			edit: func(ci, ii int) Edit {
				return Edit{Category: ci, Item: ii}
			},
			wantAmount:   150000,
			wantQuantity: "1式",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, est := generate(t)
			ci, ii := indexOf(t, est, tt.description)

			require.NoError(t, e.UpdateLineItem(est, tt.edit(ci, ii)))

			item := est.Summary.Categories[ci].Items[ii]
			assert.Equal(t, tt.wantAmount, item.Amount)
			assert.Equal(t, tt.wantQuantity, item.Quantity)
			assertInvariants(t, est)
		})
	}
}

func TestUpdateLineItemRejectsBadEdits(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
	}{
		{"negative category", Edit{Category: -1}},
		{"category past end", Edit{Category: 6}},
		{"item past end", Edit{Category: 1, Item: 99}},
		{"special notes has no items", Edit{Category: 5, Item: 0}},
		{"negative amount", Edit{Category: 1, Item: 0, Amount: int64p(-1)}},
		{"negative unit price", Edit{Category: 1, Item: 0, UnitPrice: int64p(-1)}},
		{"negative quantity", Edit{Category: 1, Item: 0, Quantity: decp("-2")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, est := generate(t)
			before := amounts(est)
			summary := est.Summary.TotalWithTax

			err := e.UpdateLineItem(est, tt.edit)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeInput))
			assert.Equal(t, before, amounts(est))
			assert.Equal(t, summary, est.Summary.TotalWithTax)
		})
	}

	e := newTestEngine(t)
	assert.True(t, errors.IsType(e.UpdateLineItem(nil, Edit{}), errors.TypeInput))
}

func TestApplyEdits(t *testing.T) {
	e, est := generate(t)
	ci, ii := indexOf(t, est, "電力会社申請費")
	ai, aj := indexOf(t, est, "既設設備撤去工事")

	err := e.ApplyEdits(est, []Edit{
		{Category: ci, Item: ii, UnitPrice: int64p(200000)},
		{Category: ai, Item: aj, Amount: int64p(150000)},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5770524+350000), est.Summary.Subtotal)
	assertInvariants(t, est)

	err = e.ApplyEdits(est, []Edit{{Category: 9}})
	assert.True(t, errors.IsType(err, errors.TypeInput))

	require.NoError(t, e.ApplyEdits(est, nil))
	assertInvariants(t, est)
}

func TestApplyEditsIsAtomic(t *testing.T) {
	e, est := generate(t)
	ci, ii := indexOf(t, est, "電力会社申請費")

	err := e.ApplyEdits(est, []Edit{
		{Category: ci, Item: ii, UnitPrice: int64p(200000)},
		{Category: 9},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeInput))
	assert.Contains(t, err.Error(), "edit 1")

	item := est.Summary.Categories[ci].Items[ii]
	assert.Equal(t, int64(0), item.Amount)
	assert.Equal(t, int64(0), item.UnitPrice)
	assert.Equal(t, int64(5770524), est.Summary.Subtotal)
	assert.Equal(t, int64(6347000), est.Summary.TotalWithTax)
}

func TestLineItemEditDropsAdjustedTotal(t *testing.T) {
	e, est := generate(t)
	require.NoError(t, e.AdjustTotalBeforeTax(est, 5700000))
	ci, ii := indexOf(t, est, "電力会社申請費")

	require.NoError(t, e.UpdateLineItem(est, Edit{Category: ci, Item: ii, Amount: int64p(200000)}))
	assert.False(t, est.Summary.DiscountAdjusted)
	assert.Equal(t, int64(5970524), est.Summary.Subtotal)
	assert.Equal(t, int64(-524), est.Summary.Discount)
	assert.Equal(t, int64(6567000), est.Summary.TotalWithTax)
	assertInvariants(t, est)
}
