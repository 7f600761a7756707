package engine

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"solar-estimate/core/estimate"
	"solar-estimate/core/rules"
	"solar-estimate/core/survey"
	"solar-estimate/internal/errors"
	"solar-estimate/internal/logging"
)

func fixedClock() time.Time {
	return time.Date(2025, 4, 15, 9, 30, 0, 0, time.UTC)
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	rs, err := rules.LoadDefault()
	require.NoError(t, err)

	e, err := New(rs,
		WithClock(fixedClock),
		WithIDGenerator(func() string { return "22730522-4367674" }),
		WithRepresentative("根本　雄介"),
	)
	require.NoError(t, err)
	return e
}

func sampleSurvey(t *testing.T) *survey.Survey {
	t.Helper()
	s, err := survey.Load("../survey/testdata/sample.json")
	require.NoError(t, err)
	return s
}

func generate(t *testing.T) (*Engine, *estimate.Estimate) {
	t.Helper()
	e := newTestEngine(t)
	est, err := e.Generate(sampleSurvey(t), "株式会社テスト物流")
	require.NoError(t, err)
	return e, est
}

func assertInvariants(t *testing.T, est *estimate.Estimate) {
	t.Helper()
	var subtotal int64
	for _, section := range est.Summary.Categories {
		var sum int64
		for _, item := range section.Items {
			sum += item.Amount
		}
		assert.Equal(t, sum, section.Subtotal, section.Category)
		assert.Equal(t, section.Subtotal, section.Total, section.Category)
		subtotal += section.Total
	}

	s := est.Summary
	assert.Equal(t, subtotal, s.Subtotal)
	assert.Equal(t, s.Subtotal+s.Discount, s.TotalBeforeTax)
	assert.LessOrEqual(t, s.Discount, int64(0))
	assert.Equal(t, decimal.NewFromInt(s.TotalBeforeTax).Mul(s.TaxRate).Floor().IntPart(), s.Tax)
	assert.Equal(t, s.TotalBeforeTax+s.Tax, s.TotalWithTax)

	assert.Equal(t, s.TotalWithTax, est.Cover.TotalWithTax)
	assert.Equal(t, s.TotalBeforeTax, est.Cover.TotalBeforeTax)
	assert.Equal(t, s.Tax, est.Cover.Tax)
}

func TestGenerateSample(t *testing.T) {
	_, est := generate(t)

	require.Len(t, est.Summary.Categories, 6)
	assertInvariants(t, est)

	totals := map[estimate.Category]int64{
		estimate.CategorySupplied:     0,
		estimate.CategoryMaterial:     1067500,
		estimate.CategoryConstruction: 4033024,
		estimate.CategoryOverhead:     670000,
		estimate.CategoryAdditional:   0,
		estimate.CategorySpecialNotes: 0,
	}
	for cat, want := range totals {
		assert.Equal(t, want, est.Section(cat).Total, cat)
	}

	s := est.Summary
	assert.Equal(t, int64(5770524), s.Subtotal)
	assert.Equal(t, int64(-524), s.Discount)
	assert.Equal(t, int64(5770000), s.TotalBeforeTax)
	assert.Equal(t, int64(577000), s.Tax)
	assert.Equal(t, int64(6347000), s.TotalWithTax)
	assert.Equal(t, estimate.DiscountRoundDown10000, s.DiscountMethod)
}

func TestGenerateCover(t *testing.T) {
	_, est := generate(t)

	c := est.Cover
	assert.Equal(t, "22730522-4367674", c.EstimateID)
	assert.Equal(t, "2025/04/15", c.IssueDate)
	assert.Equal(t, "株式会社テスト物流", c.ClientName)
	assert.Equal(t, "横須賀物流センター　太陽光設置工事 見積（190.08kW）", c.ProjectName)
	assert.Equal(t, "神奈川県横須賀市夏島町1-1", c.ProjectLocation)
	assert.Equal(t, "～", c.ProjectPeriod)
	assert.Equal(t, "根本　雄介", c.Representative)
	assert.Equal(t, int64(6347000), c.TotalWithTax)
}

func TestGenerateReasoningList(t *testing.T) {
	_, est := generate(t)

	assert.Contains(t, est.ReasoningList,
		"[施工費] 太陽光パネル設置工事: 190.08kW × ¥3,300/kW = ¥627,264（現調シート PV容量より）")
	assert.Contains(t, est.ReasoningList,
		"[材料費] 交流幹線ケーブル: 45m × ¥4,500/m = ¥202,500（配線距離より算出）")
	assert.Contains(t, est.ReasoningList,
		"[施工費] クレーン揚重費: ¥250,000（条件: クレーンあり）（条件付き計上）")

	for _, line := range est.ReasoningList {
		assert.NotContains(t, line, "外部足場", "zero-amount items are not listed")
		assert.NotContains(t, line, "[支給品]")
	}
	assert.Equal(t, "[材料費] 直流ケーブル・コネクタ類: ¥450,000（固定額）（定額単価）", est.ReasoningList[0])
}

func TestGenerateRandomID(t *testing.T) {
	rs, err := rules.LoadDefault()
	require.NoError(t, err)
	e, err := New(rs)
	require.NoError(t, err)

	est, err := e.Generate(sampleSurvey(t), "")
	require.NoError(t, err)
	assert.Regexp(t, `^\d{8}-\d{7}$`, est.Cover.EstimateID)
	assert.Regexp(t, `^\d{4}/\d{2}/\d{2}$`, est.Cover.IssueDate)
}

func TestGenerateRequiresSurvey(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Generate(nil, "")
	assert.True(t, errors.IsType(err, errors.TypeInput))

	_, err = New(nil)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestGenerateNoDiscountRules(t *testing.T) {
	rs, err := rules.Parse("rules.hcl", []byte(`
discount_method = "none"

category "construction" {
  item {
    no          = 1
    description = "太陽光パネル設置工事"
    method      = "kw_rate"
    unit_price  = 3300
  }
}
`))
	require.NoError(t, err)
	e, err := New(rs, WithClock(fixedClock))
	require.NoError(t, err)

	est, err := e.Generate(sampleSurvey(t), "")
	require.NoError(t, err)
	assert.Equal(t, int64(627264), est.Summary.Subtotal)
	assert.Equal(t, int64(0), est.Summary.Discount)
	assert.Equal(t, int64(62726), est.Summary.Tax)
	assertInvariants(t, est)
}

func TestGenerateScaffoldAndIndoorPCS(t *testing.T) {
	e := newTestEngine(t)
	s := sampleSurvey(t)
	s.Supplementary.ScaffoldNeeded = true
	indoor := survey.LocationIndoor
	s.HighVoltage.PCSLocation = &indoor

	est, err := e.Generate(s, "")
	require.NoError(t, err)

	construction := est.Section(estimate.CategoryConstruction)
	assert.Equal(t, int64(4033024+300000-220000), construction.Total)
	assertInvariants(t, est)
}

func TestRecalculateIsIdempotent(t *testing.T) {
	e, est := generate(t)
	before := est.Summary

	require.NoError(t, e.Recalculate(est))
	first := est.Summary
	require.NoError(t, e.Recalculate(est))

	assert.Equal(t, before.Subtotal, est.Summary.Subtotal)
	assert.Equal(t, first.Discount, est.Summary.Discount)
	assert.Equal(t, first.TotalBeforeTax, est.Summary.TotalBeforeTax)
	assert.Equal(t, first.Tax, est.Summary.Tax)
	assert.Equal(t, first.TotalWithTax, est.Summary.TotalWithTax)
	assertInvariants(t, est)
}

func TestRecalculateRejectsBrokenEstimate(t *testing.T) {
	e := newTestEngine(t)
	assert.True(t, errors.IsType(e.Recalculate(nil), errors.TypeInput))

	est := &estimate.Estimate{Summary: estimate.Summary{Categories: []*estimate.CategorySection{nil}}}
	assert.True(t, errors.IsType(e.Recalculate(est), errors.TypeInput))
}

func TestNewLogsRuleWarnings(t *testing.T) {
	rs, err := rules.Parse("rules.hcl", []byte(`
category "construction" {
  item {
    no          = 1
    description = "クレーン揚重費"
    method      = "conditional"
    unit_price  = 250000
    condition   = "supplementary.crane_available"
  }
}`))
	require.NoError(t, err)
	require.Len(t, rs.Warnings, 1)

	var buf bytes.Buffer
	_, err = New(rs, WithLogger(logging.NewWriter(&buf, zapcore.WarnLevel)))
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `"msg":"rule warning"`)
	assert.Contains(t, buf.String(), "always included")
}

func TestRecalculateFillsMissingPricingFields(t *testing.T) {
	tests := []struct {
		name  string
		clear func(*estimate.Summary)
	}{
		{"tax rate", func(s *estimate.Summary) { s.TaxRate = decimal.Zero }},
		{"discount method", func(s *estimate.Summary) { s.DiscountMethod = "" }},
		{"both", func(s *estimate.Summary) {
			s.TaxRate = decimal.Zero
			s.DiscountMethod = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, est := generate(t)
			tt.clear(&est.Summary)

			require.NoError(t, e.Recalculate(est))
			assert.Equal(t, estimate.DiscountRoundDown10000, est.Summary.DiscountMethod)
			assert.True(t, est.Summary.TaxRate.Equal(e.Rules().TaxRate))
			assert.Equal(t, int64(-524), est.Summary.Discount)
			assert.Equal(t, int64(577000), est.Summary.Tax)
			assert.Equal(t, int64(6347000), est.Cover.TotalWithTax)
			assertInvariants(t, est)
		})
	}
}

func TestRecalculateKeepsEstimatePricingFields(t *testing.T) {
	e, est := generate(t)
	est.Summary.DiscountMethod = estimate.DiscountNone
	est.Summary.TaxRate = decimal.RequireFromString("0.08")

	require.NoError(t, e.Recalculate(est))
	assert.Equal(t, int64(0), est.Summary.Discount)
	assert.Equal(t, int64(461641), est.Summary.Tax)
	assertInvariants(t, est)
}

func TestAdjustTotalBeforeTax(t *testing.T) {
	e, est := generate(t)

	require.NoError(t, e.AdjustTotalBeforeTax(est, 5700000))
	s := est.Summary
	assert.True(t, s.DiscountAdjusted)
	assert.Equal(t, estimate.DiscountRoundDown10000, s.DiscountMethod)
	assert.Equal(t, int64(5770524), s.Subtotal)
	assert.Equal(t, int64(-70524), s.Discount)
	assert.Equal(t, int64(5700000), s.TotalBeforeTax)
	assert.Equal(t, int64(570000), s.Tax)
	assert.Equal(t, int64(6270000), s.TotalWithTax)
	assertInvariants(t, est)

	require.NoError(t, e.Recalculate(est))
	assert.Equal(t, s.TotalWithTax, est.Summary.TotalWithTax)
	assert.True(t, est.Summary.DiscountAdjusted)

	require.NoError(t, e.AdjustTotalBeforeTax(est, 5770524))
	assert.Equal(t, int64(0), est.Summary.Discount)
	assert.Equal(t, int64(5770524+577052), est.Summary.TotalWithTax)
	assertInvariants(t, est)
}

func TestAdjustTotalBeforeTaxRejects(t *testing.T) {
	tests := []struct {
		name   string
		amount int64
	}{
		{"negative", -1},
		{"above subtotal", 5770525},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, est := generate(t)
			err := e.AdjustTotalBeforeTax(est, tt.amount)
			assert.True(t, errors.IsType(err, errors.TypeInput), "got %v", err)
			assert.False(t, est.Summary.DiscountAdjusted)
			assert.Equal(t, int64(6347000), est.Summary.TotalWithTax)
		})
	}

	e := newTestEngine(t)
	assert.True(t, errors.IsType(e.AdjustTotalBeforeTax(nil, 0), errors.TypeInput))
}
