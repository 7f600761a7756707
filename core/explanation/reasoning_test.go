package explanation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"solar-estimate/core/estimate"
	"solar-estimate/core/rules"
	"solar-estimate/core/survey"
)

func capacitySurvey(kw float64) *survey.Survey {
	return &survey.Survey{Equipment: survey.PlannedEquipment{PVCapacityKW: kw}}
}

func TestYen(t *testing.T) {
	assert.Equal(t, "¥0", Yen(0))
	assert.Equal(t, "¥3,300", Yen(3300))
	assert.Equal(t, "¥10,153,000", Yen(10153000))
	assert.Equal(t, "-¥388", Yen(-388))
}

func TestGenerate(t *testing.T) {
	s := capacitySurvey(190.08)

	tests := []struct {
		name       string
		def        rules.ItemDef
		quantity   string
		unitPrice  int64
		amount     int64
		wantMethod estimate.Method
		formula    string
		source     string
		note       string
	}{
		{
			name:       "kw rate",
			def:        rules.ItemDef{Method: estimate.MethodKWRate},
			quantity:   "190.08",
			unitPrice:  3300,
			amount:     627264,
			wantMethod: estimate.MethodKWRate,
			formula:    "190.08kW × ¥3,300/kW = ¥627,264",
			source:     SourceCapacity,
		},
		{
			name:       "distance with unit",
			def:        rules.ItemDef{Method: estimate.MethodDistance, QuantityUnit: "m"},
			quantity:   "45",
			unitPrice:  4500,
			amount:     202500,
			wantMethod: estimate.MethodDistance,
			formula:    "45m × ¥4,500/m = ¥202,500",
			source:     SourceDistance,
		},
		{
			name:       "distance defaults to metres",
			def:        rules.ItemDef{Method: estimate.MethodDistance},
			quantity:   "12.5",
			unitPrice:  1000,
			amount:     12500,
			wantMethod: estimate.MethodDistance,
			formula:    "12.5m × ¥1,000/m = ¥12,500",
			source:     SourceDistance,
		},
		{
			name:       "fixed flat",
			def:        rules.ItemDef{Method: estimate.MethodFixed},
			quantity:   "1",
			unitPrice:  50000,
			amount:     50000,
			wantMethod: estimate.MethodFixed,
			formula:    "¥50,000（固定額）",
			source:     SourceFixed,
		},
		{
			name:       "fixed multiplied",
			def:        rules.ItemDef{Method: estimate.MethodFixed},
			quantity:   "2",
			unitPrice:  85000,
			amount:     170000,
			wantMethod: estimate.MethodFixed,
			formula:    "¥85,000 × 2 = ¥170,000",
			source:     SourceFixed,
		},
		{
			name:       "fixed zero quantity is flat",
			def:        rules.ItemDef{Method: estimate.MethodFixed},
			quantity:   "0",
			unitPrice:  50000,
			amount:     0,
			wantMethod: estimate.MethodFixed,
			formula:    "¥50,000（固定額）",
			source:     SourceFixed,
		},
		{
			name:       "conditional known phrase",
			def:        rules.ItemDef{Method: estimate.MethodConditional, Condition: "supplementary.crane_available == true"},
			quantity:   "1",
			unitPrice:  250000,
			amount:     250000,
			wantMethod: estimate.MethodConditional,
			formula:    "¥250,000（条件: クレーンあり）",
			source:     SourceConditional,
		},
		{
			name:       "conditional echoes unknown expression",
			def:        rules.ItemDef{Method: estimate.MethodConditional, Condition: "high_voltage.pcs_location == 屋外"},
			quantity:   "1",
			unitPrice:  220000,
			amount:     220000,
			wantMethod: estimate.MethodConditional,
			formula:    "¥220,000（条件: high_voltage.pcs_location == 屋外）",
			source:     SourceConditional,
		},
		{
			name:       "manual default note",
			def:        rules.ItemDef{Method: estimate.MethodManual},
			quantity:   "1",
			wantMethod: estimate.MethodManual,
			formula:    FormulaManual,
			note:       NoteManual,
		},
		{
			name:       "is_manual overrides declared method and keeps rule note",
			def:        rules.ItemDef{Method: estimate.MethodFixed, IsManual: true, Note: "別途見積"},
			quantity:   "1",
			unitPrice:  10000,
			wantMethod: estimate.MethodManual,
			formula:    FormulaManual,
			note:       "別途見積",
		},
		{
			name:       "supplied",
			def:        rules.ItemDef{Method: estimate.MethodSupplied, Note: "客先手配"},
			quantity:   "288",
			wantMethod: estimate.MethodSupplied,
			formula:    FormulaSupplied,
			source:     SourceSupplied,
			note:       "客先手配",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Generate(tt.def, decimal.RequireFromString(tt.quantity), tt.unitPrice, tt.amount, s)
			assert.Equal(t, tt.wantMethod, r.Method)
			assert.Equal(t, tt.formula, r.Formula)
			assert.Equal(t, tt.source, r.Source)
			assert.Equal(t, tt.note, r.Note)
		})
	}
}

func TestNotFulfilled(t *testing.T) {
	r := NotFulfilled("supplementary.scaffold_needed == true", "")
	assert.Equal(t, estimate.MethodConditional, r.Method)
	assert.Equal(t, "条件不成立のため ¥0", r.Formula)
	assert.Equal(t, "条件: supplementary.scaffold_needed == true", r.Source)
}

func TestConditionPhrase(t *testing.T) {
	assert.Equal(t, "キュービクルあり", ConditionPhrase("supplementary.cubicle_location == true"))
	assert.Equal(t, "外部足場必要", ConditionPhrase(" supplementary.scaffold_needed == true "))
	assert.Equal(t, "使用前自己確認あり", ConditionPhrase("high_voltage.pre_use_self_check == true"))
	assert.Equal(t, "x == y", ConditionPhrase("x == y"))
}

func TestList(t *testing.T) {
	construction := estimate.NewSection(estimate.CategoryConstruction)
	construction.Items = []*estimate.LineItem{
		{Description: "太陽光パネル設置工事", Amount: 627264, Reasoning: &estimate.Reasoning{
			Formula: "190.08kW × ¥3,300/kW = ¥627,264", Source: SourceCapacity}},
		{Description: "外部足場", Amount: 0, Reasoning: &estimate.Reasoning{Formula: FormulaNotFulfilled}},
	}
	overhead := estimate.NewSection(estimate.CategoryOverhead)
	overhead.Items = []*estimate.LineItem{
		{Description: "電力会社申請費", Amount: 200000, Reasoning: &estimate.Reasoning{Formula: FormulaManual}},
	}

	lines := List([]*estimate.CategorySection{construction, overhead})
	assert.Equal(t, []string{
		"[施工費] 太陽光パネル設置工事: 190.08kW × ¥3,300/kW = ¥627,264（現調シート PV容量より）",
		"[その他・諸経費等] 電力会社申請費: 手動入力が必要です",
	}, lines)

	assert.Empty(t, List(nil))
}
