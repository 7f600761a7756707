package explanation

import (
	"fmt"
	"strings"

	"solar-estimate/core/estimate"
)

// conditionPhrases renders the well-known rule conditions for the customer
var conditionPhrases = map[string]string{
	"supplementary.crane_available == true":   "クレーンあり",
	"supplementary.cubicle_location == true":  "キュービクルあり",
	"supplementary.scaffold_needed == true":   "外部足場必要",
	"high_voltage.pre_use_self_check == true": "使用前自己確認あり",
}

// ConditionPhrase returns the natural-language form of a condition, or the
// expression itself when it has none.
func ConditionPhrase(expr string) string {
	if phrase, ok := conditionPhrases[strings.TrimSpace(expr)]; ok {
		return phrase
	}
	return expr
}

// Line renders one entry of the reasoning list:
//
//	[施工費] 太陽光パネル設置工事: 190.08kW × ¥3,300/kW = ¥627,264（現調シート PV容量より）
func Line(label string, item *estimate.LineItem) string {
	if item.Reasoning == nil {
		return fmt.Sprintf("[%s] %s: %s", label, item.Description, Yen(item.Amount))
	}
	line := fmt.Sprintf("[%s] %s: %s", label, item.Description, item.Reasoning.Formula)
	if item.Reasoning.Source != "" {
		line += "（" + item.Reasoning.Source + "）"
	}
	return line
}

// List collects the reasoning of every item with a positive amount, in
// document order.
func List(sections []*estimate.CategorySection) []string {
	lines := make([]string, 0)
	for _, section := range sections {
		for _, item := range section.Items {
			if item.Amount > 0 {
				lines = append(lines, Line(section.Label(), item))
			}
		}
	}
	return lines
}
