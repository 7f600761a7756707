package survey

import (
	stderrors "errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Result collects validation findings. Errors block estimation; warnings and
// feedback are shown to the operator and sent back to the surveyor.
type Result struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Feedback []string `json:"feedback"`
}

// Valid reports whether no blocking error was found
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

func (r *Result) addError(msg, feedback string) {
	r.Errors = append(r.Errors, msg)
	if feedback != "" {
		r.Feedback = append(r.Feedback, feedback)
	}
}

// Capacity tolerance between stated kW and panels × W / 1000.
const capacityToleranceKW = 0.1

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type fieldMessage struct {
	message  string
	feedback string
}

// requiredMessages maps struct-tag failures to operator-facing text.
var requiredMessages = map[string]fieldMessage{
	"project.project_name":      {"案件名が未記入です", "現調シート: 案件名を記入してください"},
	"project.address":           {"所在地が未記入です", "現調シート: 所在地を記入してください"},
	"equipment.module_output_w": {"モジュール定格出力が未記入です", "現調シート: モジュール定格出力(W/枚)を記入してください"},
	"equipment.planned_panels":  {"設置予定枚数が未記入です", "現調シート: 設置予定枚数を記入してください"},
	"equipment.pv_capacity_kw":  {"想定PV容量が未記入です", ""},
}

// Validate checks a survey record for missing required fields, inconsistent
// capacity figures, and implausible values. It never modifies s.
func Validate(s *Survey) *Result {
	result := &Result{Errors: []string{}, Warnings: []string{}, Feedback: []string{}}
	if s == nil {
		result.addError("現調データがありません", "")
		return result
	}

	checkStruct(s, result)
	checkRecommended(s, result)
	checkCapacity(s, result)
	checkConditionalLogic(s, result)
	checkRanges(s, result)
	return result
}

func checkStruct(s *Survey, result *Result) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		result.addError(err.Error(), "")
		return
	}
	for _, fe := range verrs {
		path := fieldPath(fe.Namespace())
		if msg, ok := requiredMessages[path]; ok {
			result.addError(msg.message, msg.feedback)
			continue
		}
		result.addError(fmt.Sprintf("%s の値が不正です (%s)", path, fe.Tag()), "")
	}
}

// fieldPath drops the root type name: "Survey.project.address" -> "project.address".
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func checkRecommended(s *Survey, result *Result) {
	if s.Equipment.ModuleMaker == "" {
		result.Warnings = append(result.Warnings, "モジュールメーカーが未記入です")
	}
	if s.Equipment.ModuleModel == "" {
		result.Warnings = append(result.Warnings, "モジュール型式が未記入です")
	}
	if s.Project.SurveyDate == "" {
		result.Warnings = append(result.Warnings, "調査日が未記入です")
	}
	if s.Project.Surveyor == "" {
		result.Warnings = append(result.Warnings, "調査者が未記入です")
	}
}

func checkCapacity(s *Survey, result *Result) {
	eq := s.Equipment
	if eq.ModuleOutputW <= 0 || eq.PlannedPanels <= 0 || eq.PVCapacityKW <= 0 {
		return
	}
	calculated := float64(eq.PlannedPanels) * eq.ModuleOutputW / 1000
	if math.Abs(calculated-eq.PVCapacityKW) > capacityToleranceKW {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"PV容量の計算が不一致: %d枚 × %sW ÷ 1000 = %.2fkW（記載値: %skW）",
			eq.PlannedPanels, NumberValue(eq.ModuleOutputW), calculated, NumberValue(eq.PVCapacityKW)))
	}
}

func checkConditionalLogic(s *Survey, result *Result) {
	if s.HighVoltage.PCSSpace && s.HighVoltage.PCSLocation == nil {
		result.Warnings = append(result.Warnings, "PCS設置スペース「あり」ですが、設置場所（屋内/屋外）が未指定です")
		result.Feedback = append(result.Feedback, "現調シート: PCS設置場所（屋内/屋外）を選択してください")
	}
}

func checkRanges(s *Survey, result *Result) {
	if w := s.Equipment.ModuleOutputW; w > 0 && (w < 200 || w > 800) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("モジュール定格出力 %sW は通常の範囲外です", NumberValue(w)))
	}
	if n := s.Equipment.PlannedPanels; n > 2000 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("設置予定枚数 %d枚 は非常に多いです。確認してください", n))
	}
	if mm := s.HighVoltage.SeparationNSMM; mm > 0 && mm < 500 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("離隔距離（南北）%smm は短すぎる可能性があります", NumberValue(mm)))
	}
}
