package survey

import (
	"sort"
	"strconv"
	"strings"
)

// Kind is the scalar type behind a survey field
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
)

// Value is a resolved survey field
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// StringValue wraps a text field
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps a numeric field
func NumberValue(f float64) Value { return Value{kind: KindNumber, num: f} }

// BoolValue wraps a checkbox field
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the scalar type
func (v Value) Kind() Kind { return v.kind }

// String returns the display form: text as-is, numbers without trailing zeros,
// booleans as true/false.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// Float returns the numeric content. Booleans count as 1/0; text is parsed
// and reports false when it is not a number.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
}

// Truthy reports the checkbox reading of the value: non-zero numbers and
// non-empty text are true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNumber:
		return v.num != 0
	case KindBool:
		return v.b
	default:
		return v.str != ""
	}
}

type accessor func(s *Survey) (Value, bool)

func str(get func(s *Survey) string) accessor {
	return func(s *Survey) (Value, bool) { return StringValue(get(s)), true }
}

func num(get func(s *Survey) float64) accessor {
	return func(s *Survey) (Value, bool) { return NumberValue(get(s)), true }
}

func flag(get func(s *Survey) bool) accessor {
	return func(s *Survey) (Value, bool) { return BoolValue(get(s)), true }
}

// fields is the closed set of dotted paths rules may reference.
var fields = map[string]accessor{
	"project.project_name": str(func(s *Survey) string { return s.Project.ProjectName }),
	"project.address":      str(func(s *Survey) string { return s.Project.Address }),
	"project.postal_code":  str(func(s *Survey) string { return s.Project.PostalCode }),
	"project.survey_date":  str(func(s *Survey) string { return s.Project.SurveyDate }),
	"project.weather":      str(func(s *Survey) string { return s.Project.Weather }),
	"project.surveyor":     str(func(s *Survey) string { return s.Project.Surveyor }),

	"equipment.module_maker":    str(func(s *Survey) string { return s.Equipment.ModuleMaker }),
	"equipment.module_model":    str(func(s *Survey) string { return s.Equipment.ModuleModel }),
	"equipment.module_output_w": num(func(s *Survey) float64 { return s.Equipment.ModuleOutputW }),
	"equipment.planned_panels":  num(func(s *Survey) float64 { return float64(s.Equipment.PlannedPanels) }),
	"equipment.pv_capacity_kw":  num(func(s *Survey) float64 { return s.Equipment.PVCapacityKW }),
	"equipment.design_status":   str(func(s *Survey) string { return string(s.Equipment.DesignStatus) }),

	"high_voltage.building_drawing":         flag(func(s *Survey) bool { return s.HighVoltage.BuildingDrawing }),
	"high_voltage.single_line_diagram":      flag(func(s *Survey) bool { return s.HighVoltage.SingleLineDiagram }),
	"high_voltage.single_line_diagram_note": str(func(s *Survey) string { return s.HighVoltage.SingleLineDiagramNote }),
	"high_voltage.ground_type":              str(func(s *Survey) string { return string(s.HighVoltage.GroundType) }),
	"high_voltage.c_installation":           str(func(s *Survey) string { return string(s.HighVoltage.CInstallation) }),
	"high_voltage.c_installation_note":      str(func(s *Survey) string { return s.HighVoltage.CInstallationNote }),
	"high_voltage.vt_available":             flag(func(s *Survey) bool { return s.HighVoltage.VTAvailable }),
	"high_voltage.ct_available":             flag(func(s *Survey) bool { return s.HighVoltage.CTAvailable }),
	"high_voltage.relay_space":              flag(func(s *Survey) bool { return s.HighVoltage.RelaySpace }),
	"high_voltage.pcs_space":                flag(func(s *Survey) bool { return s.HighVoltage.PCSSpace }),
	"high_voltage.pcs_location": func(s *Survey) (Value, bool) {
		if s.HighVoltage.PCSLocation == nil {
			return Value{}, false
		}
		return StringValue(string(*s.HighVoltage.PCSLocation)), true
	},
	"high_voltage.bt_space": func(s *Survey) (Value, bool) {
		if s.HighVoltage.BTSpace == nil {
			return Value{}, false
		}
		return StringValue(string(*s.HighVoltage.BTSpace)), true
	},
	"high_voltage.bt_backup_capacity": str(func(s *Survey) string { return s.HighVoltage.BTBackupCapacity }),
	"high_voltage.tr_capacity":        str(func(s *Survey) string { return s.HighVoltage.TRCapacity }),
	"high_voltage.pre_use_self_check": flag(func(s *Survey) bool { return s.HighVoltage.PreUseSelfCheck }),
	"high_voltage.separation_ns_mm":   num(func(s *Survey) float64 { return s.HighVoltage.SeparationNSMM }),
	"high_voltage.separation_ew_mm":   num(func(s *Survey) float64 { return s.HighVoltage.SeparationEWMM }),

	"supplementary.crane_available":   flag(func(s *Survey) bool { return s.Supplementary.CraneAvailable }),
	"supplementary.scaffold_location": str(func(s *Survey) string { return s.Supplementary.ScaffoldLocation }),
	"supplementary.scaffold_needed":   flag(func(s *Survey) bool { return s.Supplementary.ScaffoldNeeded }),
	"supplementary.pole_number":       str(func(s *Survey) string { return s.Supplementary.PoleNumber }),
	"supplementary.pole_type":         str(func(s *Survey) string { return s.Supplementary.PoleType }),
	"supplementary.wiring_route":      str(func(s *Survey) string { return s.Supplementary.WiringRoute }),
	"supplementary.cubicle_location":  flag(func(s *Survey) bool { return s.Supplementary.CubicleLocation }),
	"supplementary.bt_location":       str(func(s *Survey) string { return s.Supplementary.BTLocation }),
	"supplementary.meter_photo":       str(func(s *Survey) string { return s.Supplementary.MeterPhoto }),
	"supplementary.handwritten_notes": str(func(s *Survey) string { return s.Supplementary.HandwrittenNotes }),
	"supplementary.wiring_distance_m": func(s *Survey) (Value, bool) {
		if s.Supplementary.WiringDistanceM == nil {
			return Value{}, false
		}
		return NumberValue(*s.Supplementary.WiringDistanceM), true
	},

	"confirmation.surveyor_name":      str(func(s *Survey) string { return s.Confirmation.SurveyorName }),
	"confirmation.surveyor_date":      str(func(s *Survey) string { return s.Confirmation.SurveyorDate }),
	"confirmation.design_reviewer":    str(func(s *Survey) string { return s.Confirmation.DesignReviewer }),
	"confirmation.design_review_date": str(func(s *Survey) string { return s.Confirmation.DesignReviewDate }),
	"confirmation.works_reviewer":     str(func(s *Survey) string { return s.Confirmation.WorksReviewer }),
	"confirmation.works_review_date":  str(func(s *Survey) string { return s.Confirmation.WorksReviewDate }),
	"confirmation.notes":              str(func(s *Survey) string { return s.Confirmation.Notes }),
}

// Lookup resolves a dotted path against s. It reports false when the path is
// not a known field, when s is nil, or when an optional field is unset.
func Lookup(s *Survey, path string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	get, ok := fields[strings.TrimSpace(path)]
	if !ok {
		return Value{}, false
	}
	return get(s)
}

// KnownField reports whether path names a field of the survey record.
func KnownField(path string) bool {
	_, ok := fields[strings.TrimSpace(path)]
	return ok
}

// Fields lists every legal dotted path, sorted.
func Fields() []string {
	paths := make([]string, 0, len(fields))
	for p := range fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
