// Package survey defines the site survey record consumed by the pricing engine.
// The record is produced upstream (form extraction, manual entry) and is
// treated as read-only once pricing starts.
package survey

// DesignStatus is how settled the equipment design is
type DesignStatus string

const (
	DesignConfirmed DesignStatus = "確定"
	DesignTentative DesignStatus = "仮"
	DesignUndecided DesignStatus = "未定"
)

// GroundType is the grounding class available on site
type GroundType string

const (
	GroundA GroundType = "A"
	GroundC GroundType = "C"
	GroundD GroundType = "D"
)

// Location is an indoor/outdoor placement
type Location string

const (
	LocationIndoor  Location = "屋内"
	LocationOutdoor Location = "屋外"
)

// BTPlacement is where the battery goes, if anywhere
type BTPlacement string

const (
	BTIndoor  BTPlacement = "屋内"
	BTOutdoor BTPlacement = "屋外"
	BTNone    BTPlacement = "設置なし"
)

// CInstallation says whether class C grounding can be installed
type CInstallation string

const (
	CPossible   CInstallation = "可"
	CImpossible CInstallation = "不可"
)

// Survey is the complete survey sheet
type Survey struct {
	Project       ProjectInfo          `json:"project" yaml:"project"`
	Equipment     PlannedEquipment     `json:"equipment" yaml:"equipment"`
	HighVoltage   HighVoltageChecklist `json:"high_voltage" yaml:"high_voltage"`
	Supplementary SupplementarySheet   `json:"supplementary" yaml:"supplementary"`
	Confirmation  FinalConfirmation    `json:"confirmation" yaml:"confirmation"`
}

// ProjectInfo is the project header of the sheet
type ProjectInfo struct {
	ProjectName string `json:"project_name" yaml:"project_name" validate:"required"`
	Address     string `json:"address" yaml:"address" validate:"required"`
	PostalCode  string `json:"postal_code" yaml:"postal_code"`
	SurveyDate  string `json:"survey_date" yaml:"survey_date"`
	Weather     string `json:"weather" yaml:"weather"`
	Surveyor    string `json:"surveyor" yaml:"surveyor"`
}

// PlannedEquipment is the planned module layout
type PlannedEquipment struct {
	ModuleMaker   string       `json:"module_maker" yaml:"module_maker"`
	ModuleModel   string       `json:"module_model" yaml:"module_model"`
	ModuleOutputW float64      `json:"module_output_w" yaml:"module_output_w" validate:"gt=0"`
	PlannedPanels int          `json:"planned_panels" yaml:"planned_panels" validate:"gt=0"`
	PVCapacityKW  float64      `json:"pv_capacity_kw" yaml:"pv_capacity_kw" validate:"gt=0"`
	DesignStatus  DesignStatus `json:"design_status" yaml:"design_status" validate:"omitempty,oneof=確定 仮 未定"`
}

// HighVoltageChecklist holds the high-voltage interconnection checks
type HighVoltageChecklist struct {
	BuildingDrawing       bool          `json:"building_drawing" yaml:"building_drawing"`
	SingleLineDiagram     bool          `json:"single_line_diagram" yaml:"single_line_diagram"`
	SingleLineDiagramNote string        `json:"single_line_diagram_note" yaml:"single_line_diagram_note"`
	GroundType            GroundType    `json:"ground_type" yaml:"ground_type" validate:"omitempty,oneof=A C D"`
	CInstallation         CInstallation `json:"c_installation" yaml:"c_installation" validate:"omitempty,oneof=可 不可"`
	CInstallationNote     string        `json:"c_installation_note" yaml:"c_installation_note"`
	VTAvailable           bool          `json:"vt_available" yaml:"vt_available"`
	CTAvailable           bool          `json:"ct_available" yaml:"ct_available"`
	RelaySpace            bool          `json:"relay_space" yaml:"relay_space"`
	PCSSpace              bool          `json:"pcs_space" yaml:"pcs_space"`
	PCSLocation           *Location     `json:"pcs_location,omitempty" yaml:"pcs_location,omitempty" validate:"omitempty,oneof=屋内 屋外"`
	BTSpace               *BTPlacement  `json:"bt_space,omitempty" yaml:"bt_space,omitempty" validate:"omitempty,oneof=屋内 屋外 設置なし"`
	BTBackupCapacity      string        `json:"bt_backup_capacity" yaml:"bt_backup_capacity"`
	TRCapacity            string        `json:"tr_capacity" yaml:"tr_capacity"`
	PreUseSelfCheck       bool          `json:"pre_use_self_check" yaml:"pre_use_self_check"`
	SeparationNSMM        float64       `json:"separation_ns_mm" yaml:"separation_ns_mm" validate:"gte=0"`
	SeparationEWMM        float64       `json:"separation_ew_mm" yaml:"separation_ew_mm" validate:"gte=0"`
}

// SupplementarySheet holds the attached site checklist
type SupplementarySheet struct {
	CraneAvailable   bool     `json:"crane_available" yaml:"crane_available"`
	ScaffoldLocation string   `json:"scaffold_location" yaml:"scaffold_location"`
	ScaffoldNeeded   bool     `json:"scaffold_needed" yaml:"scaffold_needed"`
	PoleNumber       string   `json:"pole_number" yaml:"pole_number"`
	PoleType         string   `json:"pole_type" yaml:"pole_type"`
	WiringRoute      string   `json:"wiring_route" yaml:"wiring_route"`
	CubicleLocation  bool     `json:"cubicle_location" yaml:"cubicle_location"`
	BTLocation       string   `json:"bt_location" yaml:"bt_location"`
	MeterPhoto       string   `json:"meter_photo" yaml:"meter_photo"`
	HandwrittenNotes string   `json:"handwritten_notes" yaml:"handwritten_notes"`
	WiringDistanceM  *float64 `json:"wiring_distance_m,omitempty" yaml:"wiring_distance_m,omitempty" validate:"omitempty,gte=0"`
}

// FinalConfirmation is the sign-off block
type FinalConfirmation struct {
	SurveyorName     string `json:"surveyor_name" yaml:"surveyor_name"`
	SurveyorDate     string `json:"surveyor_date" yaml:"surveyor_date"`
	DesignReviewer   string `json:"design_reviewer" yaml:"design_reviewer"`
	DesignReviewDate string `json:"design_review_date" yaml:"design_review_date"`
	WorksReviewer    string `json:"works_reviewer" yaml:"works_reviewer"`
	WorksReviewDate  string `json:"works_review_date" yaml:"works_review_date"`
	Notes            string `json:"notes" yaml:"notes"`
}
