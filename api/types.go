package api

import (
	"solar-estimate/core/engine"
	"solar-estimate/core/estimate"
	"solar-estimate/core/rules"
	"solar-estimate/core/survey"
)

// EstimateRequest is the body of POST /estimates
type EstimateRequest struct {
	// Survey is the extracted site survey
	Survey *survey.Survey `json:"survey"`

	// ClientName is the addressee printed on the cover
	ClientName string `json:"client_name"`

	// Strict refuses to price a survey with validation errors
	Strict bool `json:"strict,omitempty"`
}

// EstimateResponse is the data of a generated estimate
type EstimateResponse struct {
	Estimate   *estimate.Estimate `json:"estimate"`
	Validation *survey.Result     `json:"validation,omitempty"`
	InputHash  string             `json:"input_hash"`
}

// RecalculateRequest is the body of POST /estimates/recalculate
type RecalculateRequest struct {
	Estimate *estimate.Estimate `json:"estimate"`
	Edits    []engine.Edit      `json:"edits"`

	// TotalBeforeTax, when set, replaces the discount with the difference
	// between the subtotal and this figure. It is applied after Edits.
	TotalBeforeTax *int64 `json:"total_before_tax,omitempty"`
}

// ExportRequest is the body of POST /estimates/export
type ExportRequest struct {
	Estimate      *estimate.Estimate `json:"estimate"`
	ShowReasoning *bool              `json:"show_reasoning,omitempty"`
}

// RulesResponse describes the loaded rule set
type RulesResponse struct {
	Version        string                  `json:"version"`
	TaxRate        string                  `json:"tax_rate"`
	DiscountMethod estimate.DiscountMethod `json:"discount_method"`
	Categories     []RuleCategory          `json:"categories"`
	Warnings       []string                `json:"warnings,omitempty"`
}

// RuleCategory is one category of the rule set
type RuleCategory struct {
	Category estimate.Category `json:"category"`
	Number   int               `json:"number"`
	Label    string            `json:"label"`
	Items    []rules.ItemDef   `json:"items"`
}

// HealthResponse is the data of GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Rules   string `json:"rules_version"`
}

func newRulesResponse(rs *rules.RuleSet) *RulesResponse {
	resp := &RulesResponse{
		Version:        rs.Version,
		TaxRate:        rs.TaxRate.String(),
		DiscountMethod: rs.DiscountMethod,
		Warnings:       rs.Warnings,
	}
	for _, c := range estimate.Categories() {
		resp.Categories = append(resp.Categories, RuleCategory{
			Category: c,
			Number:   c.Number(),
			Label:    c.Label(),
			Items:    rs.Items(c),
		})
	}
	return resp
}
