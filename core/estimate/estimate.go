package estimate

import (
	"github.com/shopspring/decimal"
)

// Reasoning explains how a line item amount was reached
type Reasoning struct {
	// Method is the pricing method that produced the amount
	Method Method `json:"method"`

	// Formula is the arithmetic, e.g. "190.08kW × ¥3,300/kW = ¥627,264"
	Formula string `json:"formula"`

	// Source names where the inputs came from
	Source string `json:"source,omitempty"`

	// Note is free text carried over from the rule
	Note string `json:"note,omitempty"`
}

// LineItem is one priced row of the estimate. Amounts are whole yen.
type LineItem struct {
	No            int             `json:"no"`
	Description   string          `json:"description"`
	Remarks       string          `json:"remarks"`
	Quantity      string          `json:"quantity"`
	QuantityValue decimal.Decimal `json:"quantity_value"`
	QuantityUnit  string          `json:"quantity_unit"`
	UnitPrice     int64           `json:"unit_price"`
	Amount        int64           `json:"amount"`
	Reasoning     *Reasoning      `json:"reasoning,omitempty"`
	IsManualInput bool            `json:"is_manual_input"`
}

// CategorySection is an ordered group of line items
type CategorySection struct {
	Category Category    `json:"category"`
	Number   int         `json:"category_number"`
	Items    []*LineItem `json:"items"`

	// Subtotal and Total both equal the sum of item amounts. Total is kept
	// separate so a section-level adjustment can be added later.
	Subtotal int64 `json:"subtotal"`
	Total    int64 `json:"total"`
}

// NewSection creates an empty section for c
func NewSection(c Category) *CategorySection {
	return &CategorySection{
		Category: c,
		Number:   c.Number(),
		Items:    []*LineItem{},
	}
}

// Label is the section heading
func (s *CategorySection) Label() string {
	return s.Category.Label()
}

// CalculateTotals recomputes subtotal and total from the items
func (s *CategorySection) CalculateTotals() {
	var sum int64
	for _, item := range s.Items {
		sum += item.Amount
	}
	s.Subtotal = sum
	s.Total = sum
}

// Summary is the estimate breakdown page
type Summary struct {
	Categories     []*CategorySection `json:"categories"`
	Subtotal       int64              `json:"subtotal"`
	Discount       int64              `json:"discount"`
	TotalBeforeTax int64              `json:"total_before_tax"`
	Tax            int64              `json:"tax"`
	TotalWithTax   int64              `json:"total_with_tax"`
	TaxRate        decimal.Decimal    `json:"tax_rate"`
	DiscountMethod DiscountMethod     `json:"discount_method"`

	// DiscountAdjusted is set when TotalBeforeTax was entered by hand and the
	// discount derived from it
	DiscountAdjusted bool `json:"discount_adjusted,omitempty"`
}

// Cover is the first page of the estimate
type Cover struct {
	EstimateID      string `json:"estimate_id"`
	IssueDate       string `json:"issue_date"`
	ClientName      string `json:"client_name"`
	ProjectName     string `json:"project_name"`
	ProjectLocation string `json:"project_location"`
	ProjectPeriod   string `json:"project_period"`
	ValidityPeriod  string `json:"validity_period"`
	Notes           string `json:"notes"`
	Representative  string `json:"representative"`
	TotalWithTax    int64  `json:"total_with_tax"`
	TotalBeforeTax  int64  `json:"total_before_tax"`
	Tax             int64  `json:"tax"`
}

// Estimate is the complete estimate document
type Estimate struct {
	Cover         Cover    `json:"cover"`
	Summary       Summary  `json:"summary"`
	ReasoningList []string `json:"reasoning_list"`
}

// Section returns the section for c, or nil
func (e *Estimate) Section(c Category) *CategorySection {
	for _, s := range e.Summary.Categories {
		if s.Category == c {
			return s
		}
	}
	return nil
}

// VisibleSections returns the sections a renderer should list. The special
// notes section is omitted while it has no items.
func (e *Estimate) VisibleSections() []*CategorySection {
	out := make([]*CategorySection, 0, len(e.Summary.Categories))
	for _, s := range e.Summary.Categories {
		if s.Category == CategorySpecialNotes && len(s.Items) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SyncCover copies the money fields of the summary onto the cover
func (e *Estimate) SyncCover() {
	e.Cover.TotalWithTax = e.Summary.TotalWithTax
	e.Cover.TotalBeforeTax = e.Summary.TotalBeforeTax
	e.Cover.Tax = e.Summary.Tax
}
