package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"solar-estimate/core/estimate"
	"solar-estimate/core/expression"
	"solar-estimate/core/pricing"
	"solar-estimate/internal/errors"
)

// Edit is a manual change to one line item. Nil fields are left alone.
type Edit struct {
	// Category is the 0-based section index in document order
	Category int `json:"category"`

	// Item is the 0-based index within the section
	Item int `json:"item"`

	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice *int64           `json:"unit_price,omitempty"`
	Amount    *int64           `json:"amount,omitempty"`
}

func (ed Edit) validate(est *estimate.Estimate) (*estimate.LineItem, error) {
	if ed.Category < 0 || ed.Category >= len(est.Summary.Categories) {
		return nil, errors.Input(fmt.Sprintf("category index %d out of range", ed.Category))
	}
	section := est.Summary.Categories[ed.Category]
	if section == nil || ed.Item < 0 || ed.Item >= len(section.Items) {
		return nil, errors.Input(fmt.Sprintf("item index %d out of range in category %d", ed.Item, ed.Category))
	}
	if ed.Quantity != nil && ed.Quantity.IsNegative() {
		return nil, errors.Input("quantity must not be negative")
	}
	if ed.UnitPrice != nil && *ed.UnitPrice < 0 {
		return nil, errors.Input("unit price must not be negative")
	}
	if ed.Amount != nil && *ed.Amount < 0 {
		return nil, errors.Input("amount must not be negative")
	}
	return section.Items[ed.Item], nil
}

// UpdateLineItem applies ed and recalculates the whole estimate.
//
// An explicit amount wins. Otherwise, when the quantity or unit price
// changes, the amount becomes quantity × unit price truncated to whole yen.
// The discount is re-applied from scratch, never frozen, so a hand-entered
// total before tax is dropped. An edit that fails validation leaves est
// untouched.
func (e *Engine) UpdateLineItem(est *estimate.Estimate, ed Edit) error {
	if _, _, err := e.check(est); err != nil {
		return err
	}
	item, err := ed.validate(est)
	if err != nil {
		return err
	}
	e.apply(est, ed, item)
	return e.Recalculate(est)
}

// ApplyEdits applies edits in order as one batch. Every edit is validated
// before any is applied, so a batch with an invalid edit changes nothing.
func (e *Engine) ApplyEdits(est *estimate.Estimate, edits []Edit) error {
	if _, _, err := e.check(est); err != nil {
		return err
	}

	items := make([]*estimate.LineItem, len(edits))
	for i, ed := range edits {
		item, err := ed.validate(est)
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "edit %d", i)
		}
		items[i] = item
	}

	for i, ed := range edits {
		e.apply(est, ed, items[i])
	}
	return e.Recalculate(est)
}

func (e *Engine) apply(est *estimate.Estimate, ed Edit, item *estimate.LineItem) {
	if ed.Quantity != nil {
		item.QuantityValue = *ed.Quantity
		item.Quantity = expression.FormatDecimal(*ed.Quantity) + item.QuantityUnit
	}
	if ed.UnitPrice != nil {
		item.UnitPrice = *ed.UnitPrice
	}

	switch {
	case ed.Amount != nil:
		item.Amount = *ed.Amount
	case ed.Quantity != nil || ed.UnitPrice != nil:
		item.Amount = pricing.Amount(item.QuantityValue, item.UnitPrice)
	}
	est.Summary.DiscountAdjusted = false

	e.logger.Debug("line item updated",
		zap.Int("category", ed.Category),
		zap.Int("item", ed.Item),
		zap.Int64("amount", item.Amount))
}
