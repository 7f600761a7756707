package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"solar-estimate/core/engine"
	"solar-estimate/core/estimate"
)

var (
	colorHeader = lipgloss.Color("#fe8019")
	colorGreen  = lipgloss.Color("#8ec07c")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorDim    = lipgloss.Color("#928374")
)

// manualField is one prompt for an item awaiting a manual amount
type manualField struct {
	category int
	item     int
	label    string
	value    string

	// single is set for a quantity of exactly one, where the amount entered
	// is also the unit price
	single bool
}

func estimateHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(colorDim)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(colorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(colorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(colorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(colorDim)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(colorFg).Background(colorGreen).Padding(0, 1)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(colorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(colorDim)

	return t
}

// manualFields lists every item flagged for manual input, in document order.
func manualFields(est *estimate.Estimate) []*manualField {
	var fields []*manualField
	for ci, section := range est.Summary.Categories {
		for ii, item := range section.Items {
			if !item.IsManualInput {
				continue
			}
			fields = append(fields, &manualField{
				category: ci,
				item:     ii,
				label:    fmt.Sprintf("[%s] %s", section.Label(), item.Description),
				single:   item.QuantityValue.Equal(decimal.NewFromInt(1)),
			})
		}
	}
	return fields
}

// parseYen accepts "380000", "380,000", "¥380,000" or "380,000円".
// Blank means no amount was entered.
func parseYen(s string) (int64, bool, error) {
	s = strings.NewReplacer(",", "", "¥", "", "￥", "", "円", "", " ", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("金額は整数で入力してください")
	}
	if n < 0 {
		return 0, false, fmt.Errorf("金額は0以上で入力してください")
	}
	return n, true, nil
}

func validateYen(s string) error {
	_, _, err := parseYen(s)
	return err
}

// editsFor converts answered fields into amount edits. A single-unit item
// gets the same figure as its unit price. Blank answers are skipped.
func editsFor(fields []*manualField) ([]engine.Edit, error) {
	var edits []engine.Edit
	for _, f := range fields {
		n, ok, err := parseYen(f.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.label, err)
		}
		if !ok {
			continue
		}
		amount := n
		ed := engine.Edit{Category: f.category, Item: f.item, Amount: &amount}
		if f.single {
			ed.UnitPrice = &amount
		}
		edits = append(edits, ed)
	}
	return edits, nil
}

// promptManualItems asks for the amount of every manual-input item.
func promptManualItems(est *estimate.Estimate) ([]engine.Edit, error) {
	fields := manualFields(est)
	if len(fields) == 0 {
		return nil, nil
	}

	inputs := make([]huh.Field, 0, len(fields))
	for _, f := range fields {
		inputs = append(inputs, huh.NewInput().
			Title(f.label).
			Description("金額（円）。空欄のままなら要入力として残ります").
			Placeholder("0").
			Value(&f.value).
			Validate(validateYen))
	}

	form := huh.NewForm(huh.NewGroup(inputs...)).
		WithTheme(estimateHuhTheme()).
		WithShowHelp(false)
	if err := form.Run(); err != nil {
		return nil, err
	}
	return editsFor(fields)
}
