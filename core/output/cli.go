package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"solar-estimate/core/estimate"
	"solar-estimate/core/explanation"
)

// CLIFormatter renders the estimate as terminal tables
type CLIFormatter struct {
	// Color enables ANSI styling
	Color bool
}

// Format implements Formatter
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render implements Formatter
func (f *CLIFormatter) Render(w io.Writer, doc *Document) error {
	p := newPalette(f.Color)
	est := doc.Estimate
	var b strings.Builder

	b.WriteString(p.heading("御見積書"))
	b.WriteString("\n")
	c := est.Cover
	b.WriteString(f.field(p, "見積番号", c.EstimateID))
	b.WriteString(f.field(p, "発行日", c.IssueDate))
	if c.ClientName != "" {
		b.WriteString(f.field(p, "宛先", c.ClientName+" 御中"))
	}
	b.WriteString(f.field(p, "件名", c.ProjectName))
	b.WriteString(f.field(p, "工事場所", c.ProjectLocation))
	b.WriteString(f.field(p, "工事期間", c.ProjectPeriod))
	if c.ValidityPeriod != "" {
		b.WriteString(f.field(p, "有効期限", c.ValidityPeriod))
	}
	if c.Representative != "" {
		b.WriteString(f.field(p, "担当者", c.Representative))
	}
	if doc.Company.Name != "" {
		b.WriteString(f.field(p, "発行元", doc.Company.Name))
	}
	b.WriteString(f.field(p, "御見積金額", p.render(p.bold, explanation.Yen(c.TotalWithTax)+"（税込）")))
	b.WriteString("\n")

	b.WriteString(p.heading("内訳"))
	b.WriteString("\n")
	rows := make([][]string, 0, len(est.Summary.Categories)+5)
	for _, s := range est.VisibleSections() {
		rows = append(rows, []string{strconv.Itoa(s.Number), s.Label(), yenCell(s.Total)})
	}
	s := est.Summary
	rows = append(rows,
		[]string{"", "小計", explanation.Yen(s.Subtotal)},
		[]string{"", "値引き", p.render(p.discount, explanation.Yen(s.Discount))},
		[]string{"", "税抜合計", explanation.Yen(s.TotalBeforeTax)},
		[]string{"", fmt.Sprintf("消費税（%s%%）", s.TaxRate.Shift(2).String()), explanation.Yen(s.Tax)},
		[]string{"", "税込合計", p.render(p.bold, explanation.Yen(s.TotalWithTax))},
	)
	b.WriteString(p.table([]string{"No", "項目", "金額"}, rows, map[int]bool{2: true}))

	for _, section := range est.VisibleSections() {
		b.WriteString("\n")
		b.WriteString(p.heading(fmt.Sprintf("%d. %s", section.Number, section.Label())))
		b.WriteString("\n")
		b.WriteString(f.sectionTable(p, section))
		b.WriteString(fmt.Sprintf("%s %s\n", p.render(p.dim, "計"), p.render(p.money, explanation.Yen(section.Total))))
	}

	if doc.ShowReasoning && len(est.ReasoningList) > 0 {
		b.WriteString("\n")
		b.WriteString(p.heading("算出根拠"))
		b.WriteString("\n")
		for _, line := range est.ReasoningList {
			b.WriteString("  • " + line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (f *CLIFormatter) field(p palette, label, value string) string {
	return fmt.Sprintf("%s  %s\n", p.render(p.dim, label), value)
}

func (f *CLIFormatter) sectionTable(p palette, section *estimate.CategorySection) string {
	rows := make([][]string, 0, len(section.Items))
	for _, item := range section.Items {
		desc := item.Description
		if item.IsManualInput && item.Amount == 0 {
			desc += " " + p.render(p.manual, "[要入力]")
		}
		rows = append(rows, []string{
			strconv.Itoa(item.No),
			desc,
			singleLine(item.Remarks),
			item.Quantity,
			yenCell(item.UnitPrice),
			yenCell(item.Amount),
		})
	}
	return p.table(
		[]string{"No", "品名", "備考", "数量", "単価", "金額"},
		rows,
		map[int]bool{3: true, 4: true, 5: true},
	)
}
