package output

import (
	"fmt"
	"io"
	"strings"

	"solar-estimate/core/explanation"
)

// MarkdownFormatter renders the estimate as a markdown report
type MarkdownFormatter struct{}

// Format implements Formatter
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render implements Formatter
func (f *MarkdownFormatter) Render(w io.Writer, doc *Document) error {
	est := doc.Estimate
	c := est.Cover
	var b strings.Builder

	b.WriteString("# 御見積書\n\n")
	if c.ClientName != "" {
		fmt.Fprintf(&b, "**%s 御中**\n\n", c.ClientName)
	}

	b.WriteString("| 項目 | 内容 |\n|---|---|\n")
	for _, kv := range [][2]string{
		{"見積番号", c.EstimateID},
		{"発行日", c.IssueDate},
		{"件名", c.ProjectName},
		{"工事場所", c.ProjectLocation},
		{"工事期間", c.ProjectPeriod},
		{"有効期限", c.ValidityPeriod},
		{"備考", c.Notes},
		{"担当者", c.Representative},
		{"御見積金額（税込）", explanation.Yen(c.TotalWithTax)},
	} {
		if kv[1] == "" {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", kv[0], escapeCell(kv[1]))
	}

	if doc.Company.Name != "" {
		b.WriteString("\n")
		b.WriteString(doc.Company.Name + "  \n")
		for _, line := range []string{
			strings.TrimSpace(doc.Company.PostalCode + " " + doc.Company.Address),
			strings.TrimSpace(doc.Company.Tel + " " + doc.Company.Fax),
		} {
			if line != "" {
				b.WriteString(line + "  \n")
			}
		}
	}

	s := est.Summary
	b.WriteString("\n## 内訳\n\n| No | 項目 | 金額 |\n|---:|---|---:|\n")
	for _, section := range est.VisibleSections() {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", section.Number, section.Label(), explanation.Yen(section.Total))
	}
	fmt.Fprintf(&b, "| | 小計 | %s |\n", explanation.Yen(s.Subtotal))
	fmt.Fprintf(&b, "| | 値引き | %s |\n", explanation.Yen(s.Discount))
	fmt.Fprintf(&b, "| | 税抜合計 | %s |\n", explanation.Yen(s.TotalBeforeTax))
	fmt.Fprintf(&b, "| | 消費税（%s%%） | %s |\n", s.TaxRate.Shift(2).String(), explanation.Yen(s.Tax))
	fmt.Fprintf(&b, "| | **税込合計** | **%s** |\n", explanation.Yen(s.TotalWithTax))

	for _, section := range est.VisibleSections() {
		fmt.Fprintf(&b, "\n## %d. %s\n\n", section.Number, section.Label())
		b.WriteString("| No | 品名 | 備考 | 数量 | 単価 | 金額 |\n|---:|---|---|---:|---:|---:|\n")
		for _, item := range section.Items {
			desc := escapeCell(item.Description)
			if item.IsManualInput && item.Amount == 0 {
				desc += " ※要入力"
			}
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s |\n",
				item.No, desc, escapeCell(item.Remarks), escapeCell(item.Quantity),
				yenCell(item.UnitPrice), yenCell(item.Amount))
		}
		fmt.Fprintf(&b, "| | **計** | | | | **%s** |\n", explanation.Yen(section.Total))
	}

	if doc.ShowReasoning && len(est.ReasoningList) > 0 {
		b.WriteString("\n## 算出根拠\n\n")
		for _, line := range est.ReasoningList {
			b.WriteString("- " + line + "\n")
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}
