package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"solar-estimate/core/explanation"
)

// Gruvbox-inspired palette
var (
	colorGreen  = lipgloss.Color("#8ec07c")
	colorYellow = lipgloss.Color("#fabd2f")
	colorRed    = lipgloss.Color("#fb4934")
	colorDim    = lipgloss.Color("#928374")
	colorFg     = lipgloss.Color("#ebdbb2")
	colorHeader = lipgloss.Color("#fe8019")
)

// palette renders text either styled or plain
type palette struct {
	header, dim, bold, money, manual, discount lipgloss.Style
	plain                                      bool
}

func newPalette(color bool) palette {
	return palette{
		header:   lipgloss.NewStyle().Foreground(colorHeader).Bold(true),
		dim:      lipgloss.NewStyle().Foreground(colorDim),
		bold:     lipgloss.NewStyle().Foreground(colorFg).Bold(true),
		money:    lipgloss.NewStyle().Foreground(colorGreen),
		manual:   lipgloss.NewStyle().Foreground(colorYellow),
		discount: lipgloss.NewStyle().Foreground(colorRed),
		plain:    !color,
	}
}

func (p palette) render(s lipgloss.Style, text string) string {
	if p.plain || text == "" {
		return text
	}
	return s.Render(text)
}

// heading renders a section header with an underline sized to its display
// width, so full-width characters are measured correctly.
func (p palette) heading(text string) string {
	line := strings.Repeat("─", lipgloss.Width(text))
	return p.render(p.header, text) + "\n" + p.render(p.dim, line)
}

// table renders an aligned table with a header separator line. alignRight
// marks the columns that hold amounts.
func (p palette) table(headers []string, rows [][]string, alignRight map[int]bool) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}

	const colGap = 2
	var b strings.Builder

	cell := func(i int, text string, style func(string) string) {
		pad := widths[i] - lipgloss.Width(text)
		if pad < 0 {
			pad = 0
		}
		if alignRight[i] {
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(style(text))
		} else {
			b.WriteString(style(text))
			if i < cols-1 {
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}

	for i, h := range headers {
		cell(i, h, func(s string) string { return p.render(p.header, s) })
	}
	b.WriteString("\n")

	for i, w := range widths {
		b.WriteString(p.render(p.dim, strings.Repeat("─", w)))
		if i < cols-1 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
	}
	b.WriteString("\n")

	for _, row := range rows {
		for i := 0; i < cols; i++ {
			text := ""
			if i < len(row) {
				text = row[i]
			}
			cell(i, text, func(s string) string { return s })
		}
		b.WriteString("\n")
	}

	return b.String()
}

// yenCell formats an amount column; zero renders as "-"
func yenCell(n int64) string {
	if n == 0 {
		return "-"
	}
	return explanation.Yen(n)
}

// singleLine flattens multi-line remarks for table cells
func singleLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}
