package main

import "github.com/charmbracelet/lipgloss"

const (
	colorTitle  = "#FF6188"
	colorAccent = "#78DCE8"
	colorGreen  = "#A9DC76"
	colorDim    = "#727072"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorTitle))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colorAccent))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
)

// columns renders rows as left aligned columns, styling the first row as a
// header.
func columns(rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var lines []string
	for r, row := range rows {
		cells := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			style := lipgloss.NewStyle()
			if r == 0 {
				style = headerStyle
			}
			if i < len(widths)-1 {
				style = style.Width(widths[i] + 2)
			}
			cells[i] = style.Render(cell)
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
