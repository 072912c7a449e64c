package confusion

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f")).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

// heat maps a row share to a grayscale 256 color background
func heat(share float64) lipgloss.Style {
	level := 232 + int(share*23)
	fg := "252"
	if level > 243 {
		fg = "232"
	}
	return cellStyle.Background(lipgloss.Color(strconv.Itoa(level))).Foreground(lipgloss.Color(fg))
}

// Render draws the matrix as a table, cells shaded by their share of the row.
func (m *Matrix) Render() string {
	norm := m.Normalized()
	headers := append([]string{"actual \\ predicted"}, m.Labels...)
	rows := make([][]string, len(m.Counts))
	for i, row := range m.Counts {
		rows[i] = append(rows[i], m.Labels[i])
		for _, c := range row {
			rows[i] = append(rows[i], strconv.Itoa(c))
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			case row < len(norm) && col-1 < len(norm[row]):
				return heat(norm[row][col-1])
			}
			return cellStyle
		})

	return t.Render() + "\n" + fmt.Sprintf("accuracy %.2f%% over %d predictions", 100*m.Accuracy(), m.Total())
}
