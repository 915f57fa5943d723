package report

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dd0wney/cluso-conductance/pkg/sweep"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

// RenderTable formats the per-parameter summary for a terminal
func RenderTable(res *sweep.Result) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers("param", "communities", "mean", "std dev", "modularity")

	for _, p := range res.Points {
		t.Row(
			formatFloat(p.Param),
			strconv.Itoa(len(p.Communities)),
			fmt.Sprintf("%.4f", p.Mean),
			fmt.Sprintf("%.4f", p.StdDev),
			fmt.Sprintf("%.4f", p.Modularity),
		)
	}

	title := titleStyle.Render(fmt.Sprintf("Conductance by %s (run %s)", res.Attribute, res.RunID))
	return lipgloss.JoinVertical(lipgloss.Left, title, t.String())
}
