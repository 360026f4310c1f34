package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/klauern/cognisync/internal/model"
)

var titleCaser = cases.Title(language.English)

// TypeLabel returns a title-cased label for a count of cognitives,
// such as "1 Skill" or "3 Workflows".
func TypeLabel(t model.CognitiveType, n int) string {
	name := t.String()
	if n != 1 {
		name = t.Plural()
	}
	return fmt.Sprintf("%d %s", n, titleCaser.String(name))
}

// Title title-cases s.
func Title(s string) string {
	return titleCaser.String(s)
}

// Row is a label/value line in a summary box.
type Row struct {
	Label string
	Value string
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// Box renders a titled box of aligned rows. Colors follow IsColorEnabled.
func Box(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Label))
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, style(titleStyle).Render(title))
	for _, r := range rows {
		label := r.Label + strings.Repeat(" ", width-lipgloss.Width(r.Label))
		lines = append(lines, style(labelStyle).Render(label)+"  "+r.Value)
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// TypeRows returns one row per cognitive type present in counts, in type order.
func TypeRows(counts map[model.CognitiveType]int) []Row {
	var rows []Row
	for _, t := range model.AllCognitiveTypes() {
		if n, ok := counts[t]; ok && n > 0 {
			rows = append(rows, Row{Label: Title(t.Plural()), Value: fmt.Sprint(n)})
		}
	}
	return rows
}

func style(s lipgloss.Style) lipgloss.Style {
	if IsColorEnabled() {
		return s
	}
	return lipgloss.NewStyle()
}
