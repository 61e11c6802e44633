package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/petr-muller/jira-notion-sync/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205"))

	dryRunStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240"))

	countStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("33"))
)

func renderSummary(report *model.Report, dryRun bool) string {
	var b strings.Builder

	title := titleStyle.Render("Jira → Notion sync")
	if dryRun {
		title += " " + dryRunStyle.Render("(dry run)")
	}
	b.WriteString(title + "\n")

	rows := []struct {
		label string
		keys  []string
	}{
		{label: "Created", keys: report.CreatedKeys()},
		{label: "Updated", keys: report.UpdatedKeys()},
		{label: "Archived", keys: report.Archived},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "  %-9s %s", row.label+":", countStyle.Render(fmt.Sprintf("%d", len(row.keys))))
		if len(row.keys) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(row.keys, ", "))
		}
		b.WriteString("\n")
	}

	return b.String()
}
