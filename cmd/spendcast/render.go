package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorText   = lipgloss.Color("#FFFCF0")
	colorOrange = lipgloss.Color("#DA702C")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	forecastStyle = cellStyle.Foreground(colorOrange)
)

// renderTable renders a rounded table with an optional title line.
func renderTable(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	if title == "" {
		return t.Render()
	}
	return headerStyle.Render(title) + "\n" + t.Render()
}

// renderAnalysis formats the summary, the last days of history and the forecast.
func renderAnalysis(a *domain.Analysis, historyDays int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("SPENDING  %s", a.Filename)))
	b.WriteString("\n\n")

	s := a.Summary
	b.WriteString(renderTable("Summary", []string{"Metric", "Value"}, [][]string{
		{"Transactions", fmt.Sprint(a.Rows)},
		{"Days", fmt.Sprintf("%d (%d with spending)", s.Days, s.ActiveDays)},
		{"Total", s.Total.StringFixed(2)},
		{"Daily mean", s.DailyMean.StringFixed(2)},
		{"Largest day", fmt.Sprintf("%s (%s)", s.MaxDay, s.MaxAmount.StringFixed(2))},
		{"Model", fmt.Sprintf("alpha %.3f  beta %.3f  phi %.3f", a.Model.Alpha, a.Model.Beta, a.Model.Phi)},
	}))
	b.WriteString("\n\n")

	daily := a.Daily
	if historyDays > 0 && len(daily) > historyDays {
		daily = daily[len(daily)-historyDays:]
	}
	rows := make([][]string, 0, len(daily)+len(a.Forecast))
	for _, p := range daily {
		rows = append(rows, []string{p.Day.String(), p.Amount.StringFixed(2), "actual"})
	}
	for _, p := range a.Forecast {
		rows = append(rows, []string{p.Day.String(), fmt.Sprintf("%.2f", p.Value), forecastStyle.Render("forecast")})
	}
	b.WriteString(renderTable("Daily", []string{"Date", "Amount", "Kind"}, rows))
	b.WriteString("\n")
	return b.String()
}
