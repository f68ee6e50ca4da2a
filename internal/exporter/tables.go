package exporter

import (
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// Row kinds in the combined CSV.
const (
	KindActual   = "actual"
	KindForecast = "forecast"
)

var (
	combinedHeaders = []string{"Date", "Kind", "Amount"}
	dailyHeaders    = []string{"Date", "Amount"}
	forecastHeaders = []string{"Date", "Forecast"}
	modelHeaders    = []string{"Parameter", "Value"}
)

// combinedRows lists observed days followed by projected days.
func combinedRows(a *domain.Analysis) [][]string {
	rows := make([][]string, 0, len(a.Daily)+len(a.Forecast))
	for _, p := range a.Daily {
		rows = append(rows, []string{formatDay(p.Day), KindActual, formatDecimal(p.Amount)})
	}
	for _, p := range a.Forecast {
		rows = append(rows, []string{formatDay(p.Day), KindForecast, formatFloat(p.Value)})
	}
	return rows
}

// modelRows describes the fitted model and the run it came from.
func modelRows(a *domain.Analysis) [][]any {
	m := a.Model
	return [][]any{
		{"run_id", a.RunID},
		{"source_file", a.Filename},
		{"rows", a.Rows},
		{"alpha", m.Alpha},
		{"beta", m.Beta},
		{"phi", m.Phi},
		{"initial_level", m.InitialLevel},
		{"initial_trend", m.InitialTrend},
		{"final_level", m.Level},
		{"final_trend", m.Trend},
		{"sse", m.SSE},
		{"evaluations", m.Evaluations},
	}
}
