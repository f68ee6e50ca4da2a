package charts

import (
	"image/color"

	"gonum.org/v1/plot/vg"
)

const (
	historyTitle  = "Daily Spending Amount"
	forecastTitle = "Spending Forecast"
	xAxisLabel    = "Date"
	yAxisLabel    = "Amount"

	historyLegend  = "Historical Spending"
	forecastLegend = "Forecasted Spending"

	dateLayout = "2006-01-02"
	// maxDateLabels caps the number of labelled ticks on the date axis.
	maxDateLabels = 15
)

var (
	skyBlue      = color.RGBA{R: 135, G: 206, B: 235, A: 255}
	historyBlue  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastOrng = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	markerRed    = color.RGBA{R: 220, G: 20, B: 20, A: 255}

	lineWidth   = vg.Points(1.5)
	markerDash  = []vg.Length{vg.Points(6), vg.Points(4)}
	glyphRadius = vg.Points(2.5)
)
