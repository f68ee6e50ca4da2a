package charts

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// RenderForecast overlays the projection on the history and marks the last
// observed day with a dashed vertical line.
func (r *Renderer) RenderForecast(ctx context.Context, daily domain.DailySeries, forecast domain.ForecastSeries) (domain.ImagePayload, error) {
	return r.render(ctx, "forecast", forecastTitle, func(p *plot.Plot) error {
		if len(daily) == 0 || len(forecast) == 0 {
			return errors.New("history and forecast must both be non-empty")
		}

		hist := make(plotter.XYs, len(daily))
		for i, pt := range daily {
			hist[i] = plotter.XY{X: dayX(pt.Day), Y: pt.Amount.InexactFloat64()}
		}
		proj := make(plotter.XYs, len(forecast))
		for i, pt := range forecast {
			proj[i] = plotter.XY{X: dayX(pt.Day), Y: pt.Value}
		}

		histLine, err := plotter.NewLine(hist)
		if err != nil {
			return err
		}
		histLine.Color = historyBlue
		histLine.Width = lineWidth

		projLine, projPoints, err := plotter.NewLinePoints(proj)
		if err != nil {
			return err
		}
		projLine.Color = forecastOrng
		projLine.Width = lineWidth
		projPoints.Shape = draw.CircleGlyph{}
		projPoints.Color = forecastOrng
		projPoints.Radius = glyphRadius

		lo, hi := bounds(hist, proj)
		boundary := dayX(daily.LastDay())
		marker, err := plotter.NewLine(plotter.XYs{{X: boundary, Y: lo}, {X: boundary, Y: hi}})
		if err != nil {
			return err
		}
		marker.Color = markerRed
		marker.Width = lineWidth
		marker.Dashes = markerDash

		p.Add(plotter.NewGrid(), histLine, projLine, projPoints, marker)
		p.Legend.Add(historyLegend, histLine)
		p.Legend.Add(forecastLegend, projLine, projPoints)
		p.Legend.Top = true
		p.X.Tick.Marker = plot.TimeTicks{Format: dateLayout}
		rotateDateLabels(p)
		return nil
	})
}

// bounds returns the padded vertical extent of every plotted value.
func bounds(sets ...plotter.XYs) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, set := range sets {
		for _, xy := range set {
			lo = math.Min(lo, xy.Y)
			hi = math.Max(hi, xy.Y)
		}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return lo - pad, hi + pad
}
