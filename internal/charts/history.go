package charts

import (
	"context"
	"errors"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// RenderHistory draws one bar per day.
func (r *Renderer) RenderHistory(ctx context.Context, daily domain.DailySeries) (domain.ImagePayload, error) {
	return r.render(ctx, "history", historyTitle, func(p *plot.Plot) error {
		if len(daily) == 0 {
			return errors.New("no daily points to draw")
		}
		values := plotter.Values(daily.Values())

		barWidth := (r.width - 2*vg.Inch) / vg.Length(len(values)) * 0.8
		if barWidth < vg.Points(1) {
			barWidth = vg.Points(1)
		}
		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return err
		}
		bars.Color = skyBlue
		bars.LineStyle.Width = 0

		p.Add(plotter.NewGrid(), bars)
		p.X.Tick.Marker = dateTicks(daily[0].Day, len(daily))
		p.X.Min, p.X.Max = -0.5, float64(len(daily))-0.5
		rotateDateLabels(p)
		return nil
	})
}
