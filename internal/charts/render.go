package charts

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"math"
	"time"

	"cloud.google.com/go/civil"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/agam25rpro/Personal-Finance-Webapp/internal/config"
	apperrors "github.com/agam25rpro/Personal-Finance-Webapp/internal/errors"
	"github.com/agam25rpro/Personal-Finance-Webapp/internal/infrastructure"
	"github.com/agam25rpro/Personal-Finance-Webapp/pkg/contracts/domain"
)

// MIMEType is the media type of every payload produced here.
const MIMEType = "image/png"

// Renderer turns series into chart images of a fixed size.
type Renderer struct {
	width  vg.Length
	height vg.Length
	dpi    int
	logger *slog.Logger
}

// NewRenderer creates a renderer sized by cfg.
func NewRenderer(cfg config.ChartConfig, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		width:  vg.Length(cfg.WidthInches) * vg.Inch,
		height: vg.Length(cfg.HeightInches) * vg.Inch,
		dpi:    cfg.DPI,
		logger: infrastructure.WithComponent(logger, "chart_renderer"),
	}
}

// renderContext owns the drawing state of a single render call.
type renderContext struct {
	plot   *plot.Plot
	canvas *vgimg.Canvas
	buf    *bytes.Buffer
}

func (r *Renderer) acquire(title string) *renderContext {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xAxisLabel
	p.Y.Label.Text = yAxisLabel
	return &renderContext{plot: p, buf: new(bytes.Buffer)}
}

func (rc *renderContext) release() {
	rc.plot = nil
	rc.canvas = nil
	rc.buf = nil
}

// encode draws the plot onto a fresh canvas and returns the PNG as base64.
func (rc *renderContext) encode(width, height vg.Length, dpi int) (domain.ImagePayload, error) {
	rc.canvas = vgimg.NewWith(vgimg.UseWH(width, height), vgimg.UseDPI(dpi))
	rc.plot.Draw(draw.New(rc.canvas))

	png := vgimg.PngCanvas{Canvas: rc.canvas}
	if _, err := png.WriteTo(rc.buf); err != nil {
		return domain.ImagePayload{}, fmt.Errorf("encode png: %w", err)
	}
	return domain.ImagePayload{
		MIMEType: MIMEType,
		Base64:   base64.StdEncoding.EncodeToString(rc.buf.Bytes()),
	}, nil
}

// render runs build against a fresh context and always releases it. A panic
// inside gonum/plot is reported as a render error.
func (r *Renderer) render(ctx context.Context, kind, title string, build func(*plot.Plot) error) (payload domain.ImagePayload, err error) {
	if err := ctx.Err(); err != nil {
		return domain.ImagePayload{}, apperrors.NewRenderError("render cancelled", err)
	}
	start := time.Now()
	rc := r.acquire(title)
	defer func() {
		rc.release()
		if rec := recover(); rec != nil {
			err = apperrors.NewRenderError(fmt.Sprintf("%s chart panicked", kind), fmt.Errorf("%v", rec))
		}
	}()

	if err := build(rc.plot); err != nil {
		return domain.ImagePayload{}, apperrors.NewRenderError(fmt.Sprintf("build %s chart", kind), err)
	}
	if err := ctx.Err(); err != nil {
		return domain.ImagePayload{}, apperrors.NewRenderError("render cancelled", err)
	}
	payload, err =rc.encode(r.width, r.height, r.dpi)
	if err != nil {
		return domain.ImagePayload{}, apperrors.NewRenderError(fmt.Sprintf("encode %s chart", kind), err)
	}

	r.logger.DebugContext(ctx, "chart rendered",
		slog.String("chart", kind),
		slog.Int("encoded_bytes", len(payload.Base64)),
		slog.Duration("duration", time.Since(start)))
	return payload, nil
}

// dateTicks labels at most maxDateLabels of n consecutive days on a nominal axis.
func dateTicks(first civil.Date, n int) plot.ConstantTicks {
	step := int(math.Ceil(float64(n) / maxDateLabels))
	if step < 1 {
		step = 1
	}
	ticks := make(plot.ConstantTicks, 0, n)
	for i := 0; i < n; i++ {
		t := plot.Tick{Value: float64(i)}
		if i%step == 0 {
			t.Label = first.AddDays(i).In(time.UTC).Format(dateLayout)
		}
		ticks = append(ticks, t)
	}
	return ticks
}

func rotateDateLabels(p *plot.Plot) {
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
}

// dayX places a calendar day on a time axis in unix seconds.
func dayX(d civil.Date) float64 {
	return float64(d.In(time.UTC).Unix())
}
