package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"github.com/joffreyp/buoywave/internal/storage"
)

const (
	marginLeft   = 80
	marginRight  = 25
	marginTop    = 30
	marginBottom = 110
)

var (
	backgroundColor = color.RGBA{R: 16, G: 20, B: 28, A: 255}
	frameColor      = color.RGBA{R: 120, G: 128, B: 140, A: 255}
	gridColor       = color.RGBA{R: 44, G: 50, B: 60, A: 255}
	seriesColor     = color.RGBA{R: 80, G: 200, B: 255, A: 255}
	markerColor     = color.RGBA{R: 255, G: 196, B: 64, A: 255}
)

// chartLayout bundles everything the annotator needs to label a rendered
// chart.
type chartLayout struct {
	chart  *ChartData
	run    *storage.Run
	plot   image.Rectangle
	bounds ValueBounds
}

// Renderer draws a wave statistics time series into an RGBA image.
type Renderer struct {
	width     int
	height    int
	annotator *Annotator
}

func NewRenderer(width, height int, annotator *Annotator) *Renderer {
	return &Renderer{width: width, height: height, annotator: annotator}
}

// Render draws the chart: frame and grid, the statistic polyline with
// per-burst markers, and the annotation layer.
func (r *Renderer) Render(chart *ChartData, run *storage.Run) (*image.RGBA, error) {
	if chart.Len() == 0 {
		return nil, fmt.Errorf("no records to plot")
	}

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, draw.Src)

	plot := image.Rect(marginLeft, marginTop, r.width-marginRight, r.height-marginBottom)
	layout := &chartLayout{
		chart:  chart,
		run:    run,
		plot:   plot,
		bounds: chart.Bounds(),
	}

	r.drawGrid(img, layout)
	r.drawFrame(img, plot)
	r.drawSeries(img, layout)

	if err := r.annotator.Annotate(img, layout); err != nil {
		return nil, fmt.Errorf("annotating chart: %w", err)
	}
	return img, nil
}

func (r *Renderer) drawFrame(img *image.RGBA, plot image.Rectangle) {
	for x := plot.Min.X; x <= plot.Max.X; x++ {
		img.Set(x, plot.Min.Y, frameColor)
		img.Set(x, plot.Max.Y, frameColor)
	}
	for y := plot.Min.Y; y <= plot.Max.Y; y++ {
		img.Set(plot.Min.X, y, frameColor)
		img.Set(plot.Max.X, y, frameColor)
	}
}

func (r *Renderer) drawGrid(img *image.RGBA, l *chartLayout) {
	step := niceStep(l.bounds.Max-l.bounds.Min, 8)
	for v := math.Ceil(l.bounds.Min/step) * step; v <= l.bounds.Max; v += step {
		y := l.valueToY(v)
		for x := l.plot.Min.X; x <= l.plot.Max.X; x++ {
			img.Set(x, y, gridColor)
		}
	}

	start, end := l.chart.TimeRange()
	tstep := niceTimeStep(end.Sub(start), 8)
	for t := start.Truncate(tstep); !t.After(end); t = t.Add(tstep) {
		if t.Before(start) {
			continue
		}
		x := l.timeToX(t)
		for y := l.plot.Min.Y; y <= l.plot.Max.Y; y++ {
			img.Set(x, y, gridColor)
		}
	}
}

func (r *Renderer) drawSeries(img *image.RGBA, l *chartLayout) {
	havePrev := false
	var prevX, prevY int

	for i, v := range l.chart.Values {
		if math.IsNaN(v) {
			havePrev = false
			continue
		}

		x := l.timeToX(l.chart.Times[i])
		y := l.valueToY(v)

		if havePrev {
			drawLine(img, prevX, prevY, x, y, seriesColor)
		}
		drawMarker(img, x, y, markerColor)

		prevX, prevY = x, y
		havePrev = true
	}
}

func (l *chartLayout) timeToX(t time.Time) int {
	start, end := l.chart.TimeRange()
	span := end.Sub(start).Seconds()
	if span == 0 {
		return (l.plot.Min.X + l.plot.Max.X) / 2
	}
	frac := t.Sub(start).Seconds() / span
	return l.plot.Min.X + int(frac*float64(l.plot.Dx()))
}

func (l *chartLayout) valueToY(v float64) int {
	span := l.bounds.Max - l.bounds.Min
	frac := (v - l.bounds.Min) / span
	return l.plot.Max.Y - int(frac*float64(l.plot.Dy()))
}

func drawMarker(img *image.RGBA, x, y int, c color.Color) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			img.Set(x+dx, y+dy, c)
		}
	}
}

// drawLine rasterizes a segment with the integer Bresenham walk.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, c color.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)

	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}

	err := dx + dy
	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// niceStep picks a 1-2-5 scaled tick step producing at most maxTicks ticks.
func niceStep(span float64, maxTicks int) float64 {
	if span <= 0 {
		return 1
	}

	raw := span / float64(maxTicks)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))

	switch {
	case raw/mag <= 1:
		return mag
	case raw/mag <= 2:
		return 2 * mag
	case raw/mag <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

var timeSteps = []time.Duration{
	time.Minute, 5 * time.Minute, 15 * time.Minute, 30 * time.Minute,
	time.Hour, 3 * time.Hour, 6 * time.Hour, 12 * time.Hour,
	24 * time.Hour, 7 * 24 * time.Hour,
}

func niceTimeStep(span time.Duration, maxTicks int) time.Duration {
	for _, step := range timeSteps {
		if span/step <= time.Duration(maxTicks) {
			return step
		}
	}
	return timeSteps[len(timeSteps)-1]
}
