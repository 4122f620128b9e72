package app

import (
	"fmt"
	"image"
	"math"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"
)

const (
	dpi     float64 = 72
	hinting string  = "full"
	size    float64 = 14
	spacing float64 = 1.2
)

type Annotator struct {
	context *freetype.Context
}

func NewAnnotator(fontPath string) (*Annotator, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font: %w", err)
	}

	parsedFont, err := freetype.ParseFont(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(size)
	context.SetSrc(image.White)

	switch hinting {
	case "full":
		context.SetHinting(font.HintingFull)
	default:
		context.SetHinting(font.HintingNone)
	}

	return &Annotator{context: context}, nil
}

func (a *Annotator) Annotate(img *image.RGBA, l *chartLayout) error {
	a.context.SetClip(img.Bounds())
	a.context.SetDst(img)

	ops := []struct {
		msg string
		fn  func(*image.RGBA, *chartLayout) error
	}{
		{"drawing X scale", a.drawXScale},
		{"drawing Y scale", a.drawYScale},
		{"drawing info", a.drawInfo},
	}
	for _, op := range ops {
		if err := op.fn(img, l); err != nil {
			return fmt.Errorf("%s: %w", op.msg, err)
		}
	}

	return nil
}

func (a *Annotator) drawXScale(img *image.RGBA, l *chartLayout) error {
	start, end := l.chart.TimeRange()
	step := niceTimeStep(end.Sub(start), 8)

	for t := start.Truncate(step); !t.After(end); t = t.Add(step) {
		if t.Before(start) {
			continue
		}
		px := l.timeToX(t)

		// tick below the plot frame
		for i := 0; i < 6; i++ {
			img.Set(px, l.plot.Max.Y+i, image.White)
		}

		str := t.Format("15:04")
		if step >= 24*time.Hour {
			str = t.Format("Jan 02")
		}

		pt := freetype.Pt(px-18, l.plot.Max.Y+22)
		_, _ = a.context.DrawString(str, pt)
	}

	return nil
}

func (a *Annotator) drawYScale(img *image.RGBA, l *chartLayout) error {
	step := niceStep(l.bounds.Max-l.bounds.Min, 8)

	for v := math.Ceil(l.bounds.Min/step) * step; v <= l.bounds.Max; v += step {
		py := l.valueToY(v)

		// tick left of the plot frame
		for i := 1; i <= 6; i++ {
			img.Set(l.plot.Min.X-i, py, image.White)
		}

		str := fmt.Sprintf("%.2f", v)
		pt := freetype.Pt(8, py+5)
		_, _ = a.context.DrawString(str, pt)
	}

	return nil
}

func (a *Annotator) drawInfo(img *image.RGBA, l *chartLayout) error {
	start, end := l.chart.TimeRange()

	// positioning
	imgSize := img.Bounds().Size()
	top, left := imgSize.Y-72, marginLeft

	strings := []string{
		fmt.Sprintf("%s (%s), run %d, dataset %s", l.chart.Spec.Label, l.chart.Spec.Unit, l.run.ID, l.run.DatasetID),
		fmt.Sprintf("Bursts: %s (%s with data), %s to %s",
			humanize.Comma(int64(l.chart.Len())),
			humanize.Comma(int64(l.chart.Valid())),
			start.Format(time.DateTime),
			end.Format(time.DateTime)),
		fmt.Sprintf("Source: %s, processed %s", l.run.SourceFile, humanize.Time(l.run.StartTime)),
	}

	// drawing
	pt := freetype.Pt(left, top)
	for _, s := range strings {
		_, _ = a.context.DrawString(s, pt)
		pt.Y += a.context.PointToFixed(size * spacing)
	}

	return nil
}
