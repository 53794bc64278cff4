package charts

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	chartWidth  = 900
	chartHeight = 480

	marginLeft   = 70.0
	marginRight  = 30.0
	marginTop    = 50.0
	marginBottom = 60.0
)

var (
	colorBackground = color.RGBA{250, 250, 252, 255}
	colorAxis       = color.RGBA{120, 120, 130, 255}
	colorGrid       = color.RGBA{225, 225, 232, 255}
	colorText       = color.RGBA{60, 60, 70, 255}

	colorPrimary   = color.RGBA{46, 134, 222, 255}
	colorSecondary = color.RGBA{38, 166, 91, 255}
	colorAccent    = color.RGBA{235, 149, 50, 255}
	colorHighlight = color.RGBA{214, 69, 65, 255}

	palette = []color.RGBA{
		{46, 134, 222, 255},
		{38, 166, 91, 255},
		{235, 149, 50, 255},
		{142, 68, 173, 255},
		{214, 69, 65, 255},
		{24, 188, 156, 255},
		{241, 196, 15, 255},
		{52, 73, 94, 255},
		{230, 126, 34, 255},
		{127, 140, 141, 255},
	}
)

// canvas wraps a gg context with the shared plot geometry.
type canvas struct {
	dc *gg.Context

	plotX, plotY float64
	plotW, plotH float64
}

func newCanvas(title string) *canvas {
	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetFontFace(basicfont.Face7x13)

	dc.SetColor(colorBackground)
	dc.Clear()

	dc.SetColor(colorText)
	dc.DrawStringAnchored(title, chartWidth/2, marginTop/2, 0.5, 0.5)

	return &canvas{
		dc:    dc,
		plotX: marginLeft,
		plotY: marginTop,
		plotW: chartWidth - marginLeft - marginRight,
		plotH: chartHeight - marginTop - marginBottom,
	}
}

// x maps index i of n points onto the plot width.
func (c *canvas) x(i, n int) float64 {
	if n <= 1 {
		return c.plotX + c.plotW/2
	}
	return c.plotX + c.plotW*float64(i)/float64(n-1)
}

// y maps a value onto the plot height, 0 at the bottom.
func (c *canvas) y(v, max float64) float64 {
	if max <= 0 {
		return c.plotY + c.plotH
	}
	return c.plotY + c.plotH*(1-v/max)
}

// drawAxes renders the frame, horizontal gridlines and y tick labels.
func (c *canvas) drawAxes(maxVal float64, unit string) {
	const ticks = 5

	c.dc.SetColor(colorGrid)
	c.dc.SetLineWidth(1)
	for i := 1; i <= ticks; i++ {
		y := c.y(maxVal*float64(i)/ticks, maxVal)
		c.dc.DrawLine(c.plotX, y, c.plotX+c.plotW, y)
		c.dc.Stroke()
	}

	c.dc.SetColor(colorAxis)
	c.dc.DrawLine(c.plotX, c.plotY, c.plotX, c.plotY+c.plotH)
	c.dc.DrawLine(c.plotX, c.plotY+c.plotH, c.plotX+c.plotW, c.plotY+c.plotH)
	c.dc.Stroke()

	c.dc.SetColor(colorText)
	for i := 0; i <= ticks; i++ {
		v := maxVal * float64(i) / ticks
		c.dc.DrawStringAnchored(formatTick(v, unit), c.plotX-8, c.y(v, maxVal), 1, 0.5)
	}
}

func formatTick(v float64, unit string) string {
	if v >= 100 {
		return fmt.Sprintf("%.0f%s", v, unit)
	}
	return fmt.Sprintf("%.1f%s", v, unit)
}

// drawXLabels thins labels so at most maxLabels fit.
func (c *canvas) drawXLabels(labels []string, maxLabels int) {
	step := 1
	if len(labels) > maxLabels {
		step = (len(labels) + maxLabels - 1) / maxLabels
	}
	c.dc.SetColor(colorText)
	for i := 0; i < len(labels); i += step {
		c.dc.DrawStringAnchored(labels[i], c.x(i, len(labels)), c.plotY+c.plotH+16, 0.5, 0.5)
	}
}

// line plots values as a polyline, optionally filling the area underneath.
func (c *canvas) line(values []float64, max float64, col color.RGBA, fill bool) {
	if len(values) == 0 {
		return
	}

	if fill {
		c.dc.MoveTo(c.x(0, len(values)), c.plotY+c.plotH)
		for i, v := range values {
			c.dc.LineTo(c.x(i, len(values)), c.y(v, max))
		}
		c.dc.LineTo(c.x(len(values)-1, len(values)), c.plotY+c.plotH)
		c.dc.ClosePath()
		c.dc.SetRGBA255(int(col.R), int(col.G), int(col.B), 50)
		c.dc.Fill()
	}

	c.dc.SetColor(col)
	c.dc.SetLineWidth(2)
	for i, v := range values {
		if i == 0 {
			c.dc.MoveTo(c.x(i, len(values)), c.y(v, max))
		} else {
			c.dc.LineTo(c.x(i, len(values)), c.y(v, max))
		}
	}
	c.dc.Stroke()

	for i, v := range values {
		c.dc.DrawCircle(c.x(i, len(values)), c.y(v, max), 3)
		c.dc.Fill()
	}
}

// bars draws vertical bars, one per value; pick chooses the bar color.
func (c *canvas) bars(values []float64, max float64, pick func(i int) color.RGBA) {
	n := len(values)
	if n == 0 {
		return
	}
	slot := c.plotW / float64(n)
	barW := slot * 0.7

	for i, v := range values {
		x := c.plotX + slot*float64(i) + (slot-barW)/2
		y := c.y(v, max)
		c.dc.SetColor(pick(i))
		c.dc.DrawRectangle(x, y, barW, c.plotY+c.plotH-y)
		c.dc.Fill()
	}
}

// barX centers a label under bar i when bars (not line geometry) were drawn.
func (c *canvas) barX(i, n int) float64 {
	slot := c.plotW / float64(n)
	return c.plotX + slot*float64(i) + slot/2
}

func (c *canvas) encodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func maxOf(values []float64) float64 {
	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max == 0 {
		return 1
	}
	// Round up to a tidy tick boundary.
	magnitude := math.Pow(10, math.Floor(math.Log10(max)))
	return math.Ceil(max/magnitude*2) / 2 * magnitude
}
