package app

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/font"

	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/storage"
)

const (
	chartWidth = 900

	titleBand    = 44
	channelRow   = 36
	timelineBand = 140
	bottomBand   = 24
	leftMargin   = 150
	rightMargin  = 90

	dpi      = 72.0
	fontSize = 14.0
)

var (
	backgroundColor = color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}
	gridColor       = color.RGBA{R: 0x3a, G: 0x3a, B: 0x52, A: 0xff}
	timelineColor   = color.RGBA{R: 0x00, G: 0xd4, B: 0xff, A: 0xff}

	categoryColors = map[string]color.RGBA{
		"lorawan":    {R: 0x4c, G: 0xaf, B: 0x50, A: 0xff},
		"meshtastic": {R: 0xff, G: 0x98, B: 0x00, A: 0xff},
		"sidewalk":   {R: 0x00, G: 0xbc, B: 0xd4, A: 0xff},
	}
)

// ChartRenderer draws a per-channel detection breakdown and an activity
// timeline for one device. Text labels are drawn only when a font file was
// supplied.
type ChartRenderer struct {
	context *freetype.Context
}

// NewChartRenderer creates a renderer, loading the label font from fontFile
// when one is given.
func NewChartRenderer(fontFile string) (*ChartRenderer, error) {
	if fontFile == "" {
		return &ChartRenderer{}, nil
	}

	data, err := os.ReadFile(fontFile)
	if err != nil {
		return nil, fmt.Errorf("reading font file: %w", err)
	}

	parsedFont, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(dpi)
	context.SetFont(parsedFont)
	context.SetFontSize(fontSize)
	context.SetSrc(image.White)
	context.SetHinting(font.HintingFull)

	return &ChartRenderer{context: context}, nil
}

// Render draws the chart for the given uploads, which must be ordered by
// reception time.
func (r *ChartRenderer) Render(deviceID string, days int, records []*storage.UploadRecord) (*image.RGBA, error) {
	height := titleBand + scan.NumChannels*channelRow + timelineBand + bottomBand
	img := image.NewRGBA(image.Rect(0, 0, chartWidth, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: backgroundColor}, image.Point{}, draw.Src)

	latest := records[len(records)-1]
	r.drawChannelBars(img, latest)
	r.drawTimeline(img, records)

	if r.context != nil {
		if err := r.annotate(img, deviceID, days, latest); err != nil {
			return nil, err
		}
	}

	return img, nil
}

func (r *ChartRenderer) drawChannelBars(img *image.RGBA, latest *storage.UploadRecord) {
	maxDetections := 1
	for _, n := range latest.FreqDetections {
		if n > maxDetections {
			maxDetections = n
		}
	}

	barSpan := chartWidth - leftMargin - rightMargin
	for _, ch := range scan.Channels() {
		top := titleBand + ch.Index*channelRow
		fill(img, leftMargin, top+channelRow-1, barSpan, 1, gridColor)

		barColor, ok := categoryColors[ch.Category]
		if !ok {
			barColor = timelineColor
		}

		length := latest.FreqDetections[ch.Index] * barSpan / maxDetections
		fill(img, leftMargin, top+8, length, channelRow-16, barColor)
	}
}

func (r *ChartRenderer) drawTimeline(img *image.RGBA, records []*storage.UploadRecord) {
	top := titleBand + scan.NumChannels*channelRow
	span := chartWidth - leftMargin - rightMargin

	fill(img, leftMargin, top, span, 1, gridColor)
	fill(img, leftMargin, top+timelineBand-1, span, 1, gridColor)

	// One column per x pixel, sampled from the upload nearest to it.
	for x := 0; x < span; x++ {
		idx := x * (len(records) - 1) / max(span-1, 1)
		pct := records[idx].CurrentActivityPct
		h := pct * (timelineBand - 2) / 100
		fill(img, leftMargin+x, top+timelineBand-1-h, 1, h, timelineColor)
	}
}

func (r *ChartRenderer) annotate(img *image.RGBA, deviceID string, days int, latest *storage.UploadRecord) error {
	r.context.SetClip(img.Bounds())
	r.context.SetDst(img)

	title := fmt.Sprintf("%s - last %d days - %s detections",
		deviceID, days, humanize.Comma(int64(latest.TotalDetections)))
	if err := r.drawText(title, leftMargin, 28); err != nil {
		return err
	}

	for _, ch := range scan.Channels() {
		top := titleBand + ch.Index*channelRow
		label := fmt.Sprintf("%.1f MHz", ch.CenterMHz)
		if err := r.drawText(label, 16, top+(channelRow+int(fontSize))/2); err != nil {
			return err
		}

		count := humanize.Comma(int64(latest.FreqDetections[ch.Index]))
		if err := r.drawText(count, chartWidth-rightMargin+8, top+(channelRow+int(fontSize))/2); err != nil {
			return err
		}
	}

	timelineTop := titleBand + scan.NumChannels*channelRow
	return r.drawText("activity %", 16, timelineTop+timelineBand/2)
}

func (r *ChartRenderer) drawText(text string, x, y int) error {
	if _, err := r.context.DrawString(text, freetype.Pt(x, y)); err != nil {
		return fmt.Errorf("drawing label: %w", err)
	}
	return nil
}

func fill(img *image.RGBA, x, y, w, h int, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	draw.Draw(img, image.Rect(x, y, x+w, y+h), &image.Uniform{C: c}, image.Point{}, draw.Src)
}
