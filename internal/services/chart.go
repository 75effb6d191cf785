package services

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/stats"
)

const (
	chartWidth   = 640
	chartHeight  = 240
	chartMaxBars = 10
)

type chartRenderer struct {
	log  *logger.Logger
	face font.Face
}

// newChartRenderer prepares the pose-frequency chart. REPORT_FONT may point
// at a TTF for nicer labels; without it the built-in bitmap face is used.
func newChartRenderer(log *logger.Logger) *chartRenderer {
	rendererLog := log.With("service", "ChartRenderer")

	face := font.Face(basicfont.Face7x13)
	fontPath := strings.TrimSpace(os.Getenv("REPORT_FONT"))
	if fontPath != "" {
		loaded, err := loadFontFace(fontPath, 13)
		if err != nil {
			rendererLog.Warn("Could not load report font, using built-in face", "font", fontPath, "error", err)
		} else {
			rendererLog.Info("Loaded report font", "font", fontPath)
			face = loaded
		}
	}

	return &chartRenderer{log: rendererLog, face: face}
}

func loadFontFace(path string, points float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(data)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}

// Render draws a horizontal bar per pose, most frequent first, and returns
// the encoded PNG.
func (cr *chartRenderer) Render(counts []stats.PoseCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, fmt.Errorf("no pose counts to chart")
	}
	bars := counts
	if len(bars) > chartMaxBars {
		bars = bars[:chartMaxBars]
	}
	maxCount := bars[0].Count
	for _, pc := range bars {
		if pc.Count > maxCount {
			maxCount = pc.Count
		}
	}
	if maxCount == 0 {
		return nil, fmt.Errorf("pose counts are all zero")
	}

	dc := gg.NewContext(chartWidth, chartHeight)
	dc.SetFontFace(cr.face)
	dc.SetRGB255(255, 255, 255)
	dc.Clear()

	const (
		labelWidth = 150.0
		rightPad   = 60.0
		topPad     = 12.0
	)
	plotWidth := float64(chartWidth) - labelWidth - rightPad
	rowHeight := (float64(chartHeight) - 2*topPad) / float64(len(bars))
	barHeight := rowHeight * 0.6

	for i, pc := range bars {
		y := topPad + float64(i)*rowHeight
		barWidth := plotWidth * float64(pc.Count) / float64(maxCount)

		dc.SetRGB255(46, 134, 171)
		dc.DrawRectangle(labelWidth, y+(rowHeight-barHeight)/2, barWidth, barHeight)
		dc.Fill()

		dc.SetRGB255(40, 40, 40)
		dc.DrawStringAnchored(pc.Pose, labelWidth-8, y+rowHeight/2, 1, 0.35)
		dc.DrawStringAnchored(fmt.Sprintf("%d", pc.Count), labelWidth+barWidth+6, y+rowHeight/2, 0, 0.35)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode chart png: %w", err)
	}
	return buf.Bytes(), nil
}
