package services

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/ayursutra/ayursutra-backend/internal/stats"
)

func TestChartRenderProducesPNG(t *testing.T) {
	cr := newChartRenderer(testLogger(t))
	data, err := cr.Render([]stats.PoseCount{
		{Pose: "Warrior", Count: 12},
		{Pose: "Tree", Count: 5},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != chartWidth || bounds.Dy() != chartHeight {
		t.Errorf("chart size=%dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), chartWidth, chartHeight)
	}
}

func TestChartRenderEmptyCounts(t *testing.T) {
	cr := newChartRenderer(testLogger(t))
	if _, err := cr.Render(nil); err == nil {
		t.Fatalf("Render(nil) returned nil error, want failure")
	}
}
