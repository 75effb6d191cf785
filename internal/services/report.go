package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/stats"
)

// ReportService renders the per-session PDF report into the reports
// directory and tracks the current download target.
type ReportService interface {
	Generate(ctx context.Context, displayName string, endTime time.Time, summary stats.Summary) (string, error)
	Latest() (string, bool)
}

type reportService struct {
	log   *logger.Logger
	dir   string
	chart *chartRenderer

	mu       sync.Mutex
	lastPath string
}

func NewReportService(log *logger.Logger, dir string) (ReportService, error) {
	serviceLog := log.With("service", "ReportService")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("Failed to create reports directory %q: %w", dir, err)
	}
	return &reportService{
		log:   serviceLog,
		dir:   dir,
		chart: newChartRenderer(log),
	}, nil
}

// Generate writes exactly one PDF per call. The timestamped filename keeps
// consecutive sessions from overwriting each other. Empty sessions still
// produce a report with a "no data" notice.
func (rs *reportService) Generate(ctx context.Context, displayName string, endTime time.Time, summary stats.Summary) (string, error) {
	timestamp := endTime.Format("20060102_150405")
	filename := fmt.Sprintf("%s_Report_%s.pdf", sanitizeFilename(displayName), timestamp)
	reportPath := filepath.Join(rs.dir, filename)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(46, 134, 171)
	pdf.CellFormat(0, 14, "A Y U R S U T R A", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "B", 15)
	pdf.SetTextColor(162, 59, 114)
	pdf.CellFormat(0, 9, "Yoga Pose Monitoring & Diagnostic Report", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	if summary.FrameCount == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(0, 7, "No pose data recorded during this session.", "", "L", false)
	} else {
		rs.writeMetricsSection(pdf, displayName, endTime, summary)
		rs.writePoseSection(pdf, summary)
		rs.writeChart(pdf, summary)
		rs.writeRecommendationSection(pdf, summary)
	}

	if err := pdf.OutputFileAndClose(reportPath); err != nil {
		return "", fmt.Errorf("Failed to write report %q: %w", reportPath, err)
	}

	rs.mu.Lock()
	rs.lastPath = reportPath
	rs.mu.Unlock()

	rs.log.Info("Report generated", "path", reportPath, "frames", summary.FrameCount)
	return reportPath, nil
}

func (rs *reportService) writeMetricsSection(pdf *fpdf.Fpdf, displayName string, endTime time.Time, summary stats.Summary) {
	writeSectionHeading(pdf, "I. Session Metrics")

	durationMinutes := summary.DurationSeconds / 60
	rows := [][4]string{
		{"Participant ID", displayName, "Date", endTime.Format("January 2, 2006")},
		{"Total Duration", fmt.Sprintf("%.2f Minutes", durationMinutes), "Time", endTime.Format("3:04 PM")},
		{"Analyzed Frames", fmt.Sprintf("%d", summary.FrameCount), "Avg Confidence", fmt.Sprintf("%.2f%%", summary.AverageConfidence*100)},
	}

	widths := [4]float64{48, 50, 40, 48}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetDrawColor(200, 200, 200)
	for _, row := range rows {
		for col, cell := range row {
			fill := col%2 == 0
			if fill {
				pdf.SetFillColor(245, 245, 245)
			}
			pdf.CellFormat(widths[col], 8, cell, "1", 0, "L", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (rs *reportService) writePoseSection(pdf *fpdf.Fpdf, summary stats.Summary) {
	writeSectionHeading(pdf, "II. Pose Duration Analysis")

	widths := [3]float64{96, 45, 45}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFillColor(46, 134, 171)
	pdf.SetDrawColor(0, 0, 0)
	headers := [3]string{"Pose Name", "Frames Detected", "Total Time (Seconds)"}
	for col, header := range headers {
		pdf.CellFormat(widths[col], 9, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(40, 40, 40)
	pdf.SetFillColor(235, 244, 250)
	for _, pc := range summary.PoseCounts {
		pdf.CellFormat(widths[0], 8, pc.Pose, "1", 0, "L", true, 0, "")
		pdf.CellFormat(widths[1], 8, fmt.Sprintf("%d", pc.Count), "1", 0, "C", true, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%.1f s", stats.EstimatedSeconds(pc.Count)), "1", 0, "C", true, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func (rs *reportService) writeChart(pdf *fpdf.Fpdf, summary stats.Summary) {
	png, err := rs.chart.Render(summary.PoseCounts)
	if err != nil {
		rs.log.Warn("Skipping pose chart", "error", err)
		return
	}
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("pose_chart", opts, bytes.NewReader(png))
	pdf.ImageOptions("pose_chart", 30, 0, 150, 0, true, opts, 0, "")
	pdf.Ln(4)
}

func (rs *reportService) writeRecommendationSection(pdf *fpdf.Fpdf, summary stats.Summary) {
	writeSectionHeading(pdf, "III. Personalized Improvement Plan")

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(40, 40, 40)
	for _, rec := range recommendations(summary) {
		pdf.MultiCell(0, 6, "- "+rec, "", "L", false)
		pdf.Ln(1)
	}
}

func writeSectionHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(162, 59, 114)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.Ln(1)
}

// recommendations applies the improvement-plan rules in fixed order.
func recommendations(summary stats.Summary) []string {
	var recs []string

	if summary.AverageConfidence < 0.80 {
		recs = append(recs, "Aim for brighter lighting and confirm your entire body is visible to improve tracking accuracy.")
	} else if summary.AverageConfidence < 0.90 {
		recs = append(recs, "Focus on fine-tuning your body's lines and alignment to achieve more precise posture confirmation.")
	}

	var (
		longestPose     string
		longestSeconds  float64
		shortestPose    string
		shortestSeconds float64
	)
	for _, pc := range summary.PoseCounts {
		if pc.Pose == "Unknown" {
			continue
		}
		seconds := stats.EstimatedSeconds(pc.Count)
		if longestPose == "" || seconds > longestSeconds {
			longestPose = pc.Pose
			longestSeconds = seconds
		}
		if seconds > 0 && seconds < 5 && (shortestPose == "" || seconds < shortestSeconds) {
			shortestPose = pc.Pose
			shortestSeconds = seconds
		}
	}
	if longestPose != "" {
		recs = append(recs, fmt.Sprintf("Successfully held %s for %.1f seconds. Maintain this dedication to duration.", longestPose, longestSeconds))
		if shortestPose != "" {
			recs = append(recs, fmt.Sprintf("%s was held briefly (%.1f seconds). Practice holding fundamental poses for 15 to 30 seconds to maximize physical benefit.", shortestPose, shortestSeconds))
		}
	}

	recs = append(recs, "Progression Goal: Concentrate on gaining more flexibility or depth in the postures where you spent the least amount of time.")
	return recs
}

// Latest resolves the current download target: the most recently generated
// report, falling back to the lexicographically last PDF on disk.
func (rs *reportService) Latest() (string, bool) {
	rs.mu.Lock()
	last := rs.lastPath
	rs.mu.Unlock()

	if last != "" {
		if _, err := os.Stat(last); err == nil {
			return last, true
		}
	}

	entries, err := os.ReadDir(rs.dir)
	if err != nil {
		rs.log.Warn("Could not read reports directory", "dir", rs.dir, "error", err)
		return "", false
	}
	var latest string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		// os.ReadDir returns entries sorted by filename.
		latest = entry.Name()
	}
	if latest == "" {
		return "", false
	}

	latestPath := filepath.Join(rs.dir, latest)
	rs.mu.Lock()
	rs.lastPath = latestPath
	rs.mu.Unlock()
	return latestPath, true
}

func sanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))
	if sanitized == "" {
		return "User"
	}
	return sanitized
}
