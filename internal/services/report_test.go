package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ayursutra/ayursutra-backend/internal/stats"
)

func newTestReportService(t *testing.T) (ReportService, string) {
	t.Helper()
	dir := t.TempDir()
	rs, err := NewReportService(testLogger(t), dir)
	if err != nil {
		t.Fatalf("NewReportService: %v", err)
	}
	return rs, dir
}

func sampleSummary() stats.Summary {
	return stats.Summary{
		DurationSeconds:   600,
		AverageConfidence: 0.85,
		FrameCount:        30,
		PoseCounts: []stats.PoseCount{
			{Pose: "Warrior", Count: 20},
			{Pose: "Tree", Count: 8},
			{Pose: "Unknown", Count: 2},
		},
	}
}

func TestGenerateWritesPDF(t *testing.T) {
	rs, _ := newTestReportService(t)
	endTime := time.Date(2026, 8, 29, 14, 30, 5, 0, time.UTC)

	path, err := rs.Generate(context.Background(), "Alice", endTime, sampleSummary())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasSuffix(path, "Alice_Report_20260829_143005.pdf") {
		t.Errorf("report path=%q, want {user}_Report_{timestamp}.pdf naming", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF") {
		t.Errorf("report does not start with a PDF header")
	}
}

func TestGenerateEmptySession(t *testing.T) {
	rs, _ := newTestReportService(t)

	path, err := rs.Generate(context.Background(), "Alice", time.Now(), stats.Summary{})
	if err != nil {
		t.Fatalf("Generate with empty summary: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("empty-session report missing: %v", err)
	}
}

func TestGenerateDistinctFilenames(t *testing.T) {
	rs, _ := newTestReportService(t)
	first := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	second := first.Add(2 * time.Second)

	pathA, err := rs.Generate(context.Background(), "Alice", first, sampleSummary())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	pathB, err := rs.Generate(context.Background(), "Alice", second, sampleSummary())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if pathA == pathB {
		t.Fatalf("two end-session calls produced the same path %q", pathA)
	}
	for _, p := range []string{pathA, pathB} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("report %q not retrievable: %v", p, err)
		}
	}
}

func TestLatestTracksLastGenerated(t *testing.T) {
	rs, _ := newTestReportService(t)
	if _, ok := rs.Latest(); ok {
		t.Fatalf("Latest reported a path before any report existed")
	}

	path, err := rs.Generate(context.Background(), "Alice", time.Now(), sampleSummary())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, ok := rs.Latest()
	if !ok || got != path {
		t.Errorf("Latest=(%q, %v), want (%q, true)", got, ok, path)
	}
}

func TestLatestLexicographicFallback(t *testing.T) {
	rs, dir := newTestReportService(t)
	for _, name := range []string{"Alice_Report_20260101_000000.pdf", "Alice_Report_20260301_000000.pdf", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	got, ok := rs.Latest()
	if !ok {
		t.Fatalf("Latest found nothing, want lexicographic fallback")
	}
	if filepath.Base(got) != "Alice_Report_20260301_000000.pdf" {
		t.Errorf("Latest=%q, want the lexicographically last pdf", got)
	}
}

func TestRecommendations(t *testing.T) {
	cases := []struct {
		name         string
		summary      stats.Summary
		wantContains []string
		wantAbsent   []string
	}{
		{
			name: "low_confidence_lighting_tip",
			summary: stats.Summary{
				AverageConfidence: 0.75,
				FrameCount:        10,
				PoseCounts:        []stats.PoseCount{{Pose: "Tree", Count: 10}},
			},
			wantContains: []string{"brighter lighting"},
			wantAbsent:   []string{"alignment"},
		},
		{
			name: "mid_confidence_alignment_tip",
			summary: stats.Summary{
				AverageConfidence: 0.85,
				FrameCount:        10,
				PoseCounts:        []stats.PoseCount{{Pose: "Tree", Count: 10}},
			},
			wantContains: []string{"alignment"},
			wantAbsent:   []string{"brighter lighting"},
		},
		{
			name: "high_confidence_no_tracking_tip",
			summary: stats.Summary{
				AverageConfidence: 0.95,
				FrameCount:        10,
				PoseCounts:        []stats.PoseCount{{Pose: "Tree", Count: 10}},
			},
			wantAbsent: []string{"brighter lighting", "alignment"},
		},
		{
			name: "longest_pose_praised",
			summary: stats.Summary{
				AverageConfidence: 0.95,
				FrameCount:        30,
				PoseCounts: []stats.PoseCount{
					{Pose: "Warrior", Count: 24},
					{Pose: "Tree", Count: 6},
				},
			},
			wantContains: []string{"Successfully held Warrior for 12.0 seconds"},
		},
		{
			name: "brief_pose_flagged",
			summary: stats.Summary{
				AverageConfidence: 0.95,
				FrameCount:        30,
				PoseCounts: []stats.PoseCount{
					{Pose: "Warrior", Count: 26},
					{Pose: "Cobra", Count: 4},
				},
			},
			wantContains: []string{"Cobra was held briefly (2.0 seconds)"},
		},
		{
			name: "unknown_only_no_praise",
			summary: stats.Summary{
				AverageConfidence: 0.95,
				FrameCount:        10,
				PoseCounts:        []stats.PoseCount{{Pose: "Unknown", Count: 10}},
			},
			wantAbsent: []string{"Successfully held"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recs := recommendations(tc.summary)
			if len(recs) == 0 {
				t.Fatalf("no recommendations produced")
			}
			joined := strings.Join(recs, "\n")
			for _, want := range tc.wantContains {
				if !strings.Contains(joined, want) {
					t.Errorf("recommendations missing %q:\n%s", want, joined)
				}
			}
			for _, absent := range tc.wantAbsent {
				if strings.Contains(joined, absent) {
					t.Errorf("recommendations unexpectedly contain %q:\n%s", absent, joined)
				}
			}
			if !strings.Contains(recs[len(recs)-1], "Progression Goal") {
				t.Errorf("last recommendation=%q, want the progression goal tip", recs[len(recs)-1])
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "Alice", want: "Alice"},
		{in: "Alice Smith", want: "Alice_Smith"},
		{in: "../etc/passwd", want: "___etc_passwd"},
		{in: "  ", want: "User"},
	}
	for _, tc := range cases {
		if got := sanitizeFilename(tc.in); got != tc.want {
			t.Errorf("sanitizeFilename(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
