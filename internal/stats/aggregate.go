package stats

import (
	"sort"

	"github.com/ayursutra/ayursutra-backend/internal/types"
)

// SecondsPerFrame converts detected frame counts into estimated hold time.
// The client samples at roughly two frames per second.
const SecondsPerFrame = 0.5

const (
	pointsBaseFactor = 10
	maxPoints        = 99
)

type PoseCount struct {
	Pose  string
	Count int
}

// Summary holds the derived statistics for one completed session.
// PoseCounts is ordered by descending count, ties by first occurrence.
type Summary struct {
	DurationSeconds   float64
	AverageConfidence float64
	FrameCount        int
	PoseCounts        []PoseCount
}

// Aggregate computes a Summary from an ordered event sequence. It is a pure
// function: the same input always yields the same output.
func Aggregate(events []types.PoseEvent) Summary {
	summary := Summary{FrameCount: len(events)}
	if len(events) == 0 {
		return summary
	}

	if len(events) > 1 {
		summary.DurationSeconds = events[len(events)-1].Timestamp - events[0].Timestamp
	}

	var confidenceSum float64
	counts := make(map[string]int, len(events))
	order := make([]string, 0, len(events))
	for _, ev := range events {
		confidenceSum += ev.Confidence
		if _, seen := counts[ev.Pose]; !seen {
			order = append(order, ev.Pose)
		}
		counts[ev.Pose]++
	}
	summary.AverageConfidence = confidenceSum / float64(len(events))

	summary.PoseCounts = make([]PoseCount, 0, len(order))
	for _, pose := range order {
		summary.PoseCounts = append(summary.PoseCounts, PoseCount{Pose: pose, Count: counts[pose]})
	}
	sort.SliceStable(summary.PoseCounts, func(i, j int) bool {
		return summary.PoseCounts[i].Count > summary.PoseCounts[j].Count
	})

	return summary
}

// EstimatedSeconds converts a frame count into an estimated hold duration.
func EstimatedSeconds(count int) float64 {
	return float64(count) * SecondsPerFrame
}

// ComputePoints scores a session from its average confidence and duration.
// Durations are clamped to >= 0 before conversion to minutes. The awarded
// value is clamped to [0, 99]; capped reports whether the raw score reached
// the 100-point limit.
func ComputePoints(avgConfidence, durationSeconds float64) (int, bool) {
	durationMinutes := durationSeconds / 60
	if durationMinutes < 0 {
		durationMinutes = 0
	}
	points := int(avgConfidence * durationMinutes * pointsBaseFactor)
	if points >= maxPoints+1 {
		return maxPoints, true
	}
	if points < 0 {
		return 0, false
	}
	return points, false
}
