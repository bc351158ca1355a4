package batch

import (
	"math"
	"time"
)

// summarize reduces a settled outcome sequence into the batch summary.
// Average duration covers successful outcomes only; rates round to whole
// percentages. An empty batch summarizes to all zeros.
func summarize(outcomes []Outcome, elapsed time.Duration) Summary {
	summary := Summary{
		TotalProcessed: uint(len(outcomes)),
		Results:        outcomes,
		TotalTimeMs:    uint64(elapsed.Milliseconds()),
	}
	if summary.Results == nil {
		summary.Results = []Outcome{}
	}

	var durationTotal uint64
	for _, outcome := range outcomes {
		if outcome.OK() {
			summary.Successful++
			durationTotal += outcome.DurationMs
		} else {
			summary.Failed++
		}
	}

	if summary.Successful > 0 {
		summary.AverageTimeMs = uint64(math.Round(float64(durationTotal) / float64(summary.Successful)))
	}
	if summary.TotalProcessed > 0 {
		summary.SuccessRate = roundPercent(int(summary.Successful), int(summary.TotalProcessed))
	}

	return summary
}

func roundPercent(part, whole int) uint {
	if whole <= 0 {
		return 0
	}
	return uint(math.Round(float64(part) / float64(whole) * 100))
}
