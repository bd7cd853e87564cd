package history

import (
	"fmt"
	"math"
	"time"
)

// BuildTrendReport turns chronological runs into per-run trend points with
// deltas against the previous run and moving averages over the window.
func BuildTrendReport(runs []Run, window time.Duration) (TrendReport, error) {
	if len(runs) == 0 {
		return TrendReport{}, fmt.Errorf("no runs available")
	}

	points := make([]TrendPoint, 0, len(runs))
	for i, current := range runs {
		point := TrendPoint{
			Timestamp:          current.Timestamp,
			CommitHash:         current.CommitHash,
			FilesScanned:       current.FilesScanned,
			FilesChanged:       current.FilesChanged,
			CallSites:          current.CallSites,
			CallSitesRewritten: current.CallSitesRewritten,
			ImportsAdded:       current.ImportsAdded,
			Unresolved:         current.Unresolved,
		}

		if current.CallSites > 0 {
			point.RewritePct = round2(float64(current.CallSitesRewritten) / float64(current.CallSites) * 100)
		}

		if i > 0 {
			prev := runs[i-1]
			point.DeltaCallSites = current.CallSites - prev.CallSites
			point.DeltaRewritten = current.CallSitesRewritten - prev.CallSitesRewritten
			point.DeltaUnresolved = current.Unresolved - prev.Unresolved
		}

		avgCallSites, avgUnresolved := movingAverages(runs, i, window)
		point.AvgCallSites = round2(avgCallSites)
		point.AvgUnresolved = round2(avgUnresolved)
		point.WindowHours = round2(window.Hours())
		points = append(points, point)
	}

	return TrendReport{
		SchemaVersion: SchemaVersion,
		Since:         runs[0].Timestamp,
		Until:         runs[len(runs)-1].Timestamp,
		Window:        window.String(),
		RunCount:      len(points),
		Points:        points,
	}, nil
}

func movingAverages(runs []Run, index int, window time.Duration) (float64, float64) {
	if window <= 0 {
		return float64(runs[index].CallSites), float64(runs[index].Unresolved)
	}

	cutoff := runs[index].Timestamp.Add(-window)
	var callSitesTotal int
	var unresolvedTotal int
	count := 0
	for i := index; i >= 0; i-- {
		if runs[i].Timestamp.Before(cutoff) {
			break
		}
		callSitesTotal += runs[i].CallSites
		unresolvedTotal += runs[i].Unresolved
		count++
	}
	if count == 0 {
		return 0, 0
	}
	return float64(callSitesTotal) / float64(count), float64(unresolvedTotal) / float64(count)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
