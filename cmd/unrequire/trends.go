// # cmd/unrequire/trends.go
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"unrequire/internal/config"
	"unrequire/internal/history"
)

// runTrends prints the trend report built from the configured history DB.
func runTrends(cfg *config.Config, since, window string, out io.Writer) error {
	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	var from time.Time
	if since != "" {
		from, err = parseSince(since)
		if err != nil {
			return err
		}
	}

	windowDur, err := time.ParseDuration(window)
	if err != nil {
		return fmt.Errorf("invalid trends window %q: %w", window, err)
	}

	runs, err := store.ListRuns(from)
	if err != nil {
		return err
	}

	report, err := history.BuildTrendReport(runs, windowDur)
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, renderTrendTSV(report))
	return err
}

func parseSince(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q (want RFC3339 or YYYY-MM-DD)", value)
}

func renderTrendTSV(report history.TrendReport) string {
	var buf strings.Builder

	buf.WriteString("Timestamp\tCommit\tFiles\tChanged\tCallSites\tRewritten\tImports\tUnresolved\tRewritePct\tDeltaCallSites\tDeltaRewritten\tDeltaUnresolved\tAvgCallSites\tAvgUnresolved\tWindowHours\n")
	for _, point := range report.Points {
		buf.WriteString(fmt.Sprintf(
			"%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%.2f\t%d\t%d\t%d\t%.2f\t%.2f\t%.2f\n",
			point.Timestamp.Format(time.RFC3339),
			point.CommitHash,
			point.FilesScanned,
			point.FilesChanged,
			point.CallSites,
			point.CallSitesRewritten,
			point.ImportsAdded,
			point.Unresolved,
			point.RewritePct,
			point.DeltaCallSites,
			point.DeltaRewritten,
			point.DeltaUnresolved,
			point.AvgCallSites,
			point.AvgUnresolved,
			point.WindowHours,
		))
	}

	return buf.String()
}
