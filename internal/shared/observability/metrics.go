package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unrequire_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	TransformDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unrequire_transform_seconds",
		Help:    "Time spent transforming a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesProcessedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unrequire_files_processed_total",
		Help: "Total number of source files processed.",
	})

	FilesChangedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unrequire_files_changed_total",
		Help: "Total number of source files whose output differed from the input.",
	})

	CallSitesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unrequire_call_sites_total",
		Help: "Total number of require call sites seen, by replacement action.",
	}, []string{"action"})

	ImportsEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unrequire_imports_emitted_total",
		Help: "Total number of import statements emitted, by import form.",
	}, []string{"form"})

	UnresolvedSpecifiersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unrequire_unresolved_specifiers_total",
		Help: "Total number of require calls with a non-static specifier argument.",
	})

	ExportScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unrequire_export_scans_total",
		Help: "Total number of module export scans, by cache outcome.",
	}, []string{"outcome"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unrequire_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
