package history

import "time"

const SchemaVersion = 1

// Run records the outcome of one conversion pass over the configured paths.
type Run struct {
	ID                 string    `json:"id"`
	SchemaVersion      int       `json:"schema_version"`
	Timestamp          time.Time `json:"timestamp"`
	CommitHash         string    `json:"commit_hash,omitempty"`
	CommitTimestamp    time.Time `json:"commit_timestamp,omitempty"`
	Mode               string    `json:"mode"`
	FilesScanned       int       `json:"files_scanned"`
	FilesChanged       int       `json:"files_changed"`
	CallSites          int       `json:"call_sites"`
	CallSitesRewritten int       `json:"call_sites_rewritten"`
	ImportsAdded       int       `json:"imports_added"`
	Unresolved         int       `json:"unresolved"`
}

type TrendPoint struct {
	Timestamp          time.Time `json:"timestamp"`
	CommitHash         string    `json:"commit_hash,omitempty"`
	FilesScanned       int       `json:"files_scanned"`
	FilesChanged       int       `json:"files_changed"`
	CallSites          int       `json:"call_sites"`
	CallSitesRewritten int       `json:"call_sites_rewritten"`
	ImportsAdded       int       `json:"imports_added"`
	Unresolved         int       `json:"unresolved"`
	DeltaCallSites     int       `json:"delta_call_sites"`
	DeltaRewritten     int       `json:"delta_rewritten"`
	DeltaUnresolved    int       `json:"delta_unresolved"`
	RewritePct         float64   `json:"rewrite_pct"`
	AvgCallSites       float64   `json:"avg_call_sites"`
	AvgUnresolved      float64   `json:"avg_unresolved"`
	WindowHours        float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	RunCount      int          `json:"run_count"`
	Points        []TrendPoint `json:"points"`
}
