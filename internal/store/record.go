package store

import "time"

// Status describes where a clip sits in the analysis lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

// Terminal reports whether the status can only change via an explicit retry.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusError
}

// Record is one clip's persisted analysis state, keyed by identity.
type Record struct {
	Identity     string
	Path         string
	Kind         string
	Status       Status
	ResultJSON   string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Health summarizes record counts per lifecycle status.
type Health struct {
	Total     int64
	Pending   int64
	Analyzing int64
	Ready     int64
	Errored   int64
}
