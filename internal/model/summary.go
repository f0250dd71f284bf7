package model

import "time"

// EntityResult records the outcome of one entity's extract→clean→load run.
type EntityResult struct {
	Entity       string
	RowsRead     int64
	RowsLoaded   int64
	Duration     time.Duration
	Err          error // non-nil when this entity's run was halted
}

// RunSummary aggregates a full pipeline run. Entities that loaded before a
// later entity failed stay loaded; the summary reports both sides rather
// than hiding the partial success.
type RunSummary struct {
	RunID           string
	Entities        []EntityResult
	FeatureRows     int64
	ReadmissionRows int64
	DurationTotal   time.Duration
}

// Failed returns the results for entities whose run was halted.
func (s *RunSummary) Failed() []EntityResult {
	var out []EntityResult
	for _, r := range s.Entities {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}

// Loaded returns the total rows loaded across all successful entities.
func (s *RunSummary) Loaded() int64 {
	var n int64
	for _, r := range s.Entities {
		if r.Err == nil {
			n += r.RowsLoaded
		}
	}
	return n
}
