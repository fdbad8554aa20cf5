package event

import "time"

// UpsertError is a per-record store failure captured during a bulk upsert.
type UpsertError struct {
	IdentityKey string `json:"identity_key"`
	Err         string `json:"error"`
}

// UpsertResult reports what a bulk upsert did. Per-record failures land in
// Errors; they never abort the batch.
type UpsertResult struct {
	Inserted int           `json:"inserted"`
	Updated  int           `json:"updated"`
	Errors   []UpsertError `json:"errors,omitempty"`
}

// RunSummary is the sole user-visible outcome of one city run.
type RunSummary struct {
	City       string         `json:"city"`
	Sources    int            `json:"sources"`
	Extracted  int            `json:"extracted"`
	Normalized int            `json:"normalized"`
	Rejected   map[Reason]int `json:"rejected,omitempty"`
	Deduped    int            `json:"deduped"`
	Inserted   int            `json:"inserted"`
	Updated    int            `json:"updated"`
	Errored    int            `json:"errored"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
}

// RejectedTotal sums the per-reason rejection counts.
func (s *RunSummary) RejectedTotal() int {
	total := 0
	for _, n := range s.Rejected {
		total += n
	}
	return total
}
