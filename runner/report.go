package runner

import (
	"sync"

	"github.com/tarancss/bridgebot/lib/block/types"
	"github.com/tarancss/bridgebot/pipeline"
)

// Skip is an account the runner did not run the pipeline for.
type Skip struct {
	Address string `json:"address"`
	Kind    string `json:"kind"`
	Error   string `json:"error"`
}

// Report collects the results of a run. It is safe for concurrent use.
type Report struct {
	mu       sync.RWMutex
	outcomes []pipeline.Outcome
	skipped  []Skip
}

// Add appends the outcome of one account.
func (r *Report) Add(o pipeline.Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

// Skip records an account skipped because of err.
func (r *Report) Skip(address string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, Skip{Address: address, Kind: types.Kind(err), Error: err.Error()})
}

// Outcomes returns a copy of the outcomes recorded so far.
func (r *Report) Outcomes() []pipeline.Outcome {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]pipeline.Outcome(nil), r.outcomes...)
}

// Skipped returns a copy of the accounts skipped so far.
func (r *Report) Skipped() []Skip {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Skip(nil), r.skipped...)
}
