package watchdog

// PassResult is the verdict of one reconciliation pass.
type PassResult struct {
	// Healthy is false when any outcome is StartFailed or UnknownState.
	// Missing or inaccessible services do not flip it.
	Healthy  bool
	Outcomes []Outcome
}

// Aggregate folds outcomes into a PassResult.
func Aggregate(outcomes []Outcome) PassResult {
	res := PassResult{Healthy: true, Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Unhealthy() {
			res.Healthy = false
		}
	}
	return res
}

// Counts tallies outcomes by kind.
func (r PassResult) Counts() map[Kind]int {
	m := make(map[Kind]int)
	for _, o := range r.Outcomes {
		m[o.Kind]++
	}
	return m
}

// Failed returns the outcomes that made the pass unhealthy.
func (r PassResult) Failed() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Unhealthy() {
			out = append(out, o)
		}
	}
	return out
}
