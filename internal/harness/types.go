package harness

// CheckOutcome is the outcome of one check of a scenario.
type CheckOutcome struct {
	Index int    `json:"index"`
	Type  string `json:"type"`
	Table string `json:"table"`
	Pass  bool   `json:"pass"`

	// Message is the rendered failure. Empty if Pass is true.
	Message string `json:"message,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// RunID identifies this execution.
	RunID string `json:"run_id"`

	// Scenario is the name of the executed scenario.
	Scenario string `json:"scenario"`

	// Pass indicates overall success.
	// True if every check passed.
	Pass bool `json:"pass"`

	// Checks holds one outcome per check, in scenario order.
	Checks []CheckOutcome `json:"checks"`

	// Errors contains one line per failed check.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult(runID, scenario string) *Result {
	return &Result{
		RunID:    runID,
		Scenario: scenario,
		Pass:     true,
		Checks:   []CheckOutcome{},
		Errors:   []string{},
	}
}

// AddOutcome records the outcome of a check and marks the result as failed
// when the check failed.
func (r *Result) AddOutcome(o CheckOutcome) {
	r.Checks = append(r.Checks, o)
	if !o.Pass {
		r.AddError(o.Index, o.Type, o.Message)
	}
}

// AddError adds a failure line and marks the result as failed.
func (r *Result) AddError(index int, checkType, message string) {
	r.Errors = append(r.Errors, fmtError(index, checkType, message))
	r.Pass = false
}

// Failed returns the outcomes of the failed checks.
func (r *Result) Failed() []CheckOutcome {
	var failed []CheckOutcome
	for _, o := range r.Checks {
		if !o.Pass {
			failed = append(failed, o)
		}
	}
	return failed
}
