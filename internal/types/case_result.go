package types

import "time"

// CaseStatus classifies the result of one matrix case.
type CaseStatus string

const (
	// StatusPassed means the displayed message matched the expectation.
	StatusPassed CaseStatus = "passed"
	// StatusMismatch means the form displayed a different message.
	StatusMismatch CaseStatus = "mismatch"
	// StatusInfraFailure means the case could not be driven to a message.
	StatusInfraFailure CaseStatus = "infra_failure"
)

// CaseResult is the reportable outcome of one matrix case.
type CaseResult struct {
	Name      string        `json:"name"`
	Status    CaseStatus    `json:"status"`
	Expected  string        `json:"expected"`
	Actual    string        `json:"actual"`
	Attempts  int           `json:"attempts"`
	SessionID string        `json:"session_id,omitempty"`
	Duration  time.Duration `json:"duration"`
	Error     string        `json:"error,omitempty"`
}

// Passed reports whether the case passed.
func (r CaseResult) Passed() bool {
	return r.Status == StatusPassed
}
