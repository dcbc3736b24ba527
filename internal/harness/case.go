// Package harness runs tables of form cases end to end: each case fills the
// form in its own browser session, submits it and compares the displayed
// message with the expected one.
package harness

import (
	"fmt"

	"github.com/jonathan/user-form-poc/internal/types"
)

// Case is one row of a test matrix.
type Case struct {
	Name   string
	Record types.FormRecord
	Expect types.MessageKind
}

// Override replaces one field of a base record.
type Override struct {
	Field types.Field
	Value string
}

// NewCase builds a case from base with overrides applied in order.
func NewCase(name string, base types.FormRecord, expect types.MessageKind, overrides ...Override) (Case, error) {
	record := base.Clone()
	for _, o := range overrides {
		var err error
		record, err = record.With(o.Field, o.Value)
		if err != nil {
			return Case{}, fmt.Errorf("case %q: %w", name, err)
		}
	}
	return Case{Name: name, Record: record, Expect: expect}, nil
}

func mustCase(name string, base types.FormRecord, expect types.MessageKind, overrides ...Override) Case {
	c, err := NewCase(name, base, expect, overrides...)
	if err != nil {
		panic(err)
	}
	return c
}

// Result is the outcome of running one case.
type Result struct {
	types.CaseResult
	Case Case
	// Err is the last infrastructure error, nil unless Status is
	// StatusInfraFailure.
	Err error
}

// Summarize returns the reportable part of every result.
func Summarize(results []Result) []types.CaseResult {
	out := make([]types.CaseResult, len(results))
	for i, r := range results {
		out[i] = r.CaseResult
	}
	return out
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed() {
			return false
		}
	}
	return true
}
