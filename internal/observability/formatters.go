// Package observability provides logging setup and formatted report output
// for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/user-form-poc/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for reports
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4)))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad right-pads by rune count; %-*s pads by bytes and misaligns accents.
func pad(s string) string {
	n := boxWidth - 4 - utf8.RuneCountInString(s)
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

// PrintRunReport outputs a summary of a matrix run followed by the details of
// every case that did not pass.
func (p *Printer) PrintRunReport(results []types.CaseResult, elapsed time.Duration) {
	var passed, mismatched, infra int
	for _, r := range results {
		switch r.Status {
		case types.StatusPassed:
			passed++
		case types.StatusMismatch:
			mismatched++
		case types.StatusInfraFailure:
			infra++
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Cases:     %d\n", len(results)))
	sb.WriteString(fmt.Sprintf("Passed:    %d\n", passed))
	sb.WriteString(fmt.Sprintf("Mismatch:  %d\n", mismatched))
	sb.WriteString(fmt.Sprintf("Infra:     %d\n", infra))
	sb.WriteString(fmt.Sprintf("Elapsed:   %s\n", elapsed.Round(time.Millisecond)))
	sb.WriteString("\n")
	for _, r := range results {
		mark := "✓"
		if !r.Passed() {
			mark = "✗"
		}
		sb.WriteString(fmt.Sprintf("%s %s\n", mark, r.Name))
	}
	p.printBox("TEST MATRIX REPORT", strings.TrimSuffix(sb.String(), "\n"))

	var failures []types.CaseResult
	for _, r := range results {
		if !r.Passed() {
			failures = append(failures, r)
		}
	}
	if len(failures) > 0 {
		p.PrintFailures(failures)
	}
}

// PrintFailures outputs expected and actual messages of failed cases.
func (p *Printer) PrintFailures(failures []types.CaseResult) {
	if len(failures) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(failures), maxItemsToShow)
	for i := 0; i < count; i++ {
		f := failures[i]
		sb.WriteString(fmt.Sprintf("⚠ %s [%s]\n", f.Name, f.Status))
		sb.WriteString(fmt.Sprintf("  expected: %s\n", f.Expected))
		if f.Status == types.StatusInfraFailure {
			sb.WriteString(fmt.Sprintf("  error:    %s\n", f.Error))
		} else {
			sb.WriteString(fmt.Sprintf("  actual:   %s\n", f.Actual))
		}
		sb.WriteString(fmt.Sprintf("  attempts: %d  session: %s\n", f.Attempts, f.SessionID))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(failures) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more failures", len(failures)-maxItemsToShow))
	}

	p.printBox("FAILED CASES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOutcome outputs the validation outcome for a record.
func (p *Printer) PrintOutcome(label string, outcome types.Outcome) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Record:   %s\n", label))
	sb.WriteString(fmt.Sprintf("Outcome:  %s\n", outcome))
	if msg := outcome.Message(); msg != "" {
		sb.WriteString(fmt.Sprintf("Message:  %s", msg))
	}
	p.printBox("VALIDATION OUTCOME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSelectorCheck outputs the selectors missing from a page.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintSelectorCheck(url string, total int, missing []string) {
	if len(missing) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %s │\n", pad(fmt.Sprintf("✅ ALL %d SELECTORS RESOLVED", total)))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Page: %s\n", url))
	sb.WriteString(fmt.Sprintf("Missing %d of %d selectors:\n\n", len(missing), total))
	for _, sel := range missing {
		sb.WriteString(fmt.Sprintf("• %s\n", sel))
	}
	p.printBox("UNRESOLVED SELECTORS", strings.TrimSuffix(sb.String(), "\n"))
}
