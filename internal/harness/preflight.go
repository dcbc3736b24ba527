package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/user-form-poc/internal/fetch"
	"github.com/jonathan/user-form-poc/internal/form"
)

// MissingSelectorsError lists registry selectors absent from the form page.
type MissingSelectorsError struct {
	URL     string
	Missing []string
}

func (e *MissingSelectorsError) Error() string {
	return fmt.Sprintf("form at %s is missing %d controls: %s", e.URL, len(e.Missing), strings.Join(e.Missing, ", "))
}

// Preflight fetches the form page over HTTP and checks that every registry
// selector resolves, so a broken page fails fast instead of once per case.
func Preflight(ctx context.Context, baseURL string, reg *form.Registry) error {
	if reg == nil {
		reg = form.DefaultRegistry()
	}
	doc, err := fetch.Document(ctx, baseURL, nil)
	if err != nil {
		return fmt.Errorf("form page unavailable: %w", err)
	}
	if missing := reg.Verify(doc); len(missing) > 0 {
		return &MissingSelectorsError{URL: baseURL, Missing: missing}
	}
	return nil
}
