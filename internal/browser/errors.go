package browser

import (
	"fmt"
	"time"
)

// ElementNotFoundError is returned when a control selector matches nothing.
type ElementNotFoundError struct {
	Control string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.Control)
}

// ActionTimeoutError is returned when the UI does not finish an action within
// the action timeout.
type ActionTimeoutError struct {
	Control string
	Action  Action
	Timeout time.Duration
	Cause   error
}

func (e *ActionTimeoutError) Error() string {
	return fmt.Sprintf("%s on %s did not complete within %v", e.Action, e.Control, e.Timeout)
}

func (e *ActionTimeoutError) Unwrap() error {
	return e.Cause
}

// UnsupportedEngineError is returned by a launcher asked for an engine it
// cannot drive.
type UnsupportedEngineError struct {
	Engine string
}

func (e *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("browser engine %q is not supported by the chromedp driver", e.Engine)
}
