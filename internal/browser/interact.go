// Package browser drives the UI the way a person would: one action at a time,
// each followed by a settle interval so scripts triggered by the action finish
// before the next one starts.
package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultSettle is the pause after every action.
const DefaultSettle = 500 * time.Millisecond

// DefaultActionTimeout bounds a single action.
const DefaultActionTimeout = 10 * time.Second

// Action is a single UI operation.
type Action int

// Supported actions.
const (
	ActionFill Action = iota
	ActionSelect
	ActionCheck
	ActionClick
)

func (a Action) String() string {
	switch a {
	case ActionFill:
		return "fill"
	case ActionSelect:
		return "select"
	case ActionCheck:
		return "check"
	case ActionClick:
		return "click"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Driver performs raw UI operations on controls addressed by CSS selector.
// Implementations do not wait after actions; Interactor owns the timing.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Exists(ctx context.Context, control string) (bool, error)
	Fill(ctx context.Context, control, value string) error
	Select(ctx context.Context, control, value string) error
	Check(ctx context.Context, control string) error
	Click(ctx context.Context, control string) error
	TextContent(ctx context.Context, control string) (string, error)
}

// WaitPolicy is the interaction contract: how long to settle after an action
// and how long an action may take.
type WaitPolicy struct {
	Settle        time.Duration
	ActionTimeout time.Duration

	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultWaitPolicy returns the standard 500ms settle policy.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		Settle:        DefaultSettle,
		ActionTimeout: DefaultActionTimeout,
	}
}

func (p WaitPolicy) actionTimeout() time.Duration {
	if p.ActionTimeout <= 0 {
		return DefaultActionTimeout
	}
	return p.ActionTimeout
}

func (p WaitPolicy) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type performSettings struct {
	settle time.Duration
}

// PerformOption adjusts a single Perform call.
type PerformOption func(*performSettings)

// WithSettle overrides the settle interval for one call.
func WithSettle(d time.Duration) PerformOption {
	return func(s *performSettings) {
		s.settle = d
	}
}

// Interactor is the interaction primitive used by every page operation.
type Interactor struct {
	driver Driver
	policy WaitPolicy
	logger *zap.Logger
}

// NewInteractor wraps a driver with a wait policy. A nil logger disables logging.
func NewInteractor(driver Driver, policy WaitPolicy, logger *zap.Logger) *Interactor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interactor{driver: driver, policy: policy, logger: logger}
}

// Policy returns the interactor's wait policy.
func (i *Interactor) Policy() WaitPolicy {
	return i.policy
}

// Perform resolves control, runs action on it and then blocks for the settle
// interval. value is ignored by check and click.
func (i *Interactor) Perform(ctx context.Context, control string, action Action, value string, opts ...PerformOption) error {
	settings := performSettings{settle: i.policy.Settle}
	for _, opt := range opts {
		opt(&settings)
	}

	timeout := i.policy.actionTimeout()
	actionCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := i.resolve(actionCtx, ctx, control, action, timeout); err != nil {
		return err
	}

	var err error
	switch action {
	case ActionFill:
		err = i.driver.Fill(actionCtx, control, value)
	case ActionSelect:
		err = i.driver.Select(actionCtx, control, value)
	case ActionCheck:
		err = i.driver.Check(actionCtx, control)
	case ActionClick:
		err = i.driver.Click(actionCtx, control)
	default:
		return fmt.Errorf("unsupported action %s", action)
	}
	if err != nil {
		return i.classify(ctx, control, action, timeout, err)
	}

	i.logger.Debug("ui action",
		zap.Stringer("action", action),
		zap.String("control", control),
		zap.Duration("settle", settings.settle),
	)
	return i.policy.wait(ctx, settings.settle)
}

// Read returns the text content of control. Reading does not settle.
func (i *Interactor) Read(ctx context.Context, control string) (string, error) {
	timeout := i.policy.actionTimeout()
	readCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := i.resolve(readCtx, ctx, control, ActionClick, timeout); err != nil {
		return "", err
	}
	text, err := i.driver.TextContent(readCtx, control)
	if err != nil {
		return "", i.classify(ctx, control, ActionClick, timeout, err)
	}
	return text, nil
}

// Navigate loads url and waits for the document to be ready.
func (i *Interactor) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, i.policy.actionTimeout())
	defer cancel()
	if err := i.driver.Navigate(navCtx, url); err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return &ActionTimeoutError{Control: url, Action: ActionClick, Timeout: i.policy.actionTimeout(), Cause: err}
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	i.logger.Debug("navigated", zap.String("url", url))
	return nil
}

func (i *Interactor) resolve(actionCtx, parent context.Context, control string, action Action, timeout time.Duration) error {
	found, err := i.driver.Exists(actionCtx, control)
	if err != nil {
		return i.classify(parent, control, action, timeout, err)
	}
	if !found {
		return &ElementNotFoundError{Control: control}
	}
	return nil
}

// classify turns an expired action deadline into ActionTimeoutError. A caller
// cancellation is returned as is.
func (i *Interactor) classify(parent context.Context, control string, action Action, timeout time.Duration, err error) error {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		return &ActionTimeoutError{Control: control, Action: action, Timeout: timeout, Cause: err}
	}
	return fmt.Errorf("%s %s: %w", action, control, err)
}
