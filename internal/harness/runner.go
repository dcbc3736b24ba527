package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/user-form-poc/internal/browser"
	"github.com/jonathan/user-form-poc/internal/config"
	"github.com/jonathan/user-form-poc/internal/form"
	"github.com/jonathan/user-form-poc/internal/types"
)

// DefaultBackoff is the wait before the first retry; it doubles per attempt.
const DefaultBackoff = time.Second

// LaunchError wraps a failure to start a browser session.
type LaunchError struct {
	Cause error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to launch browser session: %v", e.Cause)
}

func (e *LaunchError) Unwrap() error {
	return e.Cause
}

// Retryable reports whether err is an infrastructure failure worth another
// attempt in a fresh session. Message mismatches never reach here.
func Retryable(err error) bool {
	var (
		notFound    *browser.ElementNotFoundError
		timeout     *browser.ActionTimeoutError
		unsupported *browser.UnsupportedEngineError
		launch      *LaunchError
	)
	switch {
	case errors.As(err, &unsupported):
		return false
	case errors.As(err, &notFound), errors.As(err, &timeout), errors.As(err, &launch):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// Options configures a Runner.
type Options struct {
	Launcher    browser.Launcher
	BaseURL     string
	Registry    *form.Registry
	Policy      browser.WaitPolicy
	Parallelism int
	Retries     int
	CaseTimeout time.Duration
	Backoff     time.Duration
	Logger      *zap.Logger
}

// DefaultOptions returns sensible defaults; Launcher must still be set.
func DefaultOptions() Options {
	return Options{
		BaseURL:     config.DefaultBaseURL,
		Registry:    form.DefaultRegistry(),
		Policy:      browser.DefaultWaitPolicy(),
		Parallelism: config.DefaultParallelism,
		Retries:     config.DefaultRetries,
		CaseTimeout: time.Duration(config.DefaultCaseTimeoutMS) * time.Millisecond,
		Backoff:     DefaultBackoff,
	}
}

// OptionsFromConfig maps a resolved configuration onto runner options.
func OptionsFromConfig(cfg config.Config, launcher browser.Launcher, logger *zap.Logger) Options {
	opts := DefaultOptions()
	opts.Launcher = launcher
	opts.BaseURL = cfg.BaseURL
	opts.Policy = browser.WaitPolicy{Settle: cfg.Settle(), ActionTimeout: cfg.ActionTimeout()}
	opts.Parallelism = cfg.Parallelism
	opts.Retries = cfg.Retries
	opts.CaseTimeout = cfg.CaseTimeout()
	opts.Logger = logger
	return opts
}

// LaunchOptionsFromConfig maps a resolved configuration onto browser launch
// options.
func LaunchOptionsFromConfig(cfg config.Config) browser.LaunchOptions {
	opts := browser.DefaultLaunchOptions()
	opts.Engine = cfg.Browser
	opts.Headless = cfg.IsHeadless()
	opts.ExecPath = cfg.ChromePath
	return opts
}

// Runner executes cases, each in its own session.
type Runner struct {
	opts   Options
	logger *zap.Logger
}

// NewRunner validates opts and creates a runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Launcher == nil {
		return nil, fmt.Errorf("runner requires a launcher")
	}
	if opts.Registry == nil {
		opts.Registry = form.DefaultRegistry()
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.CaseTimeout <= 0 {
		opts.CaseTimeout = time.Duration(config.DefaultCaseTimeoutMS) * time.Millisecond
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{opts: opts, logger: logger}, nil
}

// Run executes every case and returns results in case order. Cases run
// concurrently up to the configured parallelism; a failing case never stops
// the others. The error is non-nil only when ctx ends before all cases ran.
func (r *Runner) Run(ctx context.Context, cases []Case) ([]Result, error) {
	results := make([]Result, len(cases))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Parallelism)
	for i, c := range cases {
		g.Go(func() error {
			results[i] = r.runCase(gCtx, c)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, fmt.Errorf("matrix run interrupted: %w", err)
	}
	return results, nil
}

func (r *Runner) runCase(ctx context.Context, c Case) Result {
	start := time.Now()
	res := Result{
		Case: c,
		CaseResult: types.CaseResult{
			Name:     c.Name,
			Expected: c.Expect.Text(),
		},
	}
	logger := r.logger.With(zap.String("case", c.Name))

	for attempt := 1; ; attempt++ {
		res.Attempts = attempt
		actual, sessionID, err := r.attempt(ctx, c, logger.With(zap.Int("attempt", attempt)))
		res.SessionID = sessionID

		if err == nil {
			res.Actual = actual
			res.Err = nil
			res.Error = ""
			if actual == res.Expected {
				res.Status = types.StatusPassed
			} else {
				res.Status = types.StatusMismatch
				logger.Info("message mismatch",
					zap.String("expected", res.Expected),
					zap.String("actual", actual),
					zap.String("session", sessionID))
			}
			break
		}

		res.Status = types.StatusInfraFailure
		res.Err = err
		res.Error = err.Error()

		if attempt > r.opts.Retries || !Retryable(err) || ctx.Err() != nil {
			logger.Warn("case failed", zap.Error(err), zap.String("session", sessionID))
			break
		}

		delay := r.opts.Backoff << (attempt - 1)
		logger.Warn("retrying case in a fresh session",
			zap.Error(err),
			zap.String("session", sessionID),
			zap.Duration("backoff", delay))
		if !sleep(ctx, delay) {
			break
		}
	}

	res.Duration = time.Since(start)
	return res
}

// attempt drives one case in a new session and returns the displayed message.
func (r *Runner) attempt(ctx context.Context, c Case, logger *zap.Logger) (string, string, error) {
	caseCtx, cancel := context.WithTimeout(ctx, r.opts.CaseTimeout)
	defer cancel()

	session, err := r.opts.Launcher.Launch(caseCtx)
	if err != nil {
		var unsupported *browser.UnsupportedEngineError
		if errors.As(err, &unsupported) {
			return "", "", err
		}
		return "", "", &LaunchError{Cause: err}
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logger.Warn("failed to close session", zap.String("session", session.ID), zap.Error(cerr))
		}
	}()

	logger = logger.With(zap.String("session", session.ID))
	ui := browser.NewInteractor(session.Driver, r.opts.Policy, logger)
	page := form.NewPage(ui, r.opts.Registry, r.opts.BaseURL)

	if err := page.Navigate(caseCtx); err != nil {
		return "", session.ID, err
	}
	if err := page.FillAll(caseCtx, c.Record); err != nil {
		return "", session.ID, err
	}
	if err := page.Submit(caseCtx); err != nil {
		return "", session.ID, err
	}
	msg, err := page.ReadMessage(caseCtx)
	if err != nil {
		return "", session.ID, err
	}
	logger.Debug("case finished", zap.String("message", msg))
	return msg, session.ID, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
