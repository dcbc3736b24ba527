package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/chromedp/chromedp"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// Supported engine names.
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// Session is an isolated browser owned by exactly one test case.
type Session struct {
	ID     string
	Driver Driver

	closeOnce sync.Once
	closeErr  error
	closeFn   func() error
}

// NewSession wraps driver. closeFn runs once, on the first Close.
func NewSession(id string, driver Driver, closeFn func() error) *Session {
	return &Session{ID: id, Driver: driver, closeFn: closeFn}
}

// Close releases the session. Further calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.closeFn != nil {
			s.closeErr = s.closeFn()
		}
	})
	return s.closeErr
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (*Session, error)
}

// LaunchOptions configures ChromeLauncher.
type LaunchOptions struct {
	Engine   string
	Headless bool
	// ExecPath overrides the Chrome binary lookup.
	ExecPath     string
	WindowWidth  int
	WindowHeight int
}

// DefaultLaunchOptions returns headless chromium options.
func DefaultLaunchOptions() LaunchOptions {
	return LaunchOptions{
		Engine:       EngineChromium,
		Headless:     true,
		WindowWidth:  1280,
		WindowHeight: 900,
	}
}

// NewSessionID returns a short random identifier for log correlation.
func NewSessionID() string {
	id, err := gonanoid.New(10)
	if err != nil {
		return "session"
	}
	return id
}

// ChromeLauncher starts a dedicated Chromium process per session so that no
// two sessions share cookies, storage or a profile directory.
type ChromeLauncher struct {
	opts   LaunchOptions
	logger *zap.Logger
}

// NewChromeLauncher creates a launcher. A nil logger disables logging.
func NewChromeLauncher(opts LaunchOptions, logger *zap.Logger) *ChromeLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChromeLauncher{opts: opts, logger: logger}
}

func (l *ChromeLauncher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", l.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if l.opts.WindowWidth > 0 && l.opts.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(l.opts.WindowWidth, l.opts.WindowHeight))
	}
	if l.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.opts.ExecPath))
	}
	return opts
}

// Launch starts a browser and returns a session driving it. The browser is
// torn down when ctx is cancelled or the session is closed.
func (l *ChromeLauncher) Launch(ctx context.Context) (*Session, error) {
	engine := strings.ToLower(strings.TrimSpace(l.opts.Engine))
	if engine != "" && engine != EngineChromium {
		return nil, &UnsupportedEngineError{Engine: l.opts.Engine}
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	id := NewSessionID()
	l.logger.Debug("browser session started", zap.String("session", id), zap.Bool("headless", l.opts.Headless))

	closeFn := func() error {
		err := chromedp.Cancel(browserCtx)
		cancelBrowser()
		cancelAlloc()
		l.logger.Debug("browser session closed", zap.String("session", id))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return NewSession(id, NewChromeDriver(browserCtx), closeFn), nil
}
