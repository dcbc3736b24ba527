package browser

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_CloseIsIdempotent(t *testing.T) {
	closes := 0
	s := NewSession("abc", newFakeDriver(), func() error {
		closes++
		return errors.New("first")
	})

	assert.EqualError(t, s.Close(), "first")
	assert.EqualError(t, s.Close(), "first")
	assert.Equal(t, 1, closes)
}

func TestSession_NilCloseFn(t *testing.T) {
	assert.NoError(t, NewSession("x", nil, nil).Close())
}

func TestNewSessionID(t *testing.T) {
	a, b := NewSessionID(), NewSessionID()
	assert.Len(t, a, 10)
	assert.NotEqual(t, a, b)
}

func TestChromeLauncher_UnsupportedEngines(t *testing.T) {
	for _, engine := range []string{EngineFirefox, EngineWebKit, "netscape"} {
		t.Run(engine, func(t *testing.T) {
			opts := DefaultLaunchOptions()
			opts.Engine = engine
			s, err := NewChromeLauncher(opts, nil).Launch(context.Background())

			assert.Nil(t, s)
			var unsupported *UnsupportedEngineError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, engine, unsupported.Engine)
		})
	}
}

func TestChromeLauncher_AllocatorOptions(t *testing.T) {
	opts := DefaultLaunchOptions()
	opts.ExecPath = "/opt/chrome"
	l := NewChromeLauncher(opts, nil)

	// defaults plus headless, gpu, sandbox, shm, window size and exec path
	assert.Len(t, l.allocatorOptions(), len(chromedp.DefaultExecAllocatorOptions)+6)

	opts.WindowWidth = 0
	opts.ExecPath = ""
	assert.Len(t, NewChromeLauncher(opts, nil).allocatorOptions(), len(chromedp.DefaultExecAllocatorOptions)+4)
}

func TestChromeLauncher_Launch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser launch in short mode")
	}
	if _, err := exec.LookPath("google-chrome"); err != nil {
		if _, err := exec.LookPath("chromium"); err != nil {
			t.Skipf("Skipping: Chrome not available: %v", err)
		}
	}

	s, err := NewChromeLauncher(DefaultLaunchOptions(), nil).Launch(context.Background())
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	assert.Len(t, s.ID, 10)
	require.NoError(t, s.Driver.Navigate(context.Background(), "data:text/html,<p id=m>hola</p>"))
	text, err := s.Driver.TextContent(context.Background(), "#m")
	require.NoError(t, err)
	assert.Equal(t, "hola", text)
}
