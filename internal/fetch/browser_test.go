package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderOptions(t *testing.T) {
	opts := DefaultRenderOptions()
	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 500*time.Millisecond, opts.Settle)
	assert.Empty(t, opts.ExecPath)
}

func TestRenderedDocument_ScriptBuiltControls(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	if _, err := exec.LookPath("google-chrome"); err != nil {
		if _, err := exec.LookPath("chromium"); err != nil {
			t.Skipf("Skipping: Chrome not available: %v", err)
		}
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><form id="f"></form>
<script>document.getElementById("f").innerHTML = '<input id="name">';</script>
</body></html>`))
	}))
	defer server.Close()

	plain, err := Document(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, plain.Find("#name").Length())

	rendered, err := RenderedDocument(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, rendered.Find("#name").Length())
}
