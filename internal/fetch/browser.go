package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// RenderOptions configures a headless render.
type RenderOptions struct {
	Timeout time.Duration
	// Settle is how long to wait after the body is ready, giving page scripts
	// time to build their controls.
	Settle   time.Duration
	ExecPath string
}

// DefaultRenderOptions returns the defaults used when opts is nil.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Timeout: 30 * time.Second,
		Settle:  500 * time.Millisecond,
	}
}

// Rendered loads urlStr in headless Chrome and returns the page HTML after
// scripts have run. Use it for pages whose controls are built client side,
// where a plain HTTP fetch would miss them. Requires Chrome or Chromium.
func Rendered(ctx context.Context, urlStr string, opts *RenderOptions) (string, error) {
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(urlStr),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	return html, nil
}

// RenderedDocument renders urlStr and parses the result.
func RenderedDocument(ctx context.Context, urlStr string, opts *RenderOptions) (*goquery.Document, error) {
	html, err := Rendered(ctx, urlStr, opts)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page: %w", err)
	}
	return doc, nil
}
