package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/chromedp/chromedp"
)

// ChromeDriver implements Driver over a chromedp browser context.
type ChromeDriver struct {
	ctx context.Context
}

// NewChromeDriver wraps a context returned by chromedp.NewContext.
func NewChromeDriver(browserCtx context.Context) *ChromeDriver {
	return &ChromeDriver{ctx: browserCtx}
}

// run executes actions on the browser context while honouring the deadline
// and cancellation of the caller's ctx.
func (d *ChromeDriver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(d.ctx)
	defer cancel()
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		defer cancelDeadline()
	}
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	return err
}

func (d *ChromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (d *ChromeDriver) Exists(ctx context.Context, control string) (bool, error) {
	var found bool
	err := d.run(ctx, chromedp.Evaluate(fmt.Sprintf(`document.querySelector(%s) !== null`, jsString(control)), &found))
	return found, err
}

func (d *ChromeDriver) Fill(ctx context.Context, control, value string) error {
	return d.run(ctx,
		chromedp.SetValue(control, value, chromedp.ByQuery),
		chromedp.Evaluate(dispatchScript(control), nil),
	)
}

func (d *ChromeDriver) Select(ctx context.Context, control, value string) error {
	return d.Fill(ctx, control, value)
}

// Check clicks control only if it is not already checked.
func (d *ChromeDriver) Check(ctx context.Context, control string) error {
	var checked bool
	if err := d.run(ctx, chromedp.JavascriptAttribute(control, "checked", &checked, chromedp.ByQuery)); err != nil {
		return err
	}
	if checked {
		return nil
	}
	return d.Click(ctx, control)
}

func (d *ChromeDriver) Click(ctx context.Context, control string) error {
	return d.run(ctx, chromedp.Click(control, chromedp.ByQuery, chromedp.NodeVisible))
}

func (d *ChromeDriver) TextContent(ctx context.Context, control string) (string, error) {
	var text string
	err := d.run(ctx, chromedp.TextContent(control, &text, chromedp.ByQuery))
	return text, err
}

func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func dispatchScript(control string) string {
	return fmt.Sprintf(`(() => {
	const el = document.querySelector(%s);
	if (!el) return;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
})()`, jsString(control))
}
