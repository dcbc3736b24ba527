// Package browsertest provides an in-memory browser.Driver for tests.
package browsertest

import (
	"context"
	"sync"
)

// Call is one recorded driver operation.
type Call struct {
	Op      string
	Control string
	Value   string
}

// Driver keeps control values and checked state in memory. Every control
// exists unless removed with Remove.
type Driver struct {
	mu      sync.Mutex
	missing map[string]bool
	values  map[string]string
	checked map[string]bool
	texts   map[string]string
	failing map[string]error
	calls   []Call

	// OnClick runs after a click is recorded, outside the driver lock.
	OnClick func(d *Driver, control string)
	// OnNavigate runs after a navigation is recorded, outside the driver lock.
	OnNavigate func(d *Driver, url string)
}

// New returns an empty driver.
func New() *Driver {
	return &Driver{
		missing: map[string]bool{},
		values:  map[string]string{},
		checked: map[string]bool{},
		texts:   map[string]string{},
		failing: map[string]error{},
	}
}

// Remove makes control unresolvable.
func (d *Driver) Remove(control string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.missing[control] = true
}

// FailOn makes every action on control return err.
func (d *Driver) FailOn(control string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failing[control] = err
}

// Value returns the last value filled or selected into control.
func (d *Driver) Value(control string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.values[control]
}

// Checked reports whether control was checked.
func (d *Driver) Checked(control string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.checked[control]
}

// SetText sets the text content returned for control.
func (d *Driver) SetText(control, text string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.texts[control] = text
}

// Reset clears all values, checks and texts, like loading a fresh page.
func (d *Driver) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.values = map[string]string{}
	d.checked = map[string]bool{}
	d.texts = map[string]string{}
}

// Calls returns a copy of the recorded operations.
func (d *Driver) Calls() []Call {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Call, len(d.calls))
	copy(out, d.calls)
	return out
}

func (d *Driver) record(ctx context.Context, op, control, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, Call{Op: op, Control: control, Value: value})
	return d.failing[control]
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if err := d.record(ctx, "navigate", url, ""); err != nil {
		return err
	}
	if d.OnNavigate != nil {
		d.OnNavigate(d, url)
	}
	return nil
}

func (d *Driver) Exists(ctx context.Context, control string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return !d.missing[control], nil
}

func (d *Driver) Fill(ctx context.Context, control, value string) error {
	if err := d.record(ctx, "fill", control, value); err != nil {
		return err
	}
	d.mu.Lock()
	d.values[control] = value
	d.mu.Unlock()
	return nil
}

func (d *Driver) Select(ctx context.Context, control, value string) error {
	if err := d.record(ctx, "select", control, value); err != nil {
		return err
	}
	d.mu.Lock()
	d.values[control] = value
	d.mu.Unlock()
	return nil
}

func (d *Driver) Check(ctx context.Context, control string) error {
	if err := d.record(ctx, "check", control, ""); err != nil {
		return err
	}
	d.mu.Lock()
	d.checked[control] = true
	d.mu.Unlock()
	return nil
}

func (d *Driver) Click(ctx context.Context, control string) error {
	if err := d.record(ctx, "click", control, ""); err != nil {
		return err
	}
	if d.OnClick != nil {
		d.OnClick(d, control)
	}
	return nil
}

func (d *Driver) TextContent(ctx context.Context, control string) (string, error) {
	if err := d.record(ctx, "text", control, ""); err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.texts[control], nil
}
