package harness

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonathan/user-form-poc/internal/browser"
	"github.com/jonathan/user-form-poc/internal/browser/browsertest"
	"github.com/jonathan/user-form-poc/internal/form"
	"github.com/jonathan/user-form-poc/internal/submission"
	"github.com/jonathan/user-form-poc/internal/types"
)

// simLauncher hands out in-memory sessions whose submit button runs the real
// validation and submission pipeline.
type simLauncher struct {
	reg        *form.Registry
	controller *submission.Controller

	// failFirst makes the first n launches fail.
	failFirst int
	// block makes Launch wait for ctx to end.
	block bool
	// prepare adjusts every new driver.
	prepare func(d *browsertest.Driver)

	mu        sync.Mutex
	launched  int
	closed    int
	active    int
	maxActive int
}

func newSimLauncher() *simLauncher {
	return &simLauncher{
		reg:        form.DefaultRegistry(),
		controller: submission.NewController(submission.NewMockBackend(0), nil),
	}
}

func (l *simLauncher) Launch(ctx context.Context) (*browser.Session, error) {
	l.mu.Lock()
	l.launched++
	n := l.launched
	l.mu.Unlock()

	if l.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if n <= l.failFirst {
		return nil, errors.New("browser crashed on startup")
	}

	d := browsertest.New()
	d.OnNavigate = func(d *browsertest.Driver, _ string) { d.Reset() }
	d.OnClick = func(d *browsertest.Driver, control string) {
		if control != l.reg.Submit() {
			return
		}
		result := l.controller.Handle(context.Background(), snapshot(d, l.reg))
		d.SetText(l.reg.Message(), result.Message)
	}
	if l.prepare != nil {
		l.prepare(d)
	}

	l.mu.Lock()
	l.active++
	l.maxActive = max(l.maxActive, l.active)
	l.mu.Unlock()

	// hold the session briefly so parallel cases overlap
	time.Sleep(time.Millisecond)

	return browser.NewSession(browser.NewSessionID(), d, func() error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.closed++
		l.active--
		return nil
	}), nil
}

func (l *simLauncher) counts() (launched, closed, maxActive int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launched, l.closed, l.maxActive
}

// snapshot reads the form state the way the server reads a posted form.
func snapshot(d *browsertest.Driver, reg *form.Registry) types.FormRecord {
	value := func(f types.Field) string {
		sel, _ := reg.Control(f)
		return d.Value(sel)
	}
	checked := func(f types.Field) bool {
		sel, _ := reg.Control(f)
		return d.Checked(sel)
	}
	group := func(f types.Field) []string {
		res, _ := reg.Group(f)
		var out []string
		for _, opt := range res.Options() {
			if d.Checked(reg.Option(f, opt.Value)) {
				out = append(out, opt.Value)
			}
		}
		return out
	}
	first := func(vs []string) string {
		if len(vs) == 0 {
			return ""
		}
		return vs[0]
	}

	return types.FormRecord{
		Name:                value(types.FieldName),
		Email:               value(types.FieldEmail),
		Age:                 value(types.FieldAge),
		Phone:               value(types.FieldPhone),
		Address:             value(types.FieldAddress),
		Country:             value(types.FieldCountry),
		Gender:              first(group(types.FieldGender)),
		BirthDate:           value(types.FieldBirthDate),
		Company:             value(types.FieldCompany),
		Position:            value(types.FieldPosition),
		Experience:          value(types.FieldExperience),
		Languages:           group(types.FieldLanguages),
		Salary:              value(types.FieldSalary),
		Availability:        value(types.FieldAvailability),
		ContractType:        first(group(types.FieldContractType)),
		Bio:                 value(types.FieldBio),
		Skills:              value(types.FieldSkills),
		AcceptTerms:         checked(types.FieldAcceptTerms),
		SubscribeNewsletter: checked(types.FieldSubscribeNewsletter),
	}
}

func testOptions(l browser.Launcher) Options {
	opts := DefaultOptions()
	opts.Launcher = l
	opts.Policy = browser.WaitPolicy{Settle: 0, ActionTimeout: time.Second}
	opts.Backoff = time.Millisecond
	opts.CaseTimeout = 5 * time.Second
	return opts
}
