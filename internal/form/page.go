package form

import (
	"context"
	"strings"

	"github.com/jonathan/user-form-poc/internal/browser"
	"github.com/jonathan/user-form-poc/internal/types"
)

// Page is the page object for the user form. Each operation is exactly one
// interaction (or none, for option values that resolve to nothing). Page
// never retries; errors from the interactor are returned unchanged.
type Page struct {
	ui      *browser.Interactor
	reg     *Registry
	baseURL string
}

// NewPage creates a page object. A nil registry uses DefaultRegistry.
func NewPage(ui *browser.Interactor, reg *Registry, baseURL string) *Page {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Page{ui: ui, reg: reg, baseURL: baseURL}
}

// Navigate opens the form.
func (p *Page) Navigate(ctx context.Context) error {
	return p.ui.Navigate(ctx, p.baseURL)
}

// SetName types v into the name field.
func (p *Page) SetName(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldName, v)
}

// SetEmail types v into the email field.
func (p *Page) SetEmail(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldEmail, v)
}

// SetAge types v into the age field.
func (p *Page) SetAge(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldAge, v)
}

// SetPhone types v into the phone field.
func (p *Page) SetPhone(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldPhone, v)
}

// SetAddress types v into the address field.
func (p *Page) SetAddress(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldAddress, v)
}

// SelectCountry picks the country option with value v.
func (p *Page) SelectCountry(ctx context.Context, v string) error {
	return p.selectValue(ctx, types.FieldCountry, v)
}

// SetBirthDate types v into the birth date field.
func (p *Page) SetBirthDate(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldBirthDate, v)
}

// SelectGender checks the radio for v. Unknown values select nothing.
func (p *Page) SelectGender(ctx context.Context, v string) error {
	return p.checkOption(ctx, types.FieldGender, v)
}

// SetCompany types v into the company field.
func (p *Page) SetCompany(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldCompany, v)
}

// SetPosition types v into the position field.
func (p *Page) SetPosition(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldPosition, v)
}

// SetExperience types v into the years of experience field.
func (p *Page) SetExperience(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldExperience, v)
}

// SelectLanguage checks one language box. Unknown values select nothing.
func (p *Page) SelectLanguage(ctx context.Context, v string) error {
	return p.checkOption(ctx, types.FieldLanguages, v)
}

// SetSalary types v into the salary field.
func (p *Page) SetSalary(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldSalary, v)
}

// SelectAvailability picks the availability option with value v.
func (p *Page) SelectAvailability(ctx context.Context, v string) error {
	return p.selectValue(ctx, types.FieldAvailability, v)
}

// SelectContractType checks the radio for v. Unknown values select nothing.
func (p *Page) SelectContractType(ctx context.Context, v string) error {
	return p.checkOption(ctx, types.FieldContractType, v)
}

// SetBio types v into the bio textarea.
func (p *Page) SetBio(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldBio, v)
}

// SetSkills types v into the skills field.
func (p *Page) SetSkills(ctx context.Context, v string) error {
	return p.fill(ctx, types.FieldSkills, v)
}

// CheckTerms checks the terms and conditions box.
func (p *Page) CheckTerms(ctx context.Context) error {
	return p.check(ctx, types.FieldAcceptTerms)
}

// CheckNewsletter checks the newsletter box.
func (p *Page) CheckNewsletter(ctx context.Context) error {
	return p.check(ctx, types.FieldSubscribeNewsletter)
}

// Submit clicks the submit button.
func (p *Page) Submit(ctx context.Context) error {
	return p.ui.Perform(ctx, p.reg.Submit(), browser.ActionClick, "")
}

// ReadMessage returns the text of the message region, "" when empty.
func (p *Page) ReadMessage(ctx context.Context) (string, error) {
	text, err := p.ui.Read(ctx, p.reg.Message())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// FillAll fills every field of r in form order. Terms and newsletter are only
// checked when set. FillAll does not submit.
func (p *Page) FillAll(ctx context.Context, r types.FormRecord) error {
	steps := []func(context.Context) error{
		func(ctx context.Context) error { return p.SetName(ctx, r.Name) },
		func(ctx context.Context) error { return p.SetEmail(ctx, r.Email) },
		func(ctx context.Context) error { return p.SetAge(ctx, r.Age) },
		func(ctx context.Context) error { return p.SetPhone(ctx, r.Phone) },
		func(ctx context.Context) error { return p.SetAddress(ctx, r.Address) },
		func(ctx context.Context) error { return p.SelectCountry(ctx, r.Country) },
		func(ctx context.Context) error { return p.SelectGender(ctx, r.Gender) },
		func(ctx context.Context) error { return p.SetBirthDate(ctx, r.BirthDate) },
		func(ctx context.Context) error { return p.SetCompany(ctx, r.Company) },
		func(ctx context.Context) error { return p.SetPosition(ctx, r.Position) },
		func(ctx context.Context) error { return p.SetExperience(ctx, r.Experience) },
		func(ctx context.Context) error {
			for _, lang := range r.Languages {
				if err := p.SelectLanguage(ctx, lang); err != nil {
					return err
				}
			}
			return nil
		},
		func(ctx context.Context) error { return p.SetSalary(ctx, r.Salary) },
		func(ctx context.Context) error { return p.SelectAvailability(ctx, r.Availability) },
		func(ctx context.Context) error { return p.SelectContractType(ctx, r.ContractType) },
		func(ctx context.Context) error { return p.SetBio(ctx, r.Bio) },
		func(ctx context.Context) error { return p.SetSkills(ctx, r.Skills) },
		func(ctx context.Context) error {
			if !r.AcceptTerms {
				return nil
			}
			return p.CheckTerms(ctx)
		},
		func(ctx context.Context) error {
			if !r.SubscribeNewsletter {
				return nil
			}
			return p.CheckNewsletter(ctx)
		},
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// FillBasic fills only name, email and age.
func (p *Page) FillBasic(ctx context.Context, name, email, age string) error {
	if err := p.SetName(ctx, name); err != nil {
		return err
	}
	if err := p.SetEmail(ctx, email); err != nil {
		return err
	}
	return p.SetAge(ctx, age)
}

func (p *Page) fill(ctx context.Context, field types.Field, v string) error {
	sel, err := p.reg.Control(field)
	if err != nil {
		return err
	}
	return p.ui.Perform(ctx, sel, browser.ActionFill, v)
}

func (p *Page) selectValue(ctx context.Context, field types.Field, v string) error {
	sel, err := p.reg.Control(field)
	if err != nil {
		return err
	}
	return p.ui.Perform(ctx, sel, browser.ActionSelect, v)
}

func (p *Page) check(ctx context.Context, field types.Field) error {
	sel, err := p.reg.Control(field)
	if err != nil {
		return err
	}
	return p.ui.Perform(ctx, sel, browser.ActionCheck, "")
}

func (p *Page) checkOption(ctx context.Context, group types.Field, v string) error {
	res, ok := p.reg.Group(group)
	if !ok {
		return &types.UnknownFieldError{Field: group}
	}
	canonical, ok := res.Resolve(v)
	if !ok {
		return nil
	}
	return p.ui.Perform(ctx, p.reg.Option(group, canonical), browser.ActionCheck, "")
}
