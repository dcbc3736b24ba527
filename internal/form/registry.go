// Package form maps the user form's logical fields to page controls and
// drives them through the interaction primitive.
package form

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/user-form-poc/internal/choices"
	"github.com/jonathan/user-form-poc/internal/types"
)

// Default selectors for the controls that are not tied to a field.
const (
	SubmitSelector  = "button[type='submit']"
	MessageSelector = "#message"
)

// Registry resolves logical fields to CSS selectors.
type Registry struct {
	controls map[types.Field]string
	groups   map[types.Field]*choices.Resolver
	submit   string
	message  string
}

// DefaultRegistry returns the selectors of the served user form.
func DefaultRegistry() *Registry {
	return &Registry{
		controls: map[types.Field]string{
			types.FieldName:                "#name",
			types.FieldEmail:               "#email",
			types.FieldAge:                 "#age",
			types.FieldPhone:               "#phone",
			types.FieldAddress:             "#address",
			types.FieldCountry:             "#country",
			types.FieldBirthDate:           "#birthDate",
			types.FieldCompany:             "#company",
			types.FieldPosition:            "#position",
			types.FieldExperience:          "#experience",
			types.FieldSalary:              "#salary",
			types.FieldAvailability:        "#availability",
			types.FieldBio:                 "#bio",
			types.FieldSkills:              "#skills",
			types.FieldAcceptTerms:         "#terms",
			types.FieldSubscribeNewsletter: "#newsletter",
		},
		groups: map[types.Field]*choices.Resolver{
			types.FieldGender:       choices.Gender,
			types.FieldLanguages:    choices.Language,
			types.FieldContractType: choices.ContractType,
		},
		submit:  SubmitSelector,
		message: MessageSelector,
	}
}

// Control returns the selector of a single-control field. Option groups
// (gender, languages, contractType) have no single control; use Option.
func (r *Registry) Control(field types.Field) (string, error) {
	sel, ok := r.controls[field]
	if !ok {
		return "", &types.UnknownFieldError{Field: field}
	}
	return sel, nil
}

// Option returns the selector of the input for canonical value in group.
func (r *Registry) Option(group types.Field, canonical string) string {
	return fmt.Sprintf("input[name='%s'][value='%s']", group, canonical)
}

// Group returns the resolver behind an option group.
func (r *Registry) Group(group types.Field) (*choices.Resolver, bool) {
	res, ok := r.groups[group]
	return res, ok
}

// Submit returns the submit button selector.
func (r *Registry) Submit() string {
	return r.submit
}

// Message returns the selector of the message region.
func (r *Registry) Message() string {
	return r.message
}

// Selectors lists every selector the registry can hand out, in field order,
// followed by submit and message.
func (r *Registry) Selectors() []string {
	var out []string
	for _, f := range types.Fields() {
		if sel, ok := r.controls[f]; ok {
			out = append(out, sel)
			continue
		}
		if res, ok := r.groups[f]; ok {
			for _, opt := range res.Options() {
				out = append(out, r.Option(f, opt.Value))
			}
		}
	}
	return append(out, r.submit, r.message)
}

// Verify returns the selectors that match nothing in doc.
func (r *Registry) Verify(doc *goquery.Document) []string {
	var missing []string
	for _, sel := range r.Selectors() {
		if doc.Find(sel).Length() == 0 {
			missing = append(missing, sel)
		}
	}
	return missing
}
