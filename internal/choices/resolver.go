// Package choices resolves user supplied option values to the canonical values
// rendered by the form. Each canonical value accepts a fixed set of aliases
// (the Spanish token and its English counterpart).
package choices

import "strings"

// Option is one canonical value with the aliases that select it.
type Option struct {
	Value   string
	Label   string
	Aliases []string
}

// Resolver maps aliases to canonical values. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	name    string
	options []Option
	index   map[string]string
}

// NewResolver builds a resolver. The canonical value always resolves to itself.
func NewResolver(name string, options ...Option) *Resolver {
	r := &Resolver{
		name:    name,
		options: options,
		index:   make(map[string]string),
	}
	for _, opt := range options {
		r.index[normalize(opt.Value)] = opt.Value
		for _, alias := range opt.Aliases {
			r.index[normalize(alias)] = opt.Value
		}
	}
	return r
}

// Name returns the form group name, e.g. "gender".
func (r *Resolver) Name() string {
	return r.name
}

// Resolve returns the canonical value for v. Unknown values report false;
// callers treat that as "nothing selected".
func (r *Resolver) Resolve(v string) (string, bool) {
	canonical, ok := r.index[normalize(v)]
	return canonical, ok
}

// Options returns the canonical options in display order.
func (r *Resolver) Options() []Option {
	out := make([]Option, len(r.options))
	copy(out, r.options)
	return out
}

// ResolveAll resolves every value, dropping unknown ones and duplicates while
// keeping the first-seen order.
func (r *Resolver) ResolveAll(values []string) []string {
	var out []string
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		canonical, ok := r.Resolve(v)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		out = append(out, canonical)
	}
	return out
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// Gender is the resolver for the gender radio group.
var Gender = NewResolver("gender",
	Option{Value: "masculino", Label: "Masculino", Aliases: []string{"male"}},
	Option{Value: "femenino", Label: "Femenino", Aliases: []string{"female"}},
	Option{Value: "otro", Label: "Otro", Aliases: []string{"other"}},
)

// ContractType is the resolver for the contract type radio group.
var ContractType = NewResolver("contractType",
	Option{Value: "tiempo-completo", Label: "Tiempo completo", Aliases: []string{"full-time"}},
	Option{Value: "medio-tiempo", Label: "Medio tiempo", Aliases: []string{"part-time"}},
	Option{Value: "freelance", Label: "Freelance"},
	Option{Value: "temporal", Label: "Temporal", Aliases: []string{"temporary"}},
)

// Language is the resolver for the language checkboxes.
var Language = NewResolver("language",
	Option{Value: "español", Label: "Español", Aliases: []string{"spanish"}},
	Option{Value: "inglés", Label: "Inglés", Aliases: []string{"english"}},
	Option{Value: "francés", Label: "Francés", Aliases: []string{"french"}},
	Option{Value: "portugués", Label: "Portugués", Aliases: []string{"portuguese"}},
	Option{Value: "mandarin", Label: "Mandarín", Aliases: []string{"chino"}},
)

// Countries lists the country/city select options.
var Countries = []Option{
	{Value: "mexico", Label: "México"},
	{Value: "colombia", Label: "Colombia"},
	{Value: "argentina", Label: "Argentina"},
	{Value: "chile", Label: "Chile"},
	{Value: "peru", Label: "Perú"},
	{Value: "espana", Label: "España"},
}

// Availabilities lists the availability select options.
var Availabilities = []Option{
	{Value: "inmediata", Label: "Inmediata"},
	{Value: "1 mes", Label: "1 mes"},
	{Value: "2 meses", Label: "2 meses"},
}
