// Package validation decides whether a submitted user form is accepted and,
// when it is not, which single message is shown.
//
// Rules run in a fixed precedence order and evaluation stops at the first
// failing rule: presence checks first, numeric checks last. Rejection is a
// normal outcome, never an error.
package validation

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/user-form-poc/internal/choices"
	"github.com/jonathan/user-form-poc/internal/types"
)

// MinimumAge is the lowest accepted age.
const MinimumAge = 18

// MinimumPhoneDigits is the lowest accepted count of digits in a phone number.
const MinimumPhoneDigits = 7

type rule struct {
	kind  types.MessageKind
	check func(types.FormRecord) bool
}

// Engine evaluates the ordered rule list. It holds no per-call state and is
// safe for concurrent use.
type Engine struct {
	validate *validator.Validate
	rules    []rule
}

// NewEngine creates an Engine with the standard rule order.
func NewEngine() *Engine {
	e := &Engine{validate: validator.New()}
	e.rules = []rule{
		// 1-12: presence
		{types.AllFieldsRequired, e.basicFieldsPresent},
		{types.CountryRequired, func(r types.FormRecord) bool { return e.present(r.Country) }},
		{types.GenderRequired, genderSelected},
		{types.BirthDateRequired, func(r types.FormRecord) bool { return e.present(r.BirthDate) }},
		{types.CompanyPositionRequired, func(r types.FormRecord) bool { return e.present(r.Company, r.Position) }},
		{types.ExperienceRequired, func(r types.FormRecord) bool { return e.present(r.Experience) }},
		{types.LanguageRequired, languageSelected},
		{types.AvailabilityRequired, func(r types.FormRecord) bool { return e.present(r.Availability) }},
		{types.ContractTypeRequired, contractTypeSelected},
		{types.BioRequired, func(r types.FormRecord) bool { return e.present(r.Bio) }},
		{types.SkillsRequired, func(r types.FormRecord) bool { return len(r.SkillList()) > 0 }},
		{types.TermsRequired, e.termsAccepted},
		// 13-15: numeric checks, only reached once every field is present
		{types.AgeTooYoung, e.ageAllowed},
		{types.PhoneInvalid, e.phoneValid},
		{types.ExperienceNegative, e.experienceValid},
	}
	return e
}

// Validate returns Accepted, or the rejection of the earliest failing rule.
func (e *Engine) Validate(r types.FormRecord) types.Outcome {
	for _, rl := range e.rules {
		if !rl.check(r) {
			return types.Reject(rl.kind)
		}
	}
	return types.Accept()
}

// Rules returns the rejection kinds in evaluation order.
func (e *Engine) Rules() []types.MessageKind {
	kinds := make([]types.MessageKind, len(e.rules))
	for i, rl := range e.rules {
		kinds[i] = rl.kind
	}
	return kinds
}

var defaultEngine = NewEngine()

// Validate runs the default engine.
func Validate(r types.FormRecord) types.Outcome {
	return defaultEngine.Validate(r)
}

// Rules returns the default engine's rule order.
func Rules() []types.MessageKind {
	return defaultEngine.Rules()
}

func (e *Engine) basicFieldsPresent(r types.FormRecord) bool {
	return e.present(r.Name, r.Email, r.Age, r.Phone, r.Address)
}

// present reports whether every value is non-empty after trimming.
func (e *Engine) present(values ...string) bool {
	for _, v := range values {
		if e.validate.Var(strings.TrimSpace(v), "required") != nil {
			return false
		}
	}
	return true
}

func genderSelected(r types.FormRecord) bool {
	_, ok := choices.Gender.Resolve(r.Gender)
	return ok
}

func languageSelected(r types.FormRecord) bool {
	return len(choices.Language.ResolveAll(r.Languages)) > 0
}

func contractTypeSelected(r types.FormRecord) bool {
	_, ok := choices.ContractType.Resolve(r.ContractType)
	return ok
}

func (e *Engine) termsAccepted(r types.FormRecord) bool {
	return e.validate.Var(r.AcceptTerms, "eq=true") == nil
}

func (e *Engine) ageAllowed(r types.FormRecord) bool {
	age := Number(r.Age)
	if math.IsNaN(age) {
		return true
	}
	return e.validate.Var(age, "gte="+strconv.Itoa(MinimumAge)) == nil
}

func (e *Engine) phoneValid(r types.FormRecord) bool {
	return e.validate.Var(DigitsOnly(r.Phone), "numeric,min="+strconv.Itoa(MinimumPhoneDigits)) == nil
}

func (e *Engine) experienceValid(r types.FormRecord) bool {
	years := Number(r.Experience)
	if math.IsNaN(years) {
		return true
	}
	return e.validate.Var(years, "gte=0") == nil
}

// Number reads a numeric form value the way the browser coerces it: decimals
// and exponents are allowed, out-of-range magnitudes become infinities and
// anything unparsable is NaN. NaN fails no comparison, so the numeric rules
// let it through.
func Number(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return v
}

// DigitsOnly drops every character that is not an ASCII digit.
func DigitsOnly(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			sb.WriteRune(c)
		}
	}
	return sb.String()
}
