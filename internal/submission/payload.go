package submission

import (
	"encoding/json"
	"html"
	"math"
	"strings"
	"sync"

	"github.com/jonathan/user-form-poc/internal/choices"
	"github.com/jonathan/user-form-poc/internal/types"
	"github.com/jonathan/user-form-poc/internal/validation"
	"github.com/microcosm-cc/bluemonday"
)

// Payload is the body sent to the backend for an accepted record. Numeric
// fields are parsed, skills are split and the terms flag is not forwarded.
type Payload struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Age          Number   `json:"age"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address"`
	Country      string   `json:"country"`
	Gender       string   `json:"gender"`
	BirthDate    string   `json:"birthDate"`
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Experience   Number   `json:"experience"`
	Languages    []string `json:"languages"`
	Salary       string   `json:"salary"`
	Availability string   `json:"availability"`
	ContractType string   `json:"contractType"`
	Bio          string   `json:"bio"`
	Skills       []string `json:"skills"`
	Newsletter   bool     `json:"newsletter"`
}

// Number is a numeric form value. Values without a finite reading encode as
// null, as the browser's JSON encoding does.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

var (
	textPolicy     *bluemonday.Policy
	textPolicyOnce sync.Once
)

func sanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// clean strips markup from free text. The payload is JSON, not HTML, so the
// entities the policy escapes are decoded again.
func clean(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(sanitizer().Sanitize(trimmed)))
}

// NewPayload converts an accepted record. Numbers are read with the same
// coercion the validation rules use.
func NewPayload(r types.FormRecord) Payload {
	gender, _ := choices.Gender.Resolve(r.Gender)
	contract, _ := choices.ContractType.Resolve(r.ContractType)

	skills := make([]string, 0, len(r.SkillList()))
	for _, s := range r.SkillList() {
		if c := clean(s); c != "" {
			skills = append(skills, c)
		}
	}

	return Payload{
		Name:         clean(r.Name),
		Email:        strings.TrimSpace(r.Email),
		Age:          Number(validation.Number(r.Age)),
		Phone:        strings.TrimSpace(r.Phone),
		Address:      clean(r.Address),
		Country:      r.Country,
		Gender:       gender,
		BirthDate:    r.BirthDate,
		Company:      clean(r.Company),
		Position:     clean(r.Position),
		Experience:   Number(validation.Number(r.Experience)),
		Languages:    choices.Language.ResolveAll(r.Languages),
		Salary:       r.Salary,
		Availability: r.Availability,
		ContractType: contract,
		Bio:          clean(r.Bio),
		Skills:       skills,
		Newsletter:   r.SubscribeNewsletter,
	}
}
