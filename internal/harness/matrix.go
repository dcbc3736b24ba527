package harness

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/user-form-poc/internal/fixtures"
	"github.com/jonathan/user-form-poc/internal/types"
)

// Scenarios returns the five reference scenarios.
func Scenarios(gen *fixtures.Generator) []Case {
	return []Case{
		mustCase("A: valid user", gen.User(), types.SubmissionSucceeded),
		mustCase("B: all fields empty", fixtures.EmptyUser(), types.AllFieldsRequired),
		mustCase("C: age 16", gen.User(), types.AgeTooYoung, Override{types.FieldAge, "16"}),
		mustCase("D: no country", gen.User(), types.CountryRequired, Override{types.FieldCountry, ""}),
		mustCase("E: terms not accepted", gen.User(), types.TermsRequired, Override{types.FieldAcceptTerms, "false"}),
	}
}

// singleViolations breaks exactly one rule per entry, in rule order.
var singleViolations = []struct {
	kind     types.MessageKind
	override Override
}{
	{types.AllFieldsRequired, Override{types.FieldName, ""}},
	{types.CountryRequired, Override{types.FieldCountry, ""}},
	{types.GenderRequired, Override{types.FieldGender, ""}},
	{types.BirthDateRequired, Override{types.FieldBirthDate, ""}},
	{types.CompanyPositionRequired, Override{types.FieldPosition, ""}},
	{types.ExperienceRequired, Override{types.FieldExperience, ""}},
	{types.LanguageRequired, Override{types.FieldLanguages, ""}},
	{types.AvailabilityRequired, Override{types.FieldAvailability, ""}},
	{types.ContractTypeRequired, Override{types.FieldContractType, ""}},
	{types.BioRequired, Override{types.FieldBio, "   "}},
	{types.SkillsRequired, Override{types.FieldSkills, " , "}},
	{types.TermsRequired, Override{types.FieldAcceptTerms, "false"}},
	{types.AgeTooYoung, Override{types.FieldAge, "17"}},
	{types.PhoneInvalid, Override{types.FieldPhone, "123-45"}},
	{types.ExperienceNegative, Override{types.FieldExperience, "-1"}},
}

// RuleMatrix returns one case per validation rule plus precedence and
// normalisation cases.
func RuleMatrix(gen *fixtures.Generator) []Case {
	cases := make([]Case, 0, len(singleViolations)+6)
	for _, v := range singleViolations {
		name := fmt.Sprintf("rule %s: %s=%q", v.kind, v.override.Field, v.override.Value)
		cases = append(cases, mustCase(name, gen.User(), v.kind, v.override))
	}

	return append(cases,
		mustCase("phone with punctuation is accepted", gen.User(), types.SubmissionSucceeded,
			Override{types.FieldPhone, "(555) 123-4567"}),
		mustCase("english aliases are accepted", gen.User(), types.SubmissionSucceeded,
			Override{types.FieldGender, "female"},
			Override{types.FieldContractType, "part-time"},
			Override{types.FieldLanguages, "english"}),
		mustCase("unknown gender alias selects nothing", gen.User(), types.GenderRequired,
			Override{types.FieldGender, "robot"}),
		mustCase("country before age", gen.User(), types.CountryRequired,
			Override{types.FieldCountry, ""}, Override{types.FieldAge, "16"}),
		mustCase("terms before phone", gen.User(), types.TermsRequired,
			Override{types.FieldAcceptTerms, "false"}, Override{types.FieldPhone, "12"}),
		mustCase("basic fields before bio", gen.User(), types.AllFieldsRequired,
			Override{types.FieldEmail, ""}, Override{types.FieldBio, ""}),
	)
}

// Base record kinds of a matrix file.
const (
	BaseGenerated = "generated"
	BaseEmpty     = "empty"
)

// MatrixFile is the YAML form of a test matrix.
type MatrixFile struct {
	Cases []MatrixEntry `yaml:"cases"`
}

// MatrixEntry is one case of a matrix file. Overrides are keyed by field name.
type MatrixEntry struct {
	Name      string            `yaml:"name"`
	Base      string            `yaml:"base"`
	Overrides map[string]string `yaml:"overrides"`
	Expect    types.MessageKind `yaml:"expect"`
}

// ParseMatrix decodes YAML matrix content into cases, drawing generated
// bases from gen.
func ParseMatrix(data []byte, gen *fixtures.Generator) ([]Case, error) {
	var file MatrixFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse matrix YAML: %w", err)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("matrix has no cases")
	}

	cases := make([]Case, 0, len(file.Cases))
	for i, entry := range file.Cases {
		if strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("case %d: name is required", i+1)
		}
		if entry.Expect == types.MessageNone {
			return nil, fmt.Errorf("case %q: expect is required", entry.Name)
		}

		var base types.FormRecord
		switch strings.ToLower(strings.TrimSpace(entry.Base)) {
		case "", BaseGenerated:
			base = gen.User()
		case BaseEmpty:
			base = fixtures.EmptyUser()
		default:
			return nil, fmt.Errorf("case %q: unknown base %q", entry.Name, entry.Base)
		}

		overrides := make([]Override, 0, len(entry.Overrides))
		for _, f := range types.Fields() {
			if v, ok := entry.Overrides[string(f)]; ok {
				overrides = append(overrides, Override{Field: f, Value: v})
			}
		}
		if len(overrides) != len(entry.Overrides) {
			for name := range entry.Overrides {
				if _, err := base.With(types.Field(name), ""); err != nil {
					return nil, fmt.Errorf("case %q: %w", entry.Name, err)
				}
			}
		}

		c, err := NewCase(entry.Name, base, entry.Expect, overrides...)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// LoadMatrix reads a YAML matrix file.
func LoadMatrix(path string, gen *fixtures.Generator) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read matrix file %s: %w", path, err)
	}
	return ParseMatrix(data, gen)
}
