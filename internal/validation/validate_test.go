package validation

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jonathan/user-form-poc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRecord() types.FormRecord {
	return types.FormRecord{
		Name:                "María López",
		Email:               "maria@example.com",
		Age:                 "34",
		Phone:               "5512345678",
		Address:             "Av. Reforma 123",
		Country:             "mexico",
		Gender:              "femenino",
		BirthDate:           "1990-02-14",
		Company:             "Globex",
		Position:            "QA Lead",
		Experience:          "10",
		Languages:           []string{"español", "inglés"},
		Salary:              "60000",
		Availability:        "inmediata",
		ContractType:        "tiempo-completo",
		Bio:                 "Ingeniera de pruebas",
		Skills:              "C#, JavaScript, SQL",
		AcceptTerms:         true,
		SubscribeNewsletter: false,
	}
}

// violation breaks exactly one rule of a valid record.
type violation struct {
	kind  types.MessageKind
	apply func(types.FormRecord) types.FormRecord
}

func set(field types.Field, value string) func(types.FormRecord) types.FormRecord {
	return func(r types.FormRecord) types.FormRecord { return r.MustWith(field, value) }
}

func violations() []violation {
	return []violation{
		{types.AllFieldsRequired, set(types.FieldName, "")},
		{types.CountryRequired, set(types.FieldCountry, "")},
		{types.GenderRequired, set(types.FieldGender, "")},
		{types.BirthDateRequired, set(types.FieldBirthDate, "")},
		{types.CompanyPositionRequired, set(types.FieldPosition, "")},
		{types.ExperienceRequired, set(types.FieldExperience, "")},
		{types.LanguageRequired, set(types.FieldLanguages, "")},
		{types.AvailabilityRequired, set(types.FieldAvailability, "")},
		{types.ContractTypeRequired, set(types.FieldContractType, "")},
		{types.BioRequired, set(types.FieldBio, "")},
		{types.SkillsRequired, set(types.FieldSkills, "")},
		{types.TermsRequired, set(types.FieldAcceptTerms, "false")},
		{types.AgeTooYoung, set(types.FieldAge, "17")},
		{types.PhoneInvalid, set(types.FieldPhone, "123-45")},
		{types.ExperienceNegative, set(types.FieldExperience, "-1")},
	}
}

func TestValidate_AcceptsValidRecord(t *testing.T) {
	assert.Equal(t, types.Accept(), Validate(validRecord()))
}

func TestValidate_AcceptsAliasesAndBoundaries(t *testing.T) {
	r := validRecord()
	r.Gender = "male"
	r.ContractType = "part-time"
	r.Languages = []string{"english"}
	r.Age = "18"
	r.Experience = "0"
	r.Phone = "(555) 123-4567"

	assert.True(t, Validate(r).Accepted)
}

func TestValidate_SingleViolation(t *testing.T) {
	for _, v := range violations() {
		t.Run(v.kind.String(), func(t *testing.T) {
			outcome := Validate(v.apply(validRecord()))
			assert.Equal(t, types.Reject(v.kind), outcome)
			assert.Equal(t, v.kind.Text(), outcome.Message())
		})
	}
}

func TestValidate_EarliestViolationWins(t *testing.T) {
	vs := violations()
	for i := range vs {
		for j := i + 1; j < len(vs); j++ {
			first, later := vs[i], vs[j]
			// both experience rules touch the same field
			if first.kind == types.ExperienceRequired && later.kind == types.ExperienceNegative {
				continue
			}
			name := fmt.Sprintf("%s+%s", first.kind, later.kind)
			t.Run(name, func(t *testing.T) {
				r := later.apply(first.apply(validRecord()))
				assert.Equal(t, types.Reject(first.kind), Validate(r))
			})
		}
	}
}

func TestValidate_AllViolationsReportsFirstRule(t *testing.T) {
	r := validRecord()
	for _, v := range violations() {
		r = v.apply(r)
	}
	assert.Equal(t, types.Reject(types.AllFieldsRequired), Validate(r))
}

func TestValidate_EmptyRecord(t *testing.T) {
	r := types.FormRecord{Age: "0", Salary: "0"}
	outcome := Validate(r)
	assert.Equal(t, types.Reject(types.AllFieldsRequired), outcome)
	assert.Equal(t, "Todos los campos obligatorios deben estar completos", outcome.Message())
}

func TestValidate_Idempotent(t *testing.T) {
	records := []types.FormRecord{validRecord(), {}}
	for _, v := range violations() {
		records = append(records, v.apply(validRecord()))
	}
	for _, r := range records {
		first := Validate(r)
		second := Validate(r)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Validate not idempotent (-first +second):\n%s", diff)
		}
	}
}

func TestValidate_DoesNotMutateRecord(t *testing.T) {
	r := validRecord()
	before := r.Clone()
	_ = Validate(r)
	if diff := cmp.Diff(before, r); diff != "" {
		t.Errorf("record mutated (-before +after):\n%s", diff)
	}
}

func TestValidate_PresenceTrimsWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		field    types.Field
		value    string
		expected types.MessageKind
	}{
		{"blank name", types.FieldName, "   ", types.AllFieldsRequired},
		{"blank email", types.FieldEmail, "\t", types.AllFieldsRequired},
		{"blank age", types.FieldAge, " ", types.AllFieldsRequired},
		{"blank address", types.FieldAddress, " ", types.AllFieldsRequired},
		{"blank company", types.FieldCompany, " ", types.CompanyPositionRequired},
		{"blank experience", types.FieldExperience, "  ", types.ExperienceRequired},
		{"blank bio", types.FieldBio, "\n", types.BioRequired},
		{"only commas", types.FieldSkills, " , , ", types.SkillsRequired},
		{"unknown gender", types.FieldGender, "robot", types.GenderRequired},
		{"unknown contract", types.FieldContractType, "intern", types.ContractTypeRequired},
		{"unknown languages", types.FieldLanguages, "klingon,elvish", types.LanguageRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecord().MustWith(tt.field, tt.value)
			assert.Equal(t, types.Reject(tt.expected), Validate(r))
		})
	}
}

func TestValidate_PartialLanguagesAccepted(t *testing.T) {
	r := validRecord().MustWith(types.FieldLanguages, "klingon,french")
	assert.True(t, Validate(r).Accepted)
}

func TestValidate_Age(t *testing.T) {
	tests := []struct {
		age      string
		accepted bool
	}{
		{"18", true},
		{" 65 ", true},
		{"17", false},
		{"0", false},
		{"-20", false},
		{"16", false},
		{"17.9", false},
		{"18.5", true},
		{"25.0", true},
		{"1e2", true},
		{"99999999999999999999", true},
		{"-99999999999999999999", false},
		{"abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			outcome := Validate(validRecord().MustWith(types.FieldAge, tt.age))
			if tt.accepted {
				assert.True(t, outcome.Accepted)
			} else {
				assert.Equal(t, types.Reject(types.AgeTooYoung), outcome)
			}
		})
	}
}

func TestValidate_PhoneNormalization(t *testing.T) {
	tests := []struct {
		phone    string
		accepted bool
	}{
		{"(555) 123-4567", true},
		{"555.123.4567", true},
		{"+52 55 1234 5678", true},
		{"1234567", true},
		{"123-45", false},
		{"123456", false},
		{"phone: ---", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			outcome := Validate(validRecord().MustWith(types.FieldPhone, tt.phone))
			if tt.accepted {
				assert.True(t, outcome.Accepted)
			} else {
				assert.Equal(t, types.Reject(types.PhoneInvalid), outcome)
			}
		})
	}
}

func TestValidate_Experience(t *testing.T) {
	tests := []struct {
		experience string
		accepted   bool
	}{
		{"0", true},
		{"2.5", true},
		{"99999999999999999999", true},
		{"-0.5", false},
		{"-3", false},
		{"-99999999999999999999", false},
		{"many", true},
	}
	for _, tt := range tests {
		t.Run(tt.experience, func(t *testing.T) {
			outcome := Validate(validRecord().MustWith(types.FieldExperience, tt.experience))
			if tt.accepted {
				assert.True(t, outcome.Accepted)
			} else {
				assert.Equal(t, types.Reject(types.ExperienceNegative), outcome)
			}
		})
	}
}

func TestNumber(t *testing.T) {
	assert.Equal(t, 25.0, Number(" 25.0 "))
	assert.True(t, math.IsInf(Number("99999999999999999999e400"), 1))
	assert.True(t, math.IsInf(Number("-1e400"), -1))
	assert.True(t, math.IsNaN(Number("veinte")))
	assert.True(t, math.IsNaN(Number("")))
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5551234567", DigitsOnly("(555) 123-4567"))
	assert.Equal(t, "", DigitsOnly("abc"))
	assert.Equal(t, "21", DigitsOnly("١2x1"), "non-ASCII digits are dropped")
}

func TestRules_Order(t *testing.T) {
	expected := []types.MessageKind{
		types.AllFieldsRequired,
		types.CountryRequired,
		types.GenderRequired,
		types.BirthDateRequired,
		types.CompanyPositionRequired,
		types.ExperienceRequired,
		types.LanguageRequired,
		types.AvailabilityRequired,
		types.ContractTypeRequired,
		types.BioRequired,
		types.SkillsRequired,
		types.TermsRequired,
		types.AgeTooYoung,
		types.PhoneInvalid,
		types.ExperienceNegative,
	}
	require.Equal(t, expected, Rules())
}

func TestEngine_Concurrent(t *testing.T) {
	e := NewEngine()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r := validRecord()
			if i%2 == 1 {
				r.Age = "12"
				assert.Equal(t, types.Reject(types.AgeTooYoung), e.Validate(r))
				return
			}
			assert.True(t, e.Validate(r).Accepted)
		}(i)
	}
	wg.Wait()
}
