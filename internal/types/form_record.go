// Package types provides type definitions for structured data used throughout the user form system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Field names a logical form field.
type Field string

// Logical fields of the user form, in fill order.
const (
	FieldName                Field = "name"
	FieldEmail               Field = "email"
	FieldAge                 Field = "age"
	FieldPhone               Field = "phone"
	FieldAddress             Field = "address"
	FieldCountry             Field = "country"
	FieldGender              Field = "gender"
	FieldBirthDate           Field = "birthDate"
	FieldCompany             Field = "company"
	FieldPosition            Field = "position"
	FieldExperience          Field = "experience"
	FieldLanguages           Field = "languages"
	FieldSalary              Field = "salary"
	FieldAvailability        Field = "availability"
	FieldContractType        Field = "contractType"
	FieldBio                 Field = "bio"
	FieldSkills              Field = "skills"
	FieldAcceptTerms         Field = "acceptTerms"
	FieldSubscribeNewsletter Field = "subscribeNewsletter"
)

// Fields lists every record field in fill order.
func Fields() []Field {
	return []Field{
		FieldName, FieldEmail, FieldAge, FieldPhone, FieldAddress, FieldCountry, FieldGender,
		FieldBirthDate, FieldCompany, FieldPosition, FieldExperience, FieldLanguages, FieldSalary,
		FieldAvailability, FieldContractType, FieldBio, FieldSkills, FieldAcceptTerms,
		FieldSubscribeNewsletter,
	}
}

// FormRecord is the snapshot of one submission attempt. Values stay as the user
// typed them; numeric fields are only parsed during validation.
//
// A FormRecord is handled by value. With returns a modified copy and never
// touches the receiver, so a record built for a test case stays unchanged.
type FormRecord struct {
	Name                string   `json:"name" yaml:"name"`
	Email               string   `json:"email" yaml:"email"`
	Age                 string   `json:"age" yaml:"age"`
	Phone               string   `json:"phone" yaml:"phone"`
	Address             string   `json:"address" yaml:"address"`
	Country             string   `json:"country" yaml:"country"`
	Gender              string   `json:"gender" yaml:"gender"`
	BirthDate           string   `json:"birthDate" yaml:"birthDate"`
	Company             string   `json:"company" yaml:"company"`
	Position            string   `json:"position" yaml:"position"`
	Experience          string   `json:"experience" yaml:"experience"`
	Languages           []string `json:"languages" yaml:"languages"`
	Salary              string   `json:"salary" yaml:"salary"`
	Availability        string   `json:"availability" yaml:"availability"`
	ContractType        string   `json:"contractType" yaml:"contractType"`
	Bio                 string   `json:"bio" yaml:"bio"`
	Skills              string   `json:"skills" yaml:"skills"`
	AcceptTerms         bool     `json:"acceptTerms" yaml:"acceptTerms"`
	SubscribeNewsletter bool     `json:"subscribeNewsletter" yaml:"subscribeNewsletter"`
}

// UnknownFieldError is returned when a field name is not part of FormRecord.
type UnknownFieldError struct {
	Field Field
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown form field: %q", string(e.Field))
}

// Clone returns a deep copy of the record.
func (r FormRecord) Clone() FormRecord {
	r.Languages = slices.Clone(r.Languages)
	return r
}

// With returns a copy of the record with one field replaced. Languages take a
// comma separated list and the boolean fields accept strconv.ParseBool input.
func (r FormRecord) With(field Field, value string) (FormRecord, error) {
	out := r.Clone()
	switch field {
	case FieldName:
		out.Name = value
	case FieldEmail:
		out.Email = value
	case FieldAge:
		out.Age = value
	case FieldPhone:
		out.Phone = value
	case FieldAddress:
		out.Address = value
	case FieldCountry:
		out.Country = value
	case FieldGender:
		out.Gender = value
	case FieldBirthDate:
		out.BirthDate = value
	case FieldCompany:
		out.Company = value
	case FieldPosition:
		out.Position = value
	case FieldExperience:
		out.Experience = value
	case FieldLanguages:
		out.Languages = SplitList(value)
	case FieldSalary:
		out.Salary = value
	case FieldAvailability:
		out.Availability = value
	case FieldContractType:
		out.ContractType = value
	case FieldBio:
		out.Bio = value
	case FieldSkills:
		out.Skills = value
	case FieldAcceptTerms, FieldSubscribeNewsletter:
		b := false
		if strings.TrimSpace(value) != "" {
			parsed, err := strconv.ParseBool(strings.TrimSpace(value))
			if err != nil {
				return r, fmt.Errorf("invalid boolean for %s: %w", field, err)
			}
			b = parsed
		}
		if field == FieldAcceptTerms {
			out.AcceptTerms = b
		} else {
			out.SubscribeNewsletter = b
		}
	default:
		return r, &UnknownFieldError{Field: field}
	}
	return out, nil
}

// MustWith is With for statically known fields; it panics on an unknown field.
func (r FormRecord) MustWith(field Field, value string) FormRecord {
	out, err := r.With(field, value)
	if err != nil {
		panic(err)
	}
	return out
}

// SkillList splits the comma delimited skills text, trimming entries and
// dropping empty ones.
func (r FormRecord) SkillList() []string {
	return SplitList(r.Skills)
}

// SplitList splits a comma separated list into trimmed, non-empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
