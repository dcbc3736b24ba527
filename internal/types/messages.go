// Package types provides type definitions for structured data used throughout the user form system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// MessageKind identifies the single message shown after a submit attempt.
type MessageKind int

// Message kinds. The validation kinds are declared in rule precedence order.
const (
	MessageNone MessageKind = iota
	AllFieldsRequired
	CountryRequired
	GenderRequired
	BirthDateRequired
	CompanyPositionRequired
	ExperienceRequired
	LanguageRequired
	AvailabilityRequired
	ContractTypeRequired
	BioRequired
	SkillsRequired
	TermsRequired
	AgeTooYoung
	PhoneInvalid
	ExperienceNegative
	SubmissionSucceeded
	SubmissionFailed
)

var messageNames = map[MessageKind]string{
	MessageNone:             "None",
	AllFieldsRequired:       "AllFieldsRequired",
	CountryRequired:         "CountryRequired",
	GenderRequired:          "GenderRequired",
	BirthDateRequired:       "BirthDateRequired",
	CompanyPositionRequired: "CompanyPositionRequired",
	ExperienceRequired:      "ExperienceRequired",
	LanguageRequired:        "LanguageRequired",
	AvailabilityRequired:    "AvailabilityRequired",
	ContractTypeRequired:    "ContractTypeRequired",
	BioRequired:             "BioRequired",
	SkillsRequired:          "SkillsRequired",
	TermsRequired:           "TermsRequired",
	AgeTooYoung:             "AgeTooYoung",
	PhoneInvalid:            "PhoneInvalid",
	ExperienceNegative:      "ExperienceNegative",
	SubmissionSucceeded:     "SubmissionSucceeded",
	SubmissionFailed:        "SubmissionFailed",
}

// Display strings must match the form byte for byte.
var messageTexts = map[MessageKind]string{
	AllFieldsRequired:       "Todos los campos obligatorios deben estar completos",
	CountryRequired:         "Debe seleccionar un país/ciudad",
	GenderRequired:          "Debe seleccionar un género",
	BirthDateRequired:       "Debe ingresar una fecha de nacimiento",
	CompanyPositionRequired: "Los campos de empresa y puesto son obligatorios",
	ExperienceRequired:      "Debe indicar la experiencia en años",
	LanguageRequired:        "Debe seleccionar al menos un idioma",
	AvailabilityRequired:    "Debe seleccionar una disponibilidad",
	ContractTypeRequired:    "Debe seleccionar un tipo de contrato",
	BioRequired:             "La biografía no puede estar vacía",
	SkillsRequired:          "Debe agregar al menos una habilidad",
	TermsRequired:           "Debe aceptar los términos y condiciones",
	AgeTooYoung:             "La edad debe ser mayor o igual a 18",
	PhoneInvalid:            "El teléfono debe contener al menos 7 dígitos",
	ExperienceNegative:      "La experiencia no puede ser negativa",
	SubmissionSucceeded:     "Usuario creado correctamente",
}

// String returns the identifier name of the kind.
func (k MessageKind) String() string {
	if name, ok := messageNames[k]; ok {
		return name
	}
	return fmt.Sprintf("MessageKind(%d)", int(k))
}

// Text returns the fixed display string. SubmissionFailed and MessageNone have
// no fixed text and return "".
func (k MessageKind) Text() string {
	return messageTexts[k]
}

// IsError reports whether the kind is rendered with the error style.
func (k MessageKind) IsError() bool {
	return k != MessageNone && k != SubmissionSucceeded
}

// ParseMessageKind maps an identifier name such as "AgeTooYoung" to its kind.
func ParseMessageKind(name string) (MessageKind, error) {
	for kind, n := range messageNames {
		if n == name {
			return kind, nil
		}
	}
	return MessageNone, fmt.Errorf("unknown message kind: %q", name)
}

// UnmarshalText lets kinds be read from YAML and JSON documents by name.
func (k *MessageKind) UnmarshalText(text []byte) error {
	kind, err := ParseMessageKind(string(text))
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// MarshalText writes the identifier name.
func (k MessageKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome is the result of validating a FormRecord: accepted, or rejected with
// exactly one reason.
type Outcome struct {
	Accepted bool
	Reason   MessageKind
}

// Accept returns the accepted outcome.
func Accept() Outcome {
	return Outcome{Accepted: true}
}

// Reject returns a rejection carrying kind.
func Reject(kind MessageKind) Outcome {
	return Outcome{Reason: kind}
}

// Message returns the display text of a rejection, or "" when accepted.
func (o Outcome) Message() string {
	if o.Accepted {
		return ""
	}
	return o.Reason.Text()
}

func (o Outcome) String() string {
	if o.Accepted {
		return "Accepted"
	}
	return "Rejected(" + o.Reason.String() + ")"
}
