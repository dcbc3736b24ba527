package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/user-form-poc/internal/choices"
	"github.com/jonathan/user-form-poc/internal/schemas"
	"github.com/jonathan/user-form-poc/internal/submission"
	"github.com/jonathan/user-form-poc/internal/types"
)

// Salary range settings of the form.
const (
	DefaultSalary = 50000
	SalaryMax     = 200000
	SalaryStep    = 5000
)

// maxBodyBytes bounds form and API request bodies.
const maxBodyBytes = 1 << 20

// option is one rendered select option, radio or checkbox.
type option struct {
	Value    string
	Label    string
	Selected bool
}

// formPage is the view model of the form template.
type formPage struct {
	Record         types.FormRecord
	Countries      []option
	Availabilities []option
	Genders        []option
	Languages      []option
	Contracts      []option
	Salary         int
	SalaryDisplay  string
	SalaryMax      int
	SalaryStep     int
	Message        string
	MessageClass   string
}

// CreateUserResponse is the body of a 201 from POST /api/users.
type CreateUserResponse struct {
	ID string `json:"id"`
}

// handleForm renders an empty form.
func (s *Server) handleForm(w http.ResponseWriter, _ *http.Request) {
	s.render(w, http.StatusOK, newFormPage(types.FormRecord{}, submission.Result{}))
}

// handleSubmit runs the posted form state through the pipeline and renders
// the result. Values are kept after a rejection and cleared after a success.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid form body: "+err.Error())
		return
	}

	record := RecordFromForm(r.PostForm)
	result := s.controller.Handle(r.Context(), record)

	if result.Succeeded() {
		record = types.FormRecord{}
	}
	s.render(w, http.StatusOK, newFormPage(record, result))
}

// handleCreateUser is the mock user API. The body must match the user
// payload schema.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			err = &ErrBodyTooLarge{Limit: maxErr.Limit}
		} else {
			err = &ErrValidation{Field: "body", Message: err.Error()}
		}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		err := &ErrValidation{Field: "body", Message: "empty request body"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}
	if !json.Valid(body) {
		err := &ErrValidation{Field: "body", Message: "invalid JSON"}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	if err := schemas.ValidatePayload(string(body)); err != nil {
		var schemaErr *schemas.ValidationError
		if errors.As(err, &schemaErr) {
			s.jsonResponse(w, HTTPStatus(err), map[string]any{
				"error":  "invalid payload",
				"fields": schemaErr.Errors,
			})
			return
		}
		s.logger.Warn("Payload validation failed", zap.Error(err))
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateUserResponse{ID: uuid.NewString()})
}

func (s *Server) render(w http.ResponseWriter, status int, page formPage) {
	var buf bytes.Buffer
	if err := s.form.Execute(&buf, page); err != nil {
		s.logger.Error("Error rendering form", zap.Error(err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// RecordFromForm reads the posted form state. Checkboxes count as checked
// when present.
func RecordFromForm(form url.Values) types.FormRecord {
	return types.FormRecord{
		Name:                form.Get("name"),
		Email:               form.Get("email"),
		Age:                 form.Get("age"),
		Phone:               form.Get("phone"),
		Address:             form.Get("address"),
		Country:             form.Get("country"),
		Gender:              form.Get("gender"),
		BirthDate:           form.Get("birthDate"),
		Company:             form.Get("company"),
		Position:            form.Get("position"),
		Experience:          form.Get("experience"),
		Languages:           append([]string(nil), form["languages"]...),
		Salary:              form.Get("salary"),
		Availability:        form.Get("availability"),
		ContractType:        form.Get("contractType"),
		Bio:                 form.Get("bio"),
		Skills:              form.Get("skills"),
		AcceptTerms:         form.Has("acceptTerms"),
		SubscribeNewsletter: form.Has("subscribeNewsletter"),
	}
}

func newFormPage(r types.FormRecord, result submission.Result) formPage {
	salary, err := strconv.Atoi(strings.TrimSpace(r.Salary))
	if err != nil {
		salary = DefaultSalary
	}

	page := formPage{
		Record:         r,
		Countries:      plainOptions(choices.Countries, r.Country),
		Availabilities: plainOptions(choices.Availabilities, r.Availability),
		Genders:        groupOptions(choices.Gender, r.Gender),
		Contracts:      groupOptions(choices.ContractType, r.ContractType),
		Salary:         salary,
		SalaryDisplay:  FormatSalary(salary),
		SalaryMax:      SalaryMax,
		SalaryStep:     SalaryStep,
		Message:        result.Message,
	}

	selected := make(map[string]bool)
	for _, lang := range choices.Language.ResolveAll(r.Languages) {
		selected[lang] = true
	}
	for _, opt := range choices.Language.Options() {
		page.Languages = append(page.Languages, option{Value: opt.Value, Label: opt.Label, Selected: selected[opt.Value]})
	}

	switch {
	case result.Message == "":
	case result.Succeeded():
		page.MessageClass = "success"
	default:
		page.MessageClass = "error"
	}
	return page
}

func plainOptions(opts []choices.Option, current string) []option {
	out := make([]option, 0, len(opts))
	for _, opt := range opts {
		out = append(out, option{Value: opt.Value, Label: opt.Label, Selected: opt.Value == current})
	}
	return out
}

func groupOptions(res *choices.Resolver, current string) []option {
	canonical, _ := res.Resolve(current)
	out := make([]option, 0)
	for _, opt := range res.Options() {
		out = append(out, option{Value: opt.Value, Label: opt.Label, Selected: opt.Value == canonical})
	}
	return out
}

// FormatSalary renders n as a dollar amount with thousands separators,
// e.g. "$50,000".
func FormatSalary(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.Itoa(n)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return sign + "$" + b.String()
}
