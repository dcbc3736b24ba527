// Package fixtures generates synthetic user records for exercising the form.
// Every generated record passes validation; cases corrupt it with
// FormRecord.With to reach a specific rejection.
package fixtures

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/jonathan/user-form-poc/internal/types"
)

// DefaultSkills is the skills string every generated user carries.
const DefaultSkills = "C#, JavaScript, SQL, Docker, AWS"

var (
	genders        = []string{"masculino", "femenino", "otro"}
	contracts      = []string{"tiempo-completo", "medio-tiempo", "temporal"}
	availabilities = []string{"inmediata", "1 mes", "2 meses"}
)

// Generator produces well-formed records from a seeded faker. It is safe for
// concurrent use.
type Generator struct {
	mu    sync.Mutex
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewGenerator returns a generator seeded with seed. Equal seeds and clocks
// give equal sequences; seed 0 draws a random seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		faker: gofakeit.New(seed),
		now:   time.Now,
	}
}

// WithClock sets the reference time used for birth dates.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
	return g
}

// emailPart lowercases s and keeps only ASCII letters.
func emailPart(s string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToLower(r)
		if r >= 'a' && r <= 'z' {
			return r
		}
		return -1
	}, s)
}

// domain returns a faked domain reduced to lowercase letters and dots.
func domain(f *gofakeit.Faker) string {
	var labels []string
	for _, l := range strings.Split(f.DomainName(), ".") {
		if l = emailPart(l); l != "" {
			labels = append(labels, l)
		}
	}
	if len(labels) < 2 {
		return "ejemplo.com"
	}
	return strings.Join(labels, ".")
}

// User returns a record that validates as Accepted.
func (g *Generator) User() types.FormRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	f := g.faker

	first, last := f.FirstName(), f.LastName()
	local := emailPart(first) + "." + emailPart(last)
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") {
		local = "usuario.prueba"
	}
	email := fmt.Sprintf("%s%d@%s", local, f.IntRange(1, 999), domain(f))

	// Born within the 30 years before the reference date minus 18 years.
	latest := g.now().AddDate(-18, 0, 0)
	birth := f.DateRange(latest.AddDate(-30, 0, 0), latest)

	experience := f.IntRange(1, 40)
	position := f.JobTitle()
	company := f.Company()

	return types.FormRecord{
		Name:                first + " " + last,
		Email:               email,
		Age:                 strconv.Itoa(f.IntRange(18, 65)),
		Phone:               strconv.Itoa(f.IntRange(1, 9)) + f.Numerify("#########"),
		Address:             f.Street(),
		Country:             "mexico",
		Gender:              f.RandomString(genders),
		BirthDate:           birth.Format("2006-01-02"),
		Company:             company,
		Position:            position,
		Experience:          strconv.Itoa(experience),
		Languages:           []string{"español", "inglés"},
		Salary:              strconv.Itoa(f.IntRange(0, 40) * 5000),
		Availability:        f.RandomString(availabilities),
		ContractType:        f.RandomString(contracts),
		Bio:                 fmt.Sprintf("%s con %d años de experiencia en %s.", position, experience, company),
		Skills:              DefaultSkills,
		AcceptTerms:         true,
		SubscribeNewsletter: f.Bool(),
	}
}

// Users returns n generated records.
func (g *Generator) Users(n int) []types.FormRecord {
	out := make([]types.FormRecord, n)
	for i := range out {
		out[i] = g.User()
	}
	return out
}

// EmptyUser is the record of an untouched form: text fields empty, age and
// salary zero, nothing selected or checked.
func EmptyUser() types.FormRecord {
	return types.FormRecord{
		Age:    "0",
		Salary: "0",
	}
}
