package form

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/user-form-poc/internal/types"
)

func TestRegistry_Control(t *testing.T) {
	reg := DefaultRegistry()

	sel, err := reg.Control(types.FieldBirthDate)
	require.NoError(t, err)
	assert.Equal(t, "#birthDate", sel)

	sel, err = reg.Control(types.FieldAcceptTerms)
	require.NoError(t, err)
	assert.Equal(t, "#terms", sel)

	_, err = reg.Control(types.FieldGender)
	var unknown *types.UnknownFieldError
	assert.ErrorAs(t, err, &unknown)
}

func TestRegistry_Option(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, "input[name='gender'][value='otro']", reg.Option(types.FieldGender, "otro"))
	assert.Equal(t, "input[name='languages'][value='inglés']", reg.Option(types.FieldLanguages, "inglés"))
}

func TestRegistry_Selectors(t *testing.T) {
	sels := DefaultRegistry().Selectors()

	assert.Equal(t, "#name", sels[0])
	assert.Equal(t, SubmitSelector, sels[len(sels)-2])
	assert.Equal(t, MessageSelector, sels[len(sels)-1])
	// 16 single controls + 3 genders + 5 languages + 4 contract types + submit + message
	assert.Len(t, sels, 30)
}

func TestRegistry_Verify(t *testing.T) {
	reg := DefaultRegistry()

	var b strings.Builder
	b.WriteString("<form>")
	for _, sel := range reg.Selectors() {
		switch {
		case strings.HasPrefix(sel, "#"):
			b.WriteString(`<input id="` + strings.TrimPrefix(sel, "#") + `">`)
		case strings.HasPrefix(sel, "input[name='"):
			rest := strings.TrimPrefix(sel, "input[name='")
			name, value, _ := strings.Cut(rest, "'][value='")
			value = strings.TrimSuffix(value, "']")
			b.WriteString(`<input type="radio" name="` + name + `" value="` + value + `">`)
		}
	}
	b.WriteString(`<button type="submit">Enviar</button></form>`)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	assert.Empty(t, reg.Verify(doc))

	doc.Find("#skills").Remove()
	doc.Find("input[name='gender'][value='otro']").Remove()
	assert.Equal(t, []string{"input[name='gender'][value='otro']", "#skills"}, reg.Verify(doc))
}
