package submission

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonathan/user-form-poc/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func acceptedRecord() types.FormRecord {
	return types.FormRecord{
		Name:                "Sofía <b>Ruiz</b>",
		Email:               " sofia@example.com ",
		Age:                 "29",
		Phone:               "(55) 1234-5678",
		Address:             "Insurgentes 10",
		Country:             "mexico",
		Gender:              "female",
		BirthDate:           "1995-07-20",
		Company:             "Umbrella & Co",
		Position:            "Analista",
		Experience:          "4",
		Languages:           []string{"spanish", "klingon", "english"},
		Salary:              "45000",
		Availability:        "2 meses",
		ContractType:        "part-time",
		Bio:                 "<script>alert(1)</script>Analista de datos",
		Skills:              "SQL, , Python ",
		AcceptTerms:         true,
		SubscribeNewsletter: true,
	}
}

// recordingBackend counts calls and returns a canned answer.
type recordingBackend struct {
	calls int
	ack   Ack
	err   error
}

func (b *recordingBackend) Submit(_ context.Context, _ Payload) (Ack, error) {
	b.calls++
	return b.ack, b.err
}

func TestController_Success(t *testing.T) {
	backend := &recordingBackend{ack: Ack{ID: "abc"}}
	c := NewController(backend, nil)

	result := c.Handle(context.Background(), acceptedRecord())

	assert.True(t, result.Succeeded())
	assert.Equal(t, types.SubmissionSucceeded, result.Kind)
	assert.Equal(t, "Usuario creado correctamente", result.Message)
	require.NotNil(t, result.Ack)
	assert.Equal(t, "abc", result.Ack.ID)
	assert.Equal(t, 1, backend.calls)
}

func TestController_RejectionNeverCallsBackend(t *testing.T) {
	backend := &recordingBackend{}
	c := NewController(backend, nil)

	rejected := acceptedRecord().MustWith(types.FieldAge, "16")
	result := c.Handle(context.Background(), rejected)

	assert.Equal(t, types.AgeTooYoung, result.Kind)
	assert.Equal(t, "La edad debe ser mayor o igual a 18", result.Message)
	assert.Nil(t, result.Ack)
	assert.Equal(t, 0, backend.calls)
}

func TestController_TransportErrorMessageVerbatim(t *testing.T) {
	backend := &recordingBackend{err: &TransportError{Message: "Servicio no disponible", StatusCode: 503}}
	result := NewController(backend, nil).Handle(context.Background(), acceptedRecord())

	assert.Equal(t, types.SubmissionFailed, result.Kind)
	assert.Equal(t, "Servicio no disponible", result.Message)
	assert.False(t, result.Succeeded())
}

func TestController_PlainErrorMessage(t *testing.T) {
	backend := &recordingBackend{err: errors.New("connection reset")}
	result := NewController(backend, nil).Handle(context.Background(), acceptedRecord())

	assert.Equal(t, types.SubmissionFailed, result.Kind)
	assert.Equal(t, "connection reset", result.Message)
}

func TestNewPayload(t *testing.T) {
	p := NewPayload(acceptedRecord())

	assert.Equal(t, "Sofía Ruiz", p.Name)
	assert.Equal(t, "sofia@example.com", p.Email)
	assert.Equal(t, Number(29), p.Age)
	assert.Equal(t, Number(4), p.Experience)
	assert.Equal(t, "femenino", p.Gender)
	assert.Equal(t, "medio-tiempo", p.ContractType)
	assert.Equal(t, []string{"español", "inglés"}, p.Languages)
	assert.Equal(t, []string{"SQL", "Python"}, p.Skills)
	assert.Equal(t, "Umbrella & Co", p.Company)
	assert.Equal(t, "Analista de datos", p.Bio)
	assert.True(t, p.Newsletter)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "acceptTerms")
}

func TestMockBackend(t *testing.T) {
	m := NewMockBackend(time.Millisecond)

	ack, err := m.Submit(context.Background(), Payload{Name: "a"})
	require.NoError(t, err)
	assert.NotEmpty(t, ack.ID)

	m.FailWith(&TransportError{Message: FailureMessage})
	_, err = m.Submit(context.Background(), Payload{Name: "b"})
	require.Error(t, err)

	calls := m.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "a", calls[0].Name)
}

func TestMockBackend_ContextCancelled(t *testing.T) {
	m := NewMockBackend(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Submit(ctx, Payload{})
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, m.Calls())
}

func TestHTTPBackend(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
		wantID  string
	}{
		{"created", http.StatusCreated, `{"id":"u-1"}`, false, "u-1"},
		{"ok is not created", http.StatusOK, `{"id":"u-2"}`, true, ""},
		{"server error", http.StatusInternalServerError, `{}`, true, ""},
		{"bad request", http.StatusBadRequest, `{"error":"x"}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			var gotPayload Payload
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_ = json.NewDecoder(r.Body).Decode(&gotPayload)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			b := NewHTTPBackend(server.URL+"/", 5*time.Second)
			ack, err := b.Submit(context.Background(), NewPayload(acceptedRecord()))

			assert.Equal(t, "/api/users", gotPath)
			assert.Equal(t, Number(29), gotPayload.Age)
			if tt.wantErr {
				var transportErr *TransportError
				require.ErrorAs(t, err, &transportErr)
				assert.Equal(t, FailureMessage, transportErr.Message)
				assert.Equal(t, tt.status, transportErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, ack.ID)
		})
	}
}

func TestHTTPBackend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewHTTPBackend(url, time.Second).Submit(context.Background(), NewPayload(acceptedRecord()))
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, FailureMessage, transportErr.Message)
	require.Error(t, transportErr.Cause)
	assert.Contains(t, transportErr.Error(), "connect")

	result := NewController(NewHTTPBackend(url, time.Second), nil).Handle(context.Background(), acceptedRecord())
	assert.Equal(t, types.SubmissionFailed, result.Kind)
	assert.Equal(t, "Error al crear el usuario", result.Message)
}

func TestNewPayload_Numbers(t *testing.T) {
	tests := []struct {
		age, experience string
		wantAge         string
		wantExperience  string
	}{
		{"29", "4", `"age":29`, `"experience":4`},
		{"25.0", "2.5", `"age":25`, `"experience":2.5`},
		{"99999999999999999999", "1e400", `"age":100000000000000000000`, `"experience":null`},
		{"treinta", "mucha", `"age":null`, `"experience":null`},
	}
	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			r := acceptedRecord()
			r.Age = tt.age
			r.Experience = tt.experience

			data, err := json.Marshal(NewPayload(r))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.wantAge)
			assert.Contains(t, string(data), tt.wantExperience)
		})
	}
}

func TestTransportError(t *testing.T) {
	assert.Equal(t, "transport error: x (status 500)", (&TransportError{Message: "x", StatusCode: 500}).Error())
	assert.Equal(t, "transport error: x", (&TransportError{Message: "x"}).Error())

	cause := errors.New("boom")
	err := &TransportError{Message: "x", Cause: cause}
	assert.Equal(t, "transport error: x: boom", err.Error())
	assert.ErrorIs(t, err, cause)
}
