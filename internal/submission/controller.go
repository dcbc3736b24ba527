// Package submission runs the submit pipeline for the user form: validate the
// record, and only when it is accepted hand it to the backend.
package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonathan/user-form-poc/internal/types"
	"github.com/jonathan/user-form-poc/internal/validation"
	"go.uber.org/zap"
)

// FailureMessage is shown when the backend answers with anything but success.
const FailureMessage = "Error al crear el usuario"

// Ack acknowledges a created user.
type Ack struct {
	ID string `json:"id"`
}

// Backend creates users from accepted payloads.
type Backend interface {
	Submit(ctx context.Context, payload Payload) (Ack, error)
}

// TransportError is a failed backend call. Message is what the user sees.
type TransportError struct {
	Message    string
	StatusCode int
	Cause      error
}

func (e *TransportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Cause)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Result is the single message produced by one submit attempt.
type Result struct {
	Kind    types.MessageKind
	Message string
	Ack     *Ack
}

// Succeeded reports whether the user was created.
func (r Result) Succeeded() bool {
	return r.Kind == types.SubmissionSucceeded
}

// Controller validates records and forwards accepted ones to a Backend.
type Controller struct {
	engine  *validation.Engine
	backend Backend
	logger  *zap.Logger
}

// NewController creates a Controller. A nil logger disables logging.
func NewController(backend Backend, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		engine:  validation.NewEngine(),
		backend: backend,
		logger:  logger,
	}
}

// Handle validates r and submits it when accepted. It never returns an error:
// rejections and transport failures both become a Result.
func (c *Controller) Handle(ctx context.Context, r types.FormRecord) Result {
	outcome := c.engine.Validate(r)
	if !outcome.Accepted {
		c.logger.Debug("form rejected", zap.Stringer("reason", outcome.Reason))
		return Result{Kind: outcome.Reason, Message: outcome.Message()}
	}
	return c.submit(ctx, r)
}

func (c *Controller) submit(ctx context.Context, r types.FormRecord) Result {
	ack, err := c.backend.Submit(ctx, NewPayload(r))
	if err != nil {
		msg := err.Error()
		var transportErr *TransportError
		if errors.As(err, &transportErr) {
			msg = transportErr.Message
		}
		c.logger.Warn("submission failed", zap.Error(err))
		return Result{Kind: types.SubmissionFailed, Message: msg}
	}

	c.logger.Info("user created", zap.String("id", ack.ID))
	return Result{
		Kind:    types.SubmissionSucceeded,
		Message: types.SubmissionSucceeded.Text(),
		Ack:     &ack,
	}
}
