// Package submission drives one submit attempt per problem view, from the
// user's code to a reconciled, displayable verdict.
package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"brewalgo_client/internal/common"
	"brewalgo_client/internal/domain/model"

	"go.uber.org/zap"
)

const (
	DefaultTimeout = 60 * time.Second

	FailureMessage   = "Failed to submit solution."
	EmptyCodeMessage = "Please enter your code"
)

// ErrAbandoned is returned when the view was closed before the backend
// answered. The verdict is dropped.
var ErrAbandoned = errors.New("submission view closed before the result arrived")

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseSubmitting
	PhaseResolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseValidating:
		return "validating"
	case PhaseSubmitting:
		return "submitting"
	case PhaseResolved:
		return "resolved"
	case PhaseFailed:
		return "failed"
	}
	return "unknown"
}

// InFlight reports whether an attempt is underway.
func (p Phase) InFlight() bool {
	return p == PhaseValidating || p == PhaseSubmitting
}

// State is what the view renders. Message is safe to show; Err keeps the
// underlying cause for logs.
type State struct {
	Phase   Phase
	Result  *model.ReconciledResult
	Message string
	Err     error
}

type SubmitAPI interface {
	Submit(ctx context.Context, req model.SubmitRequest) (*model.SubmitResponse, error)
}

type Coordinator struct {
	api     SubmitAPI
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	state   State
	attempt uint64
}

type Option func(*Coordinator)

// WithTimeout bounds the submit call. Zero or negative disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Coordinator) { c.timeout = d }
}

func NewCoordinator(api SubmitAPI, logger *zap.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Coordinator{api: api, logger: logger, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Submit runs one attempt. It is rejected with common.ErrSubmissionInFlight
// while another attempt on this coordinator has not finished.
func (c *Coordinator) Submit(ctx context.Context, userID, problemID int64, code string, language model.Language) (*model.ReconciledResult, error) {
	c.mu.Lock()
	if c.state.Phase.InFlight() {
		c.mu.Unlock()
		return nil, common.ErrSubmissionInFlight
	}
	c.attempt++
	attempt := c.attempt
	c.state = State{Phase: PhaseValidating}
	c.mu.Unlock()

	if vErr := validate(code, language); vErr != nil {
		c.apply(attempt, State{Phase: PhaseFailed, Message: vErr.Message, Err: vErr})
		return nil, vErr
	}

	if !c.apply(attempt, State{Phase: PhaseSubmitting}) {
		return nil, ErrAbandoned
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := time.Now()
	resp, err := c.api.Submit(ctx, model.SubmitRequest{
		UserID:    userID,
		ProblemID: problemID,
		Code:      code,
		Language:  language,
	})
	if err != nil {
		c.logger.Error("submission failed",
			zap.Int64("user_id", userID),
			zap.Int64("problem_id", problemID),
			zap.String("language", string(language)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		if !c.apply(attempt, State{Phase: PhaseFailed, Message: FailureMessage, Err: err}) {
			return nil, ErrAbandoned
		}
		return nil, err
	}

	result := Reconcile(resp)
	if !c.apply(attempt, State{Phase: PhaseResolved, Result: result}) {
		c.logger.Debug("dropping verdict for closed view", zap.Int64("problem_id", problemID))
		return nil, ErrAbandoned
	}

	status := ""
	if result.Status != nil {
		status = string(*result.Status)
	}
	c.logger.Info("submission judged",
		zap.Int64("problem_id", problemID),
		zap.String("status", status),
		zap.Duration("elapsed", time.Since(started)))
	return result, nil
}

// Reset returns a finished attempt to Idle. It is a no-op from Idle.
func (c *Coordinator) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase.InFlight() {
		return common.ErrSubmissionInFlight
	}
	c.state = State{Phase: PhaseIdle}
	return nil
}

// Close is called when the view goes away. Any attempt still waiting on
// the backend keeps running but its outcome is discarded.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempt++
	c.state = State{Phase: PhaseIdle}
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// apply moves to next unless the attempt was superseded or closed.
func (c *Coordinator) apply(attempt uint64, next State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attempt != attempt {
		return false
	}
	c.state = next
	return true
}

func validate(code string, language model.Language) *common.ValidationError {
	if strings.TrimSpace(code) == "" {
		return &common.ValidationError{Field: "code", Message: EmptyCodeMessage}
	}
	if !language.Valid() {
		return &common.ValidationError{Field: "language", Message: "Please choose a supported language"}
	}
	return nil
}
