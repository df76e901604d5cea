package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casectl/casectl/internal/prompt"
	"github.com/casectl/casectl/internal/provider"
	"github.com/casectl/casectl/internal/record"
)

// State is the controller's position in the stage pipeline.
type State int

const (
	StateEmpty State = iota
	StateAnalyzed
	StateQuestionDraft
	StateQuestionLocked
	StateAnswerDraft
	StateAnswerLocked
)

func (st State) String() string {
	switch st {
	case StateEmpty:
		return "empty"
	case StateAnalyzed:
		return "analyzed"
	case StateQuestionDraft:
		return "question-draft"
	case StateQuestionLocked:
		return "question-locked"
	case StateAnswerDraft:
		return "answer-draft"
	case StateAnswerLocked:
		return "answer-locked"
	default:
		return "unknown"
	}
}

// TransitionError is reported when a trigger fires from a state that
// does not allow it.
type TransitionError struct {
	From    State
	Trigger string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from state %s", e.Trigger, e.From)
}

var (
	// ErrEmptySource: analyze needs a non-empty case text.
	ErrEmptySource = errors.New("source text is empty")
	// ErrEmptyDraft: locking an empty draft is rejected.
	ErrEmptyDraft = errors.New("draft is empty")
)

// Controller owns one Session and enforces stage ordering. Every
// LLM-calling transition is synchronous: it blocks until the call
// resolves, and on error the state does not advance so the same
// transition can be retried.
type Controller struct {
	client  provider.Client
	retryer *provider.Retryer
	writer  *record.Writer
	session *Session
	now     func() time.Time

	state State
	saved bool
	path  string // record path once saved
}

// NewController wires a controller around a fresh session.
func NewController(client provider.Client, writer *record.Writer) *Controller {
	return &Controller{
		client:  client,
		retryer: provider.DefaultRetryer(),
		writer:  writer,
		session: NewSession(),
		now:     time.Now,
	}
}

// SetRetryer overrides the default retry policy (tests use tiny delays).
func (c *Controller) SetRetryer(r *provider.Retryer) { c.retryer = r }

func (c *Controller) State() State      { return c.state }
func (c *Controller) Session() *Session { return c.session }
func (c *Controller) Saved() bool       { return c.saved }

// RecordPath returns the saved record path, empty until saved.
func (c *Controller) RecordPath() string { return c.path }

func (c *Controller) complete(ctx context.Context, spec *prompt.Spec) (string, error) {
	return c.retryer.Complete(ctx, c.client, &provider.CompletionRequest{
		SystemPrompt: spec.System,
		Prompt:       spec.User,
		Temperature:  spec.Temperature,
	})
}

// The controller is not safe for concurrent use. A UI that runs LLM
// calls on a background goroutine must keep all state mutation on its
// own event loop: build the call closure there (it captures the session
// text it needs and only talks to the provider), run it on the
// goroutine, then apply the result back on the event loop.

// AnalyzeCall returns the stage-1 completion as a state-free closure.
func (c *Controller) AnalyzeCall(sourceText string) func(context.Context) (string, error) {
	spec := prompt.Analysis(sourceText)
	return func(ctx context.Context) (string, error) {
		return c.complete(ctx, spec)
	}
}

// QuestionCall returns the stage-2 completion as a state-free closure.
// The source text is captured now, so a later session write cannot race
// with the in-flight call.
func (c *Controller) QuestionCall() func(context.Context) (string, error) {
	spec := prompt.Question(c.session.SourceText())
	return func(ctx context.Context) (string, error) {
		return c.complete(ctx, spec)
	}
}

// AnswerCall returns the stage-3 completion as a state-free closure.
func (c *Controller) AnswerCall() func(context.Context) (string, error) {
	spec := prompt.Answer(c.session.Question(), c.session.SourceText())
	return func(ctx context.Context) (string, error) {
		return c.complete(ctx, spec)
	}
}

// ApplyAnalysis stores a completed stage-1 result. Only valid from
// Empty; re-analysis requires a full reset.
func (c *Controller) ApplyAnalysis(sourceText, analysis string) error {
	if c.state != StateEmpty {
		return &TransitionError{From: c.state, Trigger: "analyze"}
	}
	if strings.TrimSpace(sourceText) == "" {
		return ErrEmptySource
	}
	c.session.SetSourceText(sourceText)
	c.session.setAnalysis(analysis)
	c.state = StateAnalyzed
	return nil
}

// ApplyQuestion stores a completed stage-2 result as the question draft.
// Valid from Analyzed, and again from QuestionDraft while unlocked; a
// regeneration fully replaces the previous draft.
func (c *Controller) ApplyQuestion(text string) error {
	if c.state != StateAnalyzed && c.state != StateQuestionDraft {
		return &TransitionError{From: c.state, Trigger: "generate question"}
	}
	if err := c.session.SetQuestion(text); err != nil {
		return err
	}
	c.state = StateQuestionDraft
	return nil
}

// ApplyAnswer stores a completed stage-3 result as the answer draft.
func (c *Controller) ApplyAnswer(text string) error {
	if c.state != StateQuestionLocked && c.state != StateAnswerDraft {
		return &TransitionError{From: c.state, Trigger: "generate answer"}
	}
	if err := c.session.SetAnswer(text); err != nil {
		return err
	}
	c.state = StateAnswerDraft
	return nil
}

// Analyze submits the case text and runs the stage-1 screening prompt.
// Only valid from Empty; re-analysis requires a full reset.
func (c *Controller) Analyze(ctx context.Context, sourceText string) (string, error) {
	if c.state != StateEmpty {
		return "", &TransitionError{From: c.state, Trigger: "analyze"}
	}
	if strings.TrimSpace(sourceText) == "" {
		return "", ErrEmptySource
	}

	text, err := c.AnalyzeCall(sourceText)(ctx)
	if err != nil {
		return "", err
	}
	if err := c.ApplyAnalysis(sourceText, text); err != nil {
		return "", err
	}
	return text, nil
}

// GenerateQuestion runs the stage-2 prompt and stores the draft.
func (c *Controller) GenerateQuestion(ctx context.Context) (string, error) {
	if c.state != StateAnalyzed && c.state != StateQuestionDraft {
		return "", &TransitionError{From: c.state, Trigger: "generate question"}
	}

	text, err := c.QuestionCall()(ctx)
	if err != nil {
		return "", err
	}
	if err := c.ApplyQuestion(text); err != nil {
		return "", err
	}
	return text, nil
}

// EditQuestion stores a user-edited question draft.
func (c *Controller) EditQuestion(text string) error {
	if c.state != StateQuestionDraft {
		return &TransitionError{From: c.state, Trigger: "edit question"}
	}
	return c.session.SetQuestion(text)
}

// LockQuestion finalizes the question. One-way within a session.
func (c *Controller) LockQuestion() error {
	if c.state != StateQuestionDraft {
		return &TransitionError{From: c.state, Trigger: "lock question"}
	}
	if strings.TrimSpace(c.session.Question()) == "" {
		return ErrEmptyDraft
	}
	c.session.lockQuestion()
	c.state = StateQuestionLocked
	return nil
}

// GenerateAnswer runs the stage-3 prompt against the locked question.
// Valid from QuestionLocked, and again from AnswerDraft while unlocked.
func (c *Controller) GenerateAnswer(ctx context.Context) (string, error) {
	if c.state != StateQuestionLocked && c.state != StateAnswerDraft {
		return "", &TransitionError{From: c.state, Trigger: "generate answer"}
	}

	text, err := c.AnswerCall()(ctx)
	if err != nil {
		return "", err
	}
	if err := c.ApplyAnswer(text); err != nil {
		return "", err
	}
	return text, nil
}

// EditAnswer stores a user-edited answer draft.
func (c *Controller) EditAnswer(text string) error {
	if c.state != StateAnswerDraft {
		return &TransitionError{From: c.state, Trigger: "edit answer"}
	}
	return c.session.SetAnswer(text)
}

// LockAndSave finalizes the answer, builds the record and writes it.
// A failed write keeps the session locked so Save can be retried; it
// leaves no partial record behind.
func (c *Controller) LockAndSave() (string, error) {
	switch c.state {
	case StateAnswerDraft:
		if strings.TrimSpace(c.session.Answer()) == "" {
			return "", ErrEmptyDraft
		}
		c.session.lockAnswer()
		c.state = StateAnswerLocked
	case StateAnswerLocked:
		if c.saved {
			return c.path, nil
		}
		// retrying a failed save
	default:
		return "", &TransitionError{From: c.state, Trigger: "lock and save"}
	}

	r := record.New(
		c.session.SourceText(),
		c.session.Question(),
		c.session.Answer(),
		c.session.Field(),
		c.session.Chinese(),
		c.now(),
	)
	path, err := c.writer.Write(r)
	if err != nil {
		return "", err
	}
	c.saved = true
	c.path = path
	return path, nil
}

// Reset returns the controller and its session to the initial state.
// Valid from any state; an unsaved session produces no record.
func (c *Controller) Reset() {
	c.session.Reset()
	c.state = StateEmpty
	c.saved = false
	c.path = ""
}
