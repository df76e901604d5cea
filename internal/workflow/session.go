// Package workflow implements the three-stage lock-gated pipeline:
// analyze the case, draft a question, draft an answer, each stage
// finalized by a one-way lock, with the completed session persisted
// as a single record.
package workflow

import "errors"

// ErrStageLocked is reported when a write hits a locked stage.
// Locking is a logical write-barrier: once a stage is locked, only a
// full reset makes its text mutable again.
var ErrStageLocked = errors.New("stage is locked")

// Default session metadata, carried into the saved record.
const (
	DefaultField   = "法律/金融/资本市场/证券与上市(IPO)"
	DefaultChinese = "是"
)

// Session is the per-user stage state store: the current text for each
// stage plus a lock flag per editable stage. One Session belongs to one
// user interaction and is never shared; it produces zero or one records.
type Session struct {
	sourceText string
	analysis   string
	question   string
	answer     string

	questionLocked bool
	answerLocked   bool

	// Record metadata chosen by the user alongside the drafts.
	field   string
	chinese string
}

// NewSession returns an empty session with default metadata.
func NewSession() *Session {
	return &Session{
		field:   DefaultField,
		chinese: DefaultChinese,
	}
}

func (s *Session) SourceText() string { return s.sourceText }
func (s *Session) Analysis() string   { return s.analysis }
func (s *Session) Question() string   { return s.question }
func (s *Session) Answer() string     { return s.answer }

func (s *Session) QuestionLocked() bool { return s.questionLocked }
func (s *Session) AnswerLocked() bool   { return s.answerLocked }

func (s *Session) Field() string   { return s.field }
func (s *Session) Chinese() string { return s.chinese }

func (s *Session) SetField(v string)   { s.field = v }
func (s *Session) SetChinese(v string) { s.chinese = v }

// SetSourceText stores the raw case text. The analysis derives from it,
// so the controller only allows this before the analyze transition.
func (s *Session) SetSourceText(text string) {
	s.sourceText = text
}

func (s *Session) setAnalysis(text string) {
	s.analysis = text
}

// SetQuestion overwrites the question draft. Rejected once locked.
func (s *Session) SetQuestion(text string) error {
	if s.questionLocked {
		return ErrStageLocked
	}
	s.question = text
	return nil
}

// SetAnswer overwrites the answer draft. Rejected once locked.
func (s *Session) SetAnswer(text string) error {
	if s.answerLocked {
		return ErrStageLocked
	}
	s.answer = text
	return nil
}

func (s *Session) lockQuestion() { s.questionLocked = true }
func (s *Session) lockAnswer()   { s.answerLocked = true }

// Reset clears all stage texts and all locks. The metadata fields
// survive: they describe the dataset being built, not one case, so the
// next record keeps the configured domain label.
func (s *Session) Reset() {
	*s = Session{field: s.field, chinese: s.chinese}
}
