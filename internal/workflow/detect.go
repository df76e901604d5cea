package workflow

import (
	"strings"
	"unicode/utf8"
)

// MinQuestionRunes is the advisory lower bound for a usable question
// draft. Shorter drafts are flagged but not blocked from locking.
const MinQuestionRunes = 100

// AnalysisPassed reports whether the stage-1 screening verdict marks the
// case as suitable (total score >= 6). The verdict is free text, so this
// mirrors the loose keyword check the screening prompt's output format
// makes possible.
func AnalysisPassed(analysis string) bool {
	upper := strings.ToUpper(analysis)
	return strings.Contains(upper, "YES") ||
		strings.Contains(analysis, "通过") ||
		strings.Contains(analysis, "≥6") ||
		strings.Contains(analysis, "总分")
}

// QuestionTooShort reports whether a question draft lacks enough
// background detail to be worth locking.
func QuestionTooShort(question string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(question)) < MinQuestionRunes
}
