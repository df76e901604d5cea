package workflow

import (
	"errors"
	"testing"
)

func TestSessionWriteBarrier(t *testing.T) {
	s := NewSession()

	if err := s.SetQuestion("draft"); err != nil {
		t.Fatalf("SetQuestion: %v", err)
	}
	s.lockQuestion()
	if err := s.SetQuestion("after lock"); !errors.Is(err, ErrStageLocked) {
		t.Fatalf("err = %v, want ErrStageLocked", err)
	}
	if s.Question() != "draft" {
		t.Errorf("locked question changed to %q", s.Question())
	}

	if err := s.SetAnswer("answer draft"); err != nil {
		t.Fatalf("SetAnswer: %v", err)
	}
	s.lockAnswer()
	if err := s.SetAnswer("after lock"); !errors.Is(err, ErrStageLocked) {
		t.Fatalf("err = %v, want ErrStageLocked", err)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession()
	s.SetSourceText("case")
	s.setAnalysis("analysis")
	_ = s.SetQuestion("q")
	s.lockQuestion()
	_ = s.SetAnswer("a")
	s.lockAnswer()
	s.SetField("法律/刑法/刑事案例分析")
	s.SetChinese("否")

	s.Reset()

	if s.SourceText() != "" || s.Analysis() != "" || s.Question() != "" || s.Answer() != "" {
		t.Error("reset left text fields populated")
	}
	if s.QuestionLocked() || s.AnswerLocked() {
		t.Error("reset left lock flags set")
	}
	// Metadata describes the dataset, not the case: it survives resets.
	if s.Field() != "法律/刑法/刑事案例分析" || s.Chinese() != "否" {
		t.Errorf("reset discarded metadata: field = %q, chinese = %q", s.Field(), s.Chinese())
	}

	// Fields are editable again after reset.
	if err := s.SetQuestion("fresh"); err != nil {
		t.Fatalf("SetQuestion after reset: %v", err)
	}
}
