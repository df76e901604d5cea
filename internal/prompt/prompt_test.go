package prompt

import (
	"strings"
	"testing"
)

const caseText = "被告人张某犯盗窃罪……"

func TestAnalysisSpec(t *testing.T) {
	spec := Analysis(caseText)

	if spec.Stage != StageAnalysis {
		t.Errorf("Stage = %v", spec.Stage)
	}
	if spec.Temperature != 0.7 {
		t.Errorf("Temperature = %v", spec.Temperature)
	}
	if !strings.Contains(spec.System, "1-5 分") {
		t.Error("analysis system prompt missing scoring rubric")
	}
	if !strings.Contains(spec.User, caseText) {
		t.Error("analysis user prompt missing source text")
	}
}

func TestQuestionSpec(t *testing.T) {
	spec := Question(caseText)

	if spec.Stage != StageQuestion {
		t.Errorf("Stage = %v", spec.Stage)
	}
	if spec.Temperature != 0.8 {
		t.Errorf("Temperature = %v", spec.Temperature)
	}
	if !strings.Contains(spec.User, caseText) {
		t.Error("question user prompt missing source text")
	}
}

func TestAnswerSpec(t *testing.T) {
	question := "请结合《刑法》分析本案罪名认定。"
	spec := Answer(question, caseText)

	if spec.Stage != StageAnswer {
		t.Errorf("Stage = %v", spec.Stage)
	}
	if spec.Temperature != 0.7 {
		t.Errorf("Temperature = %v", spec.Temperature)
	}
	// The answer prompt carries both the locked question and the case
	// details, question first.
	qi := strings.Index(spec.User, question)
	si := strings.Index(spec.User, caseText)
	if qi < 0 || si < 0 {
		t.Fatal("answer user prompt missing question or source text")
	}
	if qi > si {
		t.Error("question should precede case details in the answer prompt")
	}
	if !strings.Contains(spec.User, "## 二、标准答案") {
		t.Error("answer user prompt missing output structure")
	}
}

func TestStageString(t *testing.T) {
	tests := []struct {
		stage Stage
		want  string
	}{
		{StageAnalysis, "analysis"},
		{StageQuestion, "question"},
		{StageAnswer, "answer"},
		{Stage(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.stage.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.stage, got, tt.want)
		}
	}
}
