// Package prompt holds the three stage prompt templates as plain
// configuration data: an embedded system prompt plus a user-prompt
// format string and fixed sampling parameters per stage.
package prompt

import (
	_ "embed"
	"fmt"
)

//go:embed analysis.md
var analysisSystem string

//go:embed question.md
var questionSystem string

//go:embed answer.md
var answerSystem string

// Stage identifies one of the three workflow phases.
type Stage int

const (
	StageAnalysis Stage = iota
	StageQuestion
	StageAnswer
)

func (s Stage) String() string {
	switch s {
	case StageAnalysis:
		return "analysis"
	case StageQuestion:
		return "question"
	case StageAnswer:
		return "answer"
	default:
		return "unknown"
	}
}

// Spec is a fully rendered prompt ready to send to the LLM.
type Spec struct {
	Stage       Stage
	System      string
	User        string
	Temperature float64
}

const (
	analysisUserTemplate = "请分析以下判决文本：\n\n%s"
	questionUserTemplate = "请根据以下案情生成一道法律题目：\n\n%s"

	answerUserTemplate = `请根据以下人工审核过的题目和案件详情，生成详细的解题思路和标准答案：

【题目和问题】
%s

【案件详情（来自PDF文件）】
%s

请按照以下结构组织你的回答：

## 一、解题思路

### 1. 问题分析
（识别题目中的关键法律问题、争议焦点等）

### 2. 案件事实梳理
（从案件详情中提取与题目相关的关键事实）

### 3. 法律依据
（引用相关的法律条文、司法解释、判例等）

### 4. 推理过程
（逐步分析案件的逻辑链条，说明如何从事实推导出结论）

### 5. 结论形成
（基于以上分析，形成最终结论）

## 二、标准答案

（给出完整、准确、专业的标准答案，确保答案基于案件详情，逻辑严密，具有说服力）
`
)

// Analysis builds the stage-1 prompt: screen the raw case text for
// benchmark suitability (multi-charge complexity, retrieval dependence).
func Analysis(sourceText string) *Spec {
	return &Spec{
		Stage:       StageAnalysis,
		System:      analysisSystem,
		User:        fmt.Sprintf(analysisUserTemplate, sourceText),
		Temperature: 0.7,
	}
}

// Question builds the stage-2 prompt: rework the case material into a
// benchmark question.
func Question(sourceText string) *Spec {
	return &Spec{
		Stage:       StageQuestion,
		System:      questionSystem,
		User:        fmt.Sprintf(questionUserTemplate, sourceText),
		Temperature: 0.8,
	}
}

// Answer builds the stage-3 prompt: produce the reference answer for the
// locked question against the original case details.
func Answer(question, sourceText string) *Spec {
	return &Spec{
		Stage:       StageAnswer,
		System:      answerSystem,
		User:        fmt.Sprintf(answerUserTemplate, question, sourceText),
		Temperature: 0.7,
	}
}
