// Package record defines the durable unit produced by a completed
// workflow session and the one-file-per-record JSON writer.
package record

import "time"

// TimestampLayout is the filename-safe creation-time identifier.
const TimestampLayout = "20060102_150405"

// Record is the immutable persisted unit. It is built exactly once,
// at the moment the answer stage is locked, and never updated in place.
// Field order matters: it is the on-disk key order.
type Record struct {
	Timestamp              string `json:"timestamp"`
	SourceText             string `json:"source_text"`
	Question               string `json:"question"`
	Answer                 string `json:"answer"`
	QuestionField          string `json:"question_field"`
	ChineseCharacteristics string `json:"chinese_characteristics"`
	CreatedAt              string `json:"created_at"`
}

// New builds a Record stamped with now.
func New(sourceText, question, answer, field, chinese string, now time.Time) *Record {
	return &Record{
		Timestamp:              now.Format(TimestampLayout),
		SourceText:             sourceText,
		Question:               question,
		Answer:                 answer,
		QuestionField:          field,
		ChineseCharacteristics: chinese,
		CreatedAt:              now.Format(time.RFC3339),
	}
}

// Filename returns the deterministic file name for the record,
// e.g. legal_data_20250101_120000.json.
func (r *Record) Filename() string {
	return "legal_data_" + r.Timestamp + ".json"
}
