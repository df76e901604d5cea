package record

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2025, 6, 1, 12, 30, 45, 0, time.UTC)

func testRecord() *Record {
	return New(
		"被告人张某犯盗窃罪……",
		"请分析本案中各行为人的罪名认定。",
		"构成盗窃罪。",
		"法律/刑法/刑事案例分析",
		"是",
		testTime,
	)
}

func TestWriteRecord(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	path, err := w.Write(testRecord())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "legal_data_20250601_123045.json" {
		t.Errorf("filename = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := *testRecord()
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if got.CreatedAt != "2025-06-01T12:30:45Z" {
		t.Errorf("CreatedAt = %q", got.CreatedAt)
	}

	raw := string(data)
	// Chinese text is stored verbatim, not as \u escapes.
	if !strings.Contains(raw, "盗窃罪") {
		t.Error("non-ASCII content was escaped")
	}
	// On-disk key order matches the record layout.
	order := []string{`"timestamp"`, `"source_text"`, `"question"`, `"answer"`, `"question_field"`, `"chinese_characteristics"`, `"created_at"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(raw, key)
		if idx < 0 {
			t.Fatalf("key %s missing", key)
		}
		if idx < last {
			t.Errorf("key %s out of order", key)
		}
		last = idx
	}
}

func TestWriteCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w := NewWriter(dir)

	if _, err := w.Write(testRecord()); err != nil {
		t.Fatalf("Write into missing directory: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestWriteSameSecondCollides(t *testing.T) {
	w := NewWriter(t.TempDir())

	if _, err := w.Write(testRecord()); err != nil {
		t.Fatalf("first write: %v", err)
	}
	_, err := w.Write(testRecord())
	if !errors.Is(err, ErrExists) {
		t.Fatalf("second write err = %v, want ErrExists", err)
	}
}

func TestWriteDirectoryFailure(t *testing.T) {
	// A regular file where the directory should be makes MkdirAll fail.
	base := t.TempDir()
	blocked := filepath.Join(base, "not-a-dir")
	if err := os.WriteFile(blocked, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	w := NewWriter(blocked)
	if _, err := w.Write(testRecord()); err == nil {
		t.Fatal("Write should fail when the directory cannot be created")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	older := New("s1", "q1", "a1", "法律/刑法/刑事案例分析", "是", testTime)
	newer := New("s2", "q2", "a2", "金融/投资分析", "否", testTime.Add(time.Minute))
	for _, r := range []*Record{older, newer} {
		if _, err := w.Write(r); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	// Unrelated and malformed files are skipped.
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "legal_data_bad.json"), []byte("{"), 0644)

	infos, err := List(dir)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("len = %d, want 2", len(infos))
	}
	if infos[0].Timestamp != newer.Timestamp || infos[1].Timestamp != older.Timestamp {
		t.Errorf("not sorted newest first: %v, %v", infos[0].Timestamp, infos[1].Timestamp)
	}
	if infos[0].Field != "金融/投资分析" || infos[0].Question != "q2" {
		t.Errorf("info fields = %+v", infos[0])
	}
}

func TestListMissingDirectory(t *testing.T) {
	infos, err := List(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("len = %d, want 0", len(infos))
	}
}
