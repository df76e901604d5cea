package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrExists is reported when a record for the same second already exists.
// Two saves within one second are an accepted edge case; the policy here
// is to fail the save rather than overwrite, so the caller can retry.
var ErrExists = errors.New("record file already exists")

// Writer persists records as individual JSON files in a directory.
type Writer struct {
	dir string
}

// NewWriter returns a Writer for dir. The directory is created lazily on
// the first Write so a misconfigured path fails the save, not startup.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Write serializes r to its own file and returns the full path.
// The file is created with O_EXCL so concurrent sessions can never
// corrupt each other; key order and indentation match the record layout
// (two-space indent, non-ASCII kept verbatim). A failed encode removes
// the partial file so no partial records exist on disk.
func (w *Writer) Write(r *Record) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(w.dir, r.Filename())
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrExists, path)
		}
		return "", fmt.Errorf("create record file: %w", err)
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("encode record: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close record file: %w", err)
	}
	return path, nil
}
