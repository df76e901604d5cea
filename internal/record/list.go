package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Info is a lightweight summary of a saved record (for listing).
type Info struct {
	Timestamp string
	Field     string
	Question  string
	Path      string
}

// List scans dir for legal_data_*.json files and returns their summaries,
// newest first. Files that fail to decode are skipped silently; a missing
// directory yields an empty list.
func List(dir string) ([]Info, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "legal_data_*.json"))
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}

	var infos []Info
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var r Record
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		infos = append(infos, Info{
			Timestamp: r.Timestamp,
			Field:     r.QuestionField,
			Question:  r.Question,
			Path:      path,
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Timestamp > infos[j].Timestamp
	})
	return infos, nil
}
