package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/praetorian-inc/bpflint/pkg/types"
)

// Record is a match together with the file it was found in.
type Record struct {
	Path string `json:"path"`
	types.Match
}

// Records pairs every match with path.
func Records(path string, matches []types.Match) []Record {
	records := make([]Record, len(matches))
	for i, m := range matches {
		records[i] = Record{Path: path, Match: m}
	}
	return records
}

// WriteJSON writes records as an indented JSON array. No records yield
// an empty array rather than null.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}
