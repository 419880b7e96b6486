package conflict

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

// CrossListTable maps a course-identity prefix to the merged identity
// shared by its jointly-listed counterparts. The table changes every
// term, so it is loaded from configuration rather than hardcoded.
type CrossListTable map[string]string

// Resolve returns the merged identity for a course-identity prefix, or
// the prefix itself when the course is not cross-listed.
func (table CrossListTable) Resolve(identity string) string {
	if merged, ok := table[identity]; ok {
		return merged
	}
	return identity
}

// LoadCrossListTable reads a cross-listing override table from a JSON
// object of identity-prefix to merged-identity entries.
func LoadCrossListTable(file string) (CrossListTable, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read cross-list file: %w", err)
	}

	var tableJson map[string]any
	if err := json.Unmarshal(bytes, &tableJson); err != nil {
		return nil, fmt.Errorf("cannot parse cross-list file %v: %w", file, err)
	}

	var table CrossListTable
	if err := mapstructure.Decode(tableJson, &table); err != nil {
		return nil, fmt.Errorf("cannot decode cross-list file %v: %w", file, err)
	}
	return table, nil
}
