// Package model defines the core domain models used throughout the application.
package model

import "strings"

// CodeLength is the number of digits in a complete classification code.
const CodeLength = 10

// SpecLevelCount is the number of specification columns in the catalog.
const SpecLevelCount = 10

// Record represents one terminal entry in the classification catalog.
// Spec levels and duty fields are already flattened: each duty field holds
// the value inherited from the nearest ancestor row that set one.
type Record struct {
	Code            string // digits only, CodeLength long
	RawCode         string // as declared in the source, separators intact
	BaseDescription string
	Unit            string
	GeneralRate     string
	SpecialRate     string
	Column2Rate     string
	SpecLevels      []string // index 0 is spec level 1
	IndentLevel     int
}

// SpecLevel returns the trimmed value at the 1-based spec level, or "" when
// the level is out of range.
func (r *Record) SpecLevel(level int) string {
	if level < 1 || level > len(r.SpecLevels) {
		return ""
	}
	return strings.TrimSpace(r.SpecLevels[level-1])
}

// SpecPath joins the non-empty spec levels into a display path.
func (r *Record) SpecPath() string {
	parts := make([]string, 0, len(r.SpecLevels))
	for _, v := range r.SpecLevels {
		if s := strings.TrimSpace(v); s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return "No specifications"
	}
	return strings.Join(parts, " > ")
}

// CandidateSet is an ordered set of row indices into a catalog table.
// Callers must treat an empty set as an error, never as a state to question
// against.
type CandidateSet []int

// Contains reports whether idx is a member of the set.
func (c CandidateSet) Contains(idx int) bool {
	for _, i := range c {
		if i == idx {
			return true
		}
	}
	return false
}
