// Package catalog holds the in-memory classification table the engines
// query. Records are immutable once the table is built; one long-lived
// table is constructed at startup and injected into every consumer.
package catalog

import (
	"fmt"
	"strings"

	"htscompass/internal/common"
	"htscompass/internal/model"
)

// Table is the full set of classification records, addressable by stable
// row index.
type Table struct {
	records    []model.Record
	specLevels int
}

// NewTable builds a table over the given records. Row indices are the
// positions in the slice.
func NewTable(records []model.Record) *Table {
	levels := model.SpecLevelCount
	if len(records) > 0 {
		levels = len(records[0].SpecLevels)
	}
	return &Table{records: records, specLevels: levels}
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.records)
}

// SpecLevelCount returns the number of specification columns.
func (t *Table) SpecLevelCount() int {
	return t.specLevels
}

// Record returns the record at the given row index.
func (t *Table) Record(idx int) (*model.Record, error) {
	if idx < 0 || idx >= len(t.records) {
		return nil, fmt.Errorf("row %d: %w", idx, common.ErrNotFound)
	}
	return &t.records[idx], nil
}

// FindExact returns every row whose normalized code equals the given
// digit string, in table order. Codes are not unique in every source
// edition, so ties are all returned.
func (t *Table) FindExact(code string) model.CandidateSet {
	var set model.CandidateSet
	for i := range t.records {
		if t.records[i].Code == code {
			set = append(set, i)
		}
	}
	return set
}

// FindPrefix returns every row whose normalized code starts with the given
// digits, in table order.
func (t *Table) FindPrefix(prefix string) model.CandidateSet {
	var set model.CandidateSet
	for i := range t.records {
		if strings.HasPrefix(t.records[i].Code, prefix) {
			set = append(set, i)
		}
	}
	return set
}

// NormalizeCode strips everything but digits from a code string.
func NormalizeCode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
