package engine

import (
	"fmt"

	"htscompass/internal/model"
)

// ApplyAnswer narrows candidates by the chosen option's selector, against
// the question that produced the options. An unrecognized selector kind is
// a programming error, not a user-facing failure.
func (g *Generator) ApplyAnswer(candidates model.CandidateSet, q *model.Question, sel model.Selector) (model.CandidateSet, error) {
	var keep func(value string) bool
	switch sel.Kind {
	case model.SelectorValue:
		keep = func(value string) bool { return value == sel.Value }
	case model.SelectorSet:
		members := make(map[string]bool, len(sel.Values))
		for _, v := range sel.Values {
			members[v] = true
		}
		keep = func(value string) bool { return members[value] }
	case model.SelectorNegation:
		primary := q.PrimaryValue()
		keep = func(value string) bool { return value != primary }
	default:
		return nil, fmt.Errorf("unknown selector kind %q", sel.Kind)
	}

	var narrowed model.CandidateSet
	for _, idx := range candidates {
		rec, err := g.table.Record(idx)
		if err != nil {
			return nil, fmt.Errorf("invalid candidate: %w", err)
		}
		if keep(rec.SpecLevel(q.SpecLevel)) {
			narrowed = append(narrowed, idx)
		}
	}
	return narrowed, nil
}
