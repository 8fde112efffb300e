// Package engine implements the interactive disambiguation engine: greedy
// question generation over the specification hierarchy and answer-driven
// narrowing of candidate sets. All operations are pure, synchronous
// computations over the injected catalog table.
package engine

import (
	"fmt"

	"htscompass/internal/catalog"
	"htscompass/internal/model"
)

// maxIndividualOptions caps the option list of a multi-choice question.
// Beyond this, the top three values stay individual and the rest fold into
// a single "Other" option.
const maxIndividualOptions = 4

// Generator proposes the next discriminating question for a candidate set.
type Generator struct {
	table *catalog.Table
}

// NewGenerator creates a generator over the given catalog table.
func NewGenerator(table *catalog.Table) *Generator {
	return &Generator{table: table}
}

// valueCount is one distinct spec value with its candidate frequency.
// Slice order is first-seen candidate order, which also serves as the
// deterministic tie-break among equal frequencies.
type valueCount struct {
	value string
	count int
}

// Next returns the question that best discriminates the candidates, or nil
// when the set has at most one member or no spec level splits it. Levels
// are scanned shallowest first; the first level with at least two distinct
// non-empty values wins and scanning stops there.
func (g *Generator) Next(candidates model.CandidateSet) (*model.Question, error) {
	if len(candidates) <= 1 {
		return nil, nil
	}

	for level := 1; level <= g.table.SpecLevelCount(); level++ {
		counts, err := g.countValues(candidates, level)
		if err != nil {
			return nil, err
		}
		if len(counts) < 2 {
			continue
		}

		sortByCount(counts)

		if len(counts) == 2 {
			return binaryQuestion(level, counts), nil
		}
		return g.multiChoiceQuestion(candidates, level, counts)
	}

	return nil, nil
}

// countValues tallies the trimmed non-empty values at a spec level.
// Empty values never participate in counts or options.
func (g *Generator) countValues(candidates model.CandidateSet, level int) ([]valueCount, error) {
	var counts []valueCount
	index := make(map[string]int)
	for _, idx := range candidates {
		rec, err := g.table.Record(idx)
		if err != nil {
			return nil, fmt.Errorf("invalid candidate: %w", err)
		}
		v := rec.SpecLevel(level)
		if v == "" {
			continue
		}
		if pos, ok := index[v]; ok {
			counts[pos].count++
			continue
		}
		index[v] = len(counts)
		counts = append(counts, valueCount{value: v, count: 1})
	}
	return counts, nil
}

// sortByCount orders by descending frequency, keeping first-seen order
// among equal counts. Insertion sort keeps the stability explicit.
func sortByCount(counts []valueCount) {
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j].count > counts[j-1].count; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}
}

// binaryQuestion phrases a two-value split as yes/no. "Yes" selects the
// most frequent value; "No" is a negation carrying everything else.
func binaryQuestion(level int, counts []valueCount) *model.Question {
	main := counts[0]
	rest := 0
	for _, c := range counts[1:] {
		rest += c.count
	}
	return &model.Question{
		SpecLevel: level,
		Prompt:    fmt.Sprintf("Is it %s?", formatBinaryValue(main.value)),
		Options: []model.Option{
			{
				Label:         "Yes",
				Selector:      model.Selector{Kind: model.SelectorValue, Value: main.value},
				ExpectedCount: main.count,
			},
			{
				Label:         "No",
				Selector:      model.Selector{Kind: model.SelectorNegation},
				ExpectedCount: rest,
			},
		},
	}
}

func (g *Generator) multiChoiceQuestion(candidates model.CandidateSet, level int, counts []valueCount) (*model.Question, error) {
	var options []model.Option
	if len(counts) > maxIndividualOptions {
		for _, c := range counts[:3] {
			options = append(options, model.Option{
				Label:         formatOptionLabel(c.value),
				Selector:      model.Selector{Kind: model.SelectorValue, Value: c.value},
				ExpectedCount: c.count,
			})
		}
		folded := counts[3:]
		otherCount := 0
		otherValues := make([]string, 0, len(folded))
		for _, c := range folded {
			otherCount += c.count
			otherValues = append(otherValues, c.value)
		}
		if otherCount > 0 {
			options = append(options, model.Option{
				Label:         "Other",
				Selector:      model.Selector{Kind: model.SelectorSet, Values: otherValues},
				ExpectedCount: otherCount,
			})
		}
	} else {
		for _, c := range counts {
			options = append(options, model.Option{
				Label:         formatOptionLabel(c.value),
				Selector:      model.Selector{Kind: model.SelectorValue, Value: c.value},
				ExpectedCount: c.count,
			})
		}
	}

	parent, err := g.sharedParentValue(candidates, level)
	if err != nil {
		return nil, err
	}
	distinct := make([]string, len(counts))
	for i, c := range counts {
		distinct[i] = c.value
	}

	return &model.Question{
		SpecLevel: level,
		Prompt:    multiChoicePrompt(level, parent, distinct),
		Options:   options,
	}, nil
}

// sharedParentValue returns the single non-empty value every candidate has
// at the immediately shallower spec level, or "" when candidates disagree
// or the level is the shallowest.
func (g *Generator) sharedParentValue(candidates model.CandidateSet, level int) (string, error) {
	if level <= 1 {
		return "", nil
	}
	shared := ""
	for _, idx := range candidates {
		rec, err := g.table.Record(idx)
		if err != nil {
			return "", fmt.Errorf("invalid candidate: %w", err)
		}
		v := rec.SpecLevel(level - 1)
		if v == "" {
			return "", nil
		}
		if shared == "" {
			shared = v
		} else if shared != v {
			return "", nil
		}
	}
	return shared, nil
}
