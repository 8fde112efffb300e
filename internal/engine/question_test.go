package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"htscompass/internal/catalog"
	"htscompass/internal/model"
)

// tableFromLevels builds a catalog table where each row is defined only by
// its spec levels. Codes and duty text are irrelevant to question
// generation.
func tableFromLevels(levels [][]string) *catalog.Table {
	records := make([]model.Record, len(levels))
	for i, lv := range levels {
		specs := make([]string, model.SpecLevelCount)
		copy(specs, lv)
		records[i] = model.Record{
			Code:       "0101210010",
			SpecLevels: specs,
		}
	}
	return catalog.NewTable(records)
}

func allRows(n int) model.CandidateSet {
	set := make(model.CandidateSet, n)
	for i := range set {
		set[i] = i
	}
	return set
}

func TestGenerator_Next_NoQuestionForSmallSets(t *testing.T) {
	g := NewGenerator(tableFromLevels([][]string{
		{"live"},
		{"processed"},
	}))

	q, err := g.Next(nil)
	require.NoError(t, err)
	assert.Nil(t, q)

	q, err = g.Next(model.CandidateSet{0})
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestGenerator_Next_BinaryQuestion(t *testing.T) {
	// 6 live rows, 4 processed rows: a two-value split at level 1.
	var levels [][]string
	for i := 0; i < 6; i++ {
		levels = append(levels, []string{"live"})
	}
	for i := 0; i < 4; i++ {
		levels = append(levels, []string{"processed"})
	}
	g := NewGenerator(tableFromLevels(levels))

	q, err := g.Next(allRows(10))
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, "Is it live?", q.Prompt)
	assert.Equal(t, 1, q.SpecLevel)
	require.Len(t, q.Options, 2)

	yes := q.Options[0]
	assert.Equal(t, "Yes", yes.Label)
	assert.Equal(t, model.SelectorValue, yes.Selector.Kind)
	assert.Equal(t, "live", yes.Selector.Value)
	assert.Equal(t, 6, yes.ExpectedCount)

	no := q.Options[1]
	assert.Equal(t, "No", no.Label)
	assert.Equal(t, model.SelectorNegation, no.Selector.Kind)
	assert.Equal(t, 4, no.ExpectedCount)
}

func TestGenerator_Next_BinaryArticles(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		prompt string
	}{
		{name: "consonant gets a", value: "horse", prompt: "Is it a horse?"},
		{name: "vowel gets an", value: "apple", prompt: "Is it an apple?"},
		{name: "purebred stays bare", value: "purebred", prompt: "Is it purebred?"},
		{name: "imported stays bare", value: "imported", prompt: "Is it imported?"},
		{name: "other prefix verbatim", value: "Other than purebred", prompt: "Is it other than purebred?"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(tableFromLevels([][]string{
				{tt.value},
				{tt.value},
				{"something else"},
			}))
			q, err := g.Next(allRows(3))
			require.NoError(t, err)
			require.NotNil(t, q)
			assert.Equal(t, tt.prompt, q.Prompt)
		})
	}
}

func TestGenerator_Next_SkipsLevelsWithoutSplit(t *testing.T) {
	// Level 1 is shared and level 2 is empty; level 3 holds the split.
	g := NewGenerator(tableFromLevels([][]string{
		{"cattle", "", "male"},
		{"cattle", "", "female"},
	}))

	q, err := g.Next(allRows(2))
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 3, q.SpecLevel)
}

func TestGenerator_Next_IgnoresEmptyValues(t *testing.T) {
	// Blank cells never become options; with only one distinct value left
	// the level cannot discriminate and the scan moves on.
	g := NewGenerator(tableFromLevels([][]string{
		{"live", "whole"},
		{"live", ""},
		{"live", "cut"},
	}))

	q, err := g.Next(allRows(3))
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, 2, q.SpecLevel)
	for _, o := range q.Options {
		assert.NotEqual(t, "Not specified", o.Label)
	}
}

func TestGenerator_Next_MultiChoice(t *testing.T) {
	g := NewGenerator(tableFromLevels([][]string{
		{"fresh"},
		{"fresh"},
		{"frozen"},
		{"dried"},
	}))

	q, err := g.Next(allRows(4))
	require.NoError(t, err)
	require.NotNil(t, q)

	assert.Equal(t, "What is the preservation method?", q.Prompt)
	require.Len(t, q.Options, 3)
	assert.Equal(t, "Fresh", q.Options[0].Label)
	assert.Equal(t, 2, q.Options[0].ExpectedCount)
	assert.Equal(t, "Frozen", q.Options[1].Label)
	assert.Equal(t, "Dried", q.Options[2].Label)

	total := 0
	for _, o := range q.Options {
		total += o.ExpectedCount
	}
	assert.Equal(t, 4, total, "option counts must partition the candidates")
}

func TestGenerator_Next_FoldsLongTailIntoOther(t *testing.T) {
	g := NewGenerator(tableFromLevels([][]string{
		{"alpha"}, {"alpha"}, {"alpha"},
		{"beta"}, {"beta"},
		{"gamma"}, {"gamma"},
		{"delta"},
		{"epsilon"},
	}))

	q, err := g.Next(allRows(9))
	require.NoError(t, err)
	require.NotNil(t, q)
	require.Len(t, q.Options, 4)

	assert.Equal(t, "Alpha", q.Options[0].Label)
	assert.Equal(t, "Beta", q.Options[1].Label)
	assert.Equal(t, "Gamma", q.Options[2].Label)

	other := q.Options[3]
	assert.Equal(t, "Other", other.Label)
	assert.Equal(t, model.SelectorSet, other.Selector.Kind)
	assert.ElementsMatch(t, []string{"delta", "epsilon"}, other.Selector.Values)
	assert.Equal(t, 2, other.ExpectedCount)
}

func TestGenerator_Next_TieBreakIsFirstSeen(t *testing.T) {
	// beta and gamma both appear twice; alpha (seen first) appears three
	// times. Among the equal-frequency pair, first-seen order decides.
	g := NewGenerator(tableFromLevels([][]string{
		{"beta"}, {"alpha"}, {"gamma"},
		{"alpha"}, {"gamma"}, {"beta"},
		{"alpha"},
	}))

	q, err := g.Next(allRows(7))
	require.NoError(t, err)
	require.NotNil(t, q)
	require.Len(t, q.Options, 3)
	assert.Equal(t, "Alpha", q.Options[0].Label)
	assert.Equal(t, "Beta", q.Options[1].Label)
	assert.Equal(t, "Gamma", q.Options[2].Label)
}

func TestGenerator_Next_SharedParentPrompt(t *testing.T) {
	g := NewGenerator(tableFromLevels([][]string{
		{"cattle", "dairy"},
		{"cattle", "beef"},
		{"cattle", "veal"},
	}))

	q, err := g.Next(allRows(3))
	require.NoError(t, err)
	require.NotNil(t, q)
	assert.Equal(t, `For "cattle", which of the following applies?`, q.Prompt)
}

func TestGenerator_Next_ExhaustedHierarchy(t *testing.T) {
	// Identical spec paths: no level discriminates, so there is no
	// question to ask.
	g := NewGenerator(tableFromLevels([][]string{
		{"live", "purebred"},
		{"live", "purebred"},
	}))

	q, err := g.Next(allRows(2))
	require.NoError(t, err)
	assert.Nil(t, q)
}

func TestGenerator_Next_InvalidCandidate(t *testing.T) {
	g := NewGenerator(tableFromLevels([][]string{{"live"}, {"processed"}}))

	_, err := g.Next(model.CandidateSet{0, 99})
	require.Error(t, err)
}
