package model

// SelectorKind identifies how an option narrows the candidate set.
type SelectorKind string

// Selector kinds.
const (
	// SelectorValue keeps candidates whose spec value equals a single string.
	SelectorValue SelectorKind = "VALUE"
	// SelectorSet keeps candidates whose spec value is one of several strings
	// (the folded "Other" option).
	SelectorSet SelectorKind = "SET"
	// SelectorNegation keeps candidates whose spec value differs from the
	// question's primary value (the "No" branch of a binary question).
	SelectorNegation SelectorKind = "NEGATION"
)

// Selector describes the filter an option applies when chosen.
type Selector struct {
	Kind   SelectorKind
	Value  string
	Values []string
}

// Option is one selectable answer to a question.
type Option struct {
	Label    string
	Selector Selector
	// ExpectedCount is the candidate count if this option is selected.
	// Informational only; it is not re-validated after the fact.
	ExpectedCount int
}

// Question asks the user to discriminate candidates on one spec level.
type Question struct {
	Prompt    string
	Options   []Option
	SpecLevel int // 1-based spec level the question interrogates
}

// PrimaryValue returns the most frequent value the question was built
// around, used to resolve negation selectors.
func (q *Question) PrimaryValue() string {
	for _, o := range q.Options {
		if o.Selector.Kind == SelectorValue {
			return o.Selector.Value
		}
	}
	return ""
}

// OptionByLabel returns the option with the given label, or nil.
func (q *Question) OptionByLabel(label string) *Option {
	for i := range q.Options {
		if q.Options[i].Label == label {
			return &q.Options[i]
		}
	}
	return nil
}
