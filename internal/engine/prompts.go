package engine

import (
	"fmt"
	"strings"
)

// promptRule maps a predicate over the distinct lowercase values at a spec
// level to a canned prompt. Rules are evaluated in declaration order and
// the first match wins, so new heuristics can be appended without
// restructuring the chain.
type promptRule struct {
	matches func(values []string) bool
	prompt  string
}

func anyContains(terms ...string) func([]string) bool {
	return func(values []string) bool {
		for _, v := range values {
			for _, t := range terms {
				if strings.Contains(v, t) {
					return true
				}
			}
		}
		return false
	}
}

var promptRules = []promptRule{
	{anyContains("imported"), "What is the import status?"},
	{anyContains("purebred", "breeding"), "What is the breeding type?"},
	{anyContains("male", "female"), "What is the gender?"},
	{anyContains("live"), "Is it live or processed?"},
	{anyContains("whole", "cut", "pieces"), "What is the form?"},
	{anyContains("fresh", "frozen", "dried"), "What is the preservation method?"},
}

// articleless terms read wrong with an indefinite article in front.
var articleless = map[string]bool{
	"purebred": true,
	"breeding": true,
	"imported": true,
	"live":     true,
}

// formatBinaryValue phrases a spec value for a yes/no question, choosing
// "a"/"an" by leading vowel. Values already starting with "other" and a
// fixed set of article-less terms are used verbatim.
func formatBinaryValue(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || strings.HasPrefix(v, "other") {
		return v
	}
	if strings.ContainsRune("aeiou", rune(v[0])) {
		return "an " + v
	}
	if !articleless[v] {
		return "a " + v
	}
	return v
}

// formatOptionLabel capitalizes a value for display. Empty values never
// reach here in practice since they are excluded upstream, but guard the
// formatting anyway.
func formatOptionLabel(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return "Not specified"
	}
	return strings.ToUpper(v[:1]) + strings.ToLower(v[1:])
}

// multiChoicePrompt produces the prompt text for a multi-option question.
// Layered heuristics: a shared parent value at the previous level wins,
// then the keyword rule table, then a generic prompt keyed by depth.
func multiChoicePrompt(level int, sharedParent string, distinctValues []string) string {
	if sharedParent != "" {
		return fmt.Sprintf("For %q, which of the following applies?", sharedParent)
	}

	lowered := make([]string, 0, len(distinctValues))
	for _, v := range distinctValues {
		if v != "" {
			lowered = append(lowered, strings.ToLower(v))
		}
	}
	for _, rule := range promptRules {
		if rule.matches(lowered) {
			return rule.prompt
		}
	}

	switch level {
	case 1:
		return "What type of product is it?"
	case 2:
		return "What specific variety?"
	default:
		return "Select the specific characteristic:"
	}
}
