// Package locator resolves a raw user query into an initial candidate set.
// Exact-code and prefix queries are answered from the in-memory table;
// free-text queries delegate to the external semantic search collaborator.
package locator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"htscompass/internal/catalog"
	"htscompass/internal/common"
	"htscompass/internal/model"
	"htscompass/internal/service"
)

// MatchKind reports how a query was interpreted.
type MatchKind string

// Match kinds.
const (
	MatchExact    MatchKind = "exact"
	MatchPrefix   MatchKind = "prefix"
	MatchSemantic MatchKind = "semantic"
)

// Recognized partial code lengths for prefix lookup.
var prefixLengths = map[int]bool{4: true, 6: true}

// DefaultSearchLimit caps free-text search results.
const DefaultSearchLimit = 200

// exactSearchLimit caps the collaborator fallback for exact-code queries.
const exactSearchLimit = 10

// Locator classifies queries and produces starting candidate sets.
type Locator struct {
	table    *catalog.Table
	searcher service.Searcher
	limit    int
}

// New creates a locator over the given table and search collaborator.
func New(table *catalog.Table, searcher service.Searcher, limit int) *Locator {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Locator{table: table, searcher: searcher, limit: limit}
}

// Locate resolves a query into a candidate set. An empty set is a valid
// "no match" outcome, not an error; collaborator failures surface as
// ErrUpstreamUnavailable, never as a silent empty set.
func (l *Locator) Locate(ctx context.Context, query string) (model.CandidateSet, MatchKind, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, "", fmt.Errorf("%w: empty query", common.ErrInvalidInput)
	}

	digits, isCode := codeDigits(q)
	switch {
	case isCode && len(digits) == model.CodeLength:
		set := l.table.FindExact(digits)
		if len(set) > 0 {
			slog.Debug("exact code matched locally", "code", digits, "rows", len(set))
			return set, MatchExact, nil
		}
		// Not in the table; ask the collaborator for an exact-filtered
		// search and pass its report through unranked.
		set, err := l.search(ctx, digits, exactSearchLimit, service.SearchFilter{ExactCode: digits})
		if err != nil {
			return nil, "", err
		}
		return set, MatchExact, nil

	case isCode && prefixLengths[len(digits)]:
		return l.table.FindPrefix(digits), MatchPrefix, nil

	default:
		set, err := l.search(ctx, q, l.limit, service.SearchFilter{})
		if err != nil {
			return nil, "", err
		}
		return set, MatchSemantic, nil
	}
}

func (l *Locator) search(ctx context.Context, query string, limit int, filter service.SearchFilter) (model.CandidateSet, error) {
	if l.searcher == nil {
		return nil, fmt.Errorf("%w: no search service configured", common.ErrUpstreamUnavailable)
	}
	hits, err := l.searcher.Search(ctx, query, limit, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err)
	}

	set := make(model.CandidateSet, 0, len(hits))
	seen := make(map[int]bool, len(hits))
	for _, h := range hits {
		if h.RowIndex < 0 || h.RowIndex >= l.table.Len() || seen[h.RowIndex] {
			continue
		}
		seen[h.RowIndex] = true
		set = append(set, h.RowIndex)
	}
	return set, nil
}

// codeDigits strips separators from a candidate code query. The second
// return is false when the query contains anything besides digits, dots,
// and spaces, meaning it should be treated as free text.
func codeDigits(q string) (string, bool) {
	var b strings.Builder
	for _, r := range q {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == ' ':
			// separator
		default:
			return "", false
		}
	}
	return b.String(), b.Len() > 0
}
