// Package session owns per-session classification state and its lifecycle.
// The store is the only process-wide shared mutable state in the core; all
// transitions run under the store lock and mutate state only after the
// input has been fully validated.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"htscompass/internal/common"
	"htscompass/internal/engine"
	"htscompass/internal/model"
)

// Store is an in-memory session store. Sessions do not survive the
// process; terminal or abandoned sessions are pruned.
type Store struct {
	generator *engine.Generator
	sessions  map[string]*model.Session
	mu        sync.Mutex
}

// NewStore creates a session store driven by the given question generator.
func NewStore(generator *engine.Generator) *Store {
	return &Store{
		generator: generator,
		sessions:  make(map[string]*model.Session),
	}
}

// Create starts a session over an initial candidate set. A single
// candidate resolves immediately; an empty set is a caller error.
func (s *Store) Create(query string, candidates model.CandidateSet) (*model.Session, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: empty initial candidate set", common.ErrInvalidInput)
	}

	sess := &model.Session{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now(),
		InitialQuery: query,
		Candidates:   append(model.CandidateSet(nil), candidates...),
		Status:       model.StatusActiveNoQuestion,
	}
	if len(candidates) == 1 {
		idx := candidates[0]
		sess.ResolvedIndex = &idx
		sess.Status = model.StatusResolved
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	slog.Debug("session created",
		"session_id", sess.ID,
		"candidates", len(candidates),
		"status", sess.Status)
	return snapshot(sess), nil
}

// Get returns a snapshot of the session.
func (s *Store) Get(id string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	return snapshot(sess), nil
}

// Question returns the session's current question, generating one if the
// session has none yet. A nil question with a nil error means no level can
// discriminate the remaining candidates; the session moves to EXHAUSTED
// (or RESOLVED when a single candidate remains) and the caller should
// present the remainder directly.
func (s *Store) Question(id string) (*model.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrSessionNotFound
	}

	switch sess.Status {
	case model.StatusAwaitingAnswer:
		return sess.CurrentQuestion, nil
	case model.StatusResolved, model.StatusExhausted:
		return nil, nil
	}

	q, err := s.generator.Next(sess.Candidates)
	if err != nil {
		return nil, fmt.Errorf("failed to generate question: %w", err)
	}
	if q == nil {
		if len(sess.Candidates) == 1 {
			idx := sess.Candidates[0]
			sess.ResolvedIndex = &idx
			sess.Status = model.StatusResolved
		} else {
			sess.Status = model.StatusExhausted
		}
		return nil, nil
	}

	sess.CurrentQuestion = q
	sess.Status = model.StatusAwaitingAnswer
	return q, nil
}

// Answer applies the option with the given label to the current question
// and returns the updated session snapshot. Validation happens before any
// mutation, so a rejected answer leaves the session exactly as it was.
func (s *Store) Answer(id, label string) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, common.ErrSessionNotFound
	}
	if sess.Status.Terminal() {
		return nil, fmt.Errorf("%w: %s", common.ErrSessionClosed, sess.Status)
	}
	if sess.Status != model.StatusAwaitingAnswer || sess.CurrentQuestion == nil {
		return nil, common.ErrNotAwaiting
	}

	q := sess.CurrentQuestion
	opt := q.OptionByLabel(label)
	if opt == nil {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownOption, label)
	}

	narrowed, err := s.generator.ApplyAnswer(sess.Candidates, q, opt.Selector)
	if err != nil {
		return nil, fmt.Errorf("failed to apply answer: %w", err)
	}
	if len(narrowed) == 0 {
		// Option counts guarantee a non-empty result; reaching this means
		// the table and question disagree.
		return nil, fmt.Errorf("%w after answer %q", common.ErrNoCandidates, label)
	}

	sess.History = append(sess.History, model.AnswerRecord{Prompt: q.Prompt, Label: label})
	sess.CurrentQuestion = nil
	sess.Candidates = narrowed
	if len(narrowed) == 1 {
		idx := narrowed[0]
		sess.ResolvedIndex = &idx
		sess.Status = model.StatusResolved
	} else {
		sess.Status = model.StatusActiveNoQuestion
	}

	slog.Debug("answer applied",
		"session_id", id,
		"label", label,
		"remaining", len(narrowed),
		"status", sess.Status)
	return snapshot(sess), nil
}

// Delete discards a session.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PruneOlderThan discards sessions created before the cutoff and returns
// how many were removed. Used to reap abandoned sessions.
func (s *Store) PruneOlderThan(age time.Duration) int {
	cutoff := time.Now().Add(-age)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.CreatedAt.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// snapshot copies a session so callers cannot mutate stored state.
func snapshot(sess *model.Session) *model.Session {
	out := *sess
	out.Candidates = append(model.CandidateSet(nil), sess.Candidates...)
	out.History = append([]model.AnswerRecord(nil), sess.History...)
	if sess.ResolvedIndex != nil {
		idx := *sess.ResolvedIndex
		out.ResolvedIndex = &idx
	}
	if sess.CurrentQuestion != nil {
		q := *sess.CurrentQuestion
		q.Options = append([]model.Option(nil), sess.CurrentQuestion.Options...)
		out.CurrentQuestion = &q
	}
	return &out
}
