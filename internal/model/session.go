package model

import "time"

// SessionStatus tracks where a classification session is in its lifecycle.
type SessionStatus string

// Session status constants.
const (
	// StatusActiveNoQuestion means candidates are narrowed but no question
	// has been generated yet.
	StatusActiveNoQuestion SessionStatus = "ACTIVE_NO_QUESTION"
	// StatusAwaitingAnswer means a question is pending an answer.
	StatusAwaitingAnswer SessionStatus = "ACTIVE_AWAITING_ANSWER"
	// StatusResolved means exactly one candidate remains; terminal.
	StatusResolved SessionStatus = "RESOLVED"
	// StatusExhausted means multiple candidates remain but no further
	// question can discriminate among them; terminal.
	StatusExhausted SessionStatus = "EXHAUSTED"
)

// Terminal reports whether the status accepts no further transitions.
func (s SessionStatus) Terminal() bool {
	return s == StatusResolved || s == StatusExhausted
}

// AnswerRecord is one past question/answer pair.
type AnswerRecord struct {
	Prompt string
	Label  string
}

// Session holds the state of one interactive classification.
// ResolvedIndex and CurrentQuestion are never both set.
type Session struct {
	CreatedAt       time.Time
	CurrentQuestion *Question
	ResolvedIndex   *int
	ID              string
	InitialQuery    string
	Status          SessionStatus
	Candidates      CandidateSet
	History         []AnswerRecord
}
