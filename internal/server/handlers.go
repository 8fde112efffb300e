package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"htscompass/internal/catalog"
	"htscompass/internal/common"
	"htscompass/internal/duty"
	"htscompass/internal/locator"
	"htscompass/internal/model"
)

type startRequest struct {
	Query string `json:"query"`
}

type recordPayload struct {
	HTSNumber      string `json:"hts_number"`
	Code           string `json:"code"`
	Description    string `json:"description"`
	Specifications string `json:"specifications"`
	Unit           string `json:"unit_of_quantity"`
	GeneralRate    string `json:"general_rate_of_duty"`
	SpecialRate    string `json:"special_rate_of_duty"`
	Column2Rate    string `json:"column_2_rate_of_duty"`
}

type optionPayload struct {
	Label         string `json:"label"`
	ExpectedCount int    `json:"expected_count"`
}

type questionPayload struct {
	Question  string          `json:"question"`
	SpecLevel int             `json:"spec_level"`
	Options   []optionPayload `json:"options"`
}

type candidateSummary struct {
	HTSNumber      string `json:"hts_number"`
	Description    string `json:"description"`
	Specifications string `json:"specifications"`
	Unit           string `json:"unit_of_quantity"`
}

type startResponse struct {
	Type           string           `json:"type"`
	Record         *recordPayload   `json:"record,omitempty"`
	SessionID      string           `json:"session_id,omitempty"`
	CandidateCount int              `json:"candidate_count,omitempty"`
	FirstQuestion  *questionPayload `json:"first_question,omitempty"`
}

type answerRequest struct {
	SessionID string `json:"session_id"`
	Label     string `json:"label"`
}

type resultResponse struct {
	Record       *recordPayload     `json:"record,omitempty"`
	NextQuestion *questionPayload   `json:"next_question,omitempty"`
	Preview      []candidateSummary `json:"candidates_preview,omitempty"`
	Status       string             `json:"status"`
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body: %v", common.ErrInvalidInput, err))
		return
	}

	set, kind, err := s.locator.Locate(r.Context(), req.Query)
	if err != nil {
		writeError(w, err)
		return
	}
	if len(set) == 0 {
		writeError(w, fmt.Errorf("%w for %q", common.ErrNoCandidates, req.Query))
		return
	}

	if kind == locator.MatchExact {
		payload, payloadErr := s.recordPayload(set[0])
		if payloadErr != nil {
			writeError(w, payloadErr)
			return
		}
		writeJSON(w, http.StatusOK, startResponse{Type: "exact", Record: payload})
		return
	}

	sess, err := s.sessions.Create(req.Query, set)
	if err != nil {
		writeError(w, err)
		return
	}
	if sess.Status == model.StatusResolved {
		payload, payloadErr := s.recordPayload(*sess.ResolvedIndex)
		if payloadErr != nil {
			writeError(w, payloadErr)
			return
		}
		writeJSON(w, http.StatusOK, startResponse{Type: "exact", Record: payload})
		return
	}

	q, err := s.sessions.Question(sess.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, startResponse{
		Type:           "session",
		SessionID:      sess.ID,
		CandidateCount: len(sess.Candidates),
		FirstQuestion:  questionToPayload(q),
	})
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session_id")
	q, err := s.sessions.Question(id)
	if err != nil {
		writeError(w, err)
		return
	}
	if q == nil {
		writeError(w, fmt.Errorf("%w: no question for current candidates", common.ErrNotFound))
		return
	}
	writeJSON(w, http.StatusOK, questionToPayload(q))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body: %v", common.ErrInvalidInput, err))
		return
	}

	sess, err := s.sessions.Answer(req.SessionID, req.Label)
	if err != nil {
		writeError(w, err)
		return
	}

	if sess.Status == model.StatusResolved {
		payload, payloadErr := s.recordPayload(*sess.ResolvedIndex)
		if payloadErr != nil {
			writeError(w, payloadErr)
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Status: string(sess.Status), Record: payload})
		return
	}

	// Generate the next question; a nil question moves the session to
	// EXHAUSTED and the preview is all the caller gets.
	q, err := s.sessions.Question(req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	sess, err = s.sessions.Get(req.SessionID)
	if err != nil {
		writeError(w, err)
		return
	}

	preview, err := s.preview(sess.Candidates, answerPreviewLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{
		Status:       string(sess.Status),
		NextQuestion: questionToPayload(q),
		Preview:      preview,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.URL.Query().Get("session_id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if sess.ResolvedIndex != nil {
		payload, payloadErr := s.recordPayload(*sess.ResolvedIndex)
		if payloadErr != nil {
			writeError(w, payloadErr)
			return
		}
		writeJSON(w, http.StatusOK, resultResponse{Status: string(sess.Status), Record: payload})
		return
	}

	preview, err := s.preview(sess.Candidates, resultPreviewLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resultResponse{Status: string(sess.Status), Preview: preview})
}

type calculateRequest struct {
	SessionID     string  `json:"session_id,omitempty"`
	Code          string  `json:"code,omitempty"`
	CountryISO    string  `json:"country_iso"`
	TransportMode string  `json:"transport_mode"`
	BaseValue     float64 `json:"base_value"`
	HasExclusion  bool    `json:"has_exclusion"`
	MetalPercent  float64 `json:"metal_percent"`
}

type calculateResponse struct {
	BaseValue          float64  `json:"base_value"`
	RateCategory       string   `json:"rate_category"`
	DutyRatePct        float64  `json:"duty_rate_pct"`
	BaseDuty           float64  `json:"base_duty"`
	MetalSurcharge     float64  `json:"metal_surcharge"`
	ExclusionReduction float64  `json:"exclusion_reduction"`
	TotalDuties        float64  `json:"total_duties"`
	EntryFees          float64  `json:"mpf_hmf_fees"`
	LandedCost         float64  `json:"landed_cost"`
	Notes              []string `json:"calculation_notes"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: malformed body: %v", common.ErrInvalidInput, err))
		return
	}

	rec, err := s.calculateTarget(req)
	if err != nil {
		writeError(w, err)
		return
	}

	breakdown, err := duty.Calculate(rec, duty.Input{
		CountryISO:   req.CountryISO,
		Transport:    model.TransportMode(req.TransportMode),
		BaseValue:    req.BaseValue,
		HasExclusion: req.HasExclusion,
		MetalPercent: req.MetalPercent,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calculateResponse{
		BaseValue:          breakdown.BaseValue,
		RateCategory:       string(breakdown.RateCategory),
		DutyRatePct:        breakdown.DutyRatePct,
		BaseDuty:           breakdown.BaseDuty,
		MetalSurcharge:     breakdown.MetalSurcharge,
		ExclusionReduction: breakdown.ExclusionReduction,
		TotalDuties:        breakdown.TotalDuties,
		EntryFees:          breakdown.EntryFees,
		LandedCost:         breakdown.LandedCost,
		Notes:              breakdown.Notes,
	})
}

// calculateTarget resolves the record a calculation applies to, from
// either a resolved session or a full code.
func (s *Server) calculateTarget(req calculateRequest) (*model.Record, error) {
	switch {
	case req.SessionID != "":
		sess, err := s.sessions.Get(req.SessionID)
		if err != nil {
			return nil, err
		}
		if sess.ResolvedIndex == nil {
			return nil, fmt.Errorf("%w: session has not resolved to a final candidate", common.ErrInvalidInput)
		}
		return s.table.Record(*sess.ResolvedIndex)

	case req.Code != "":
		set := s.table.FindExact(catalog.NormalizeCode(req.Code))
		if len(set) == 0 {
			return nil, fmt.Errorf("code %q: %w", req.Code, common.ErrNotFound)
		}
		return s.table.Record(set[0])

	default:
		return nil, fmt.Errorf("%w: provide session_id or code", common.ErrInvalidInput)
	}
}

func (s *Server) recordPayload(idx int) (*recordPayload, error) {
	rec, err := s.table.Record(idx)
	if err != nil {
		return nil, err
	}
	return &recordPayload{
		HTSNumber:      rec.RawCode,
		Code:           rec.Code,
		Description:    rec.BaseDescription,
		Specifications: rec.SpecPath(),
		Unit:           rec.Unit,
		GeneralRate:    rec.GeneralRate,
		SpecialRate:    rec.SpecialRate,
		Column2Rate:    rec.Column2Rate,
	}, nil
}

func (s *Server) preview(set model.CandidateSet, limit int) ([]candidateSummary, error) {
	if len(set) > limit {
		set = set[:limit]
	}
	out := make([]candidateSummary, 0, len(set))
	for _, idx := range set {
		rec, err := s.table.Record(idx)
		if err != nil {
			return nil, err
		}
		out = append(out, candidateSummary{
			HTSNumber:      rec.RawCode,
			Description:    rec.BaseDescription,
			Specifications: rec.SpecPath(),
			Unit:           rec.Unit,
		})
	}
	return out, nil
}

func questionToPayload(q *model.Question) *questionPayload {
	if q == nil {
		return nil
	}
	opts := make([]optionPayload, 0, len(q.Options))
	for _, o := range q.Options {
		opts = append(opts, optionPayload{Label: o.Label, ExpectedCount: o.ExpectedCount})
	}
	return &questionPayload{Question: q.Prompt, SpecLevel: q.SpecLevel, Options: opts}
}
