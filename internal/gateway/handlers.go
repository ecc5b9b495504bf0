package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/varunhm/honeynet/internal/domain"
	"github.com/varunhm/honeynet/internal/render"
)

// IngestRequest is the inbound message contract consumed from the
// scammer-facing channels.
type IngestRequest struct {
	SessionID string `json:"sessionId"`
	Message   struct {
		Sender    string    `json:"sender"`
		Text      string    `json:"text"`
		Timestamp time.Time `json:"timestamp"`
	} `json:"message"`
}

// IngestResponse is the reply handed back to the channel.
type IngestResponse struct {
	Status string `json:"status"`
	Reply  string `json:"reply,omitempty"`
	Error  string `json:"error,omitempty"`
}

// handleIngest runs one decision turn and phrases the reply.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	result, err := s.orchestrator.HandleTurn(r.Context(), req.SessionID, domain.Message{
		Sender:    req.Message.Sender,
		Text:      req.Message.Text,
		Timestamp: req.Message.Timestamp,
	})
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Error())
			return
		}
		s.log.Error().Err(err).Str("sessionId", req.SessionID).Msg("turn failed")
		writeError(w, http.StatusInternalServerError, "turn failed, retry later")
		return
	}

	reply, err := s.renderer.Render(r.Context(), result.Goal, render.Facts{
		PaymentHandles: result.Intel.Values(domain.CategoryPayment),
		LastMessage:    req.Message.Text,
	})
	if err != nil {
		// The render chain ends in canned templates, so this only happens
		// with a misconfigured custom renderer. The turn itself succeeded.
		s.log.Warn().Err(err).Str("sessionId", req.SessionID).Msg("renderer failed")
	}

	writeJSON(w, http.StatusOK, IngestResponse{Status: "success", Reply: reply})
}

// SessionSummary is the operator view of one session.
type SessionSummary struct {
	ID             string               `json:"id"`
	MessageCount   int                  `json:"messageCount"`
	CurrentGoal    domain.Goal          `json:"currentGoal,omitempty"`
	Terminal       domain.TerminalState `json:"terminalState"`
	TerminalReason domain.StopReason    `json:"terminalReason,omitempty"`
	ScamDetected   bool                 `json:"scamDetected"`
	CallbackSent   bool                 `json:"callbackSent"`
	Intelligence   domain.Intelligence  `json:"extractedIntelligence"`
}

func summarize(sess *domain.Session) SessionSummary {
	return SessionSummary{
		ID:             sess.ID,
		MessageCount:   sess.MessageCount,
		CurrentGoal:    sess.CurrentGoal,
		Terminal:       sess.Terminal,
		TerminalReason: sess.TerminalReason,
		ScamDetected:   sess.ScamDetected,
		CallbackSent:   sess.CallbackSent,
		Intelligence:   sess.Payload().ExtractedIntelligence,
	}
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing sessions failed")
		return
	}

	summaries := make([]SessionSummary, 0, len(ids))
	for _, id := range ids {
		sess, err := s.sessions.Load(id)
		if err != nil || sess == nil {
			continue
		}
		summaries = append(summaries, summarize(sess))
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Load(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading session failed")
		return
	}
	if sess == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeadLetters(w http.ResponseWriter, r *http.Request) {
	letters, err := s.sessions.DeadLetters(r.URL.Query().Get("sessionId"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing dead letters failed")
		return
	}
	writeJSON(w, http.StatusOK, letters)
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, IngestResponse{Status: "error", Error: msg})
}
