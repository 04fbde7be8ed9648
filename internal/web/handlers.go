package web

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"swingscore/internal/service"
)

// AnalyzeRequest is the /api/analyze request body.
type AnalyzeRequest struct {
	Ticker string `json:"ticker"`
	UseAI  *bool  `json:"use_ai,omitempty"`
}

// handleAnalyze runs the full pipeline: score, news, AI sentiment.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed, use POST")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	useAI := true
	if req.UseAI != nil {
		useAI = *req.UseAI
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Ticker, useAI)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "invalid ticker") {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleScore serves the raw quantitative score, optionally as of a
// historical date. No news or AI enrichment on this path.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed, use GET")
		return
	}

	raw := strings.TrimPrefix(r.URL.Path, "/api/score/")
	ticker, err := service.CleanTicker(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var end time.Time
	if d := r.URL.Query().Get("date"); d != "" {
		end, err = time.Parse("2006-01-02", d)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
	}

	result, err := s.engine.ScoreAt(r.Context(), ticker, end)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encoding response failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
