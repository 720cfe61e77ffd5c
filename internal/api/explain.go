package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sqlcoach/sqlcoach/internal/observability"
	"github.com/sqlcoach/sqlcoach/internal/provider"
)

type explainRequest struct {
	Schema string `json:"schema"`
	Query  string `json:"query"`
	Error  string `json:"error"`
}

type coachingPayload struct {
	Explanation  string   `json:"explanation"`
	SuggestedFix string   `json:"suggested_fix"`
	Hints        []string `json:"hints"`
}

type explainResponse struct {
	Coaching coachingPayload `json:"coaching"`
	Source   string          `json:"source"`
	Error    string          `json:"error,omitempty"`
}

func handleExplainError(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Coach == nil {
		writeError(w, http.StatusNotImplemented, "error coaching is not configured")
		return
	}

	var req explainRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Schema) == "" || strings.TrimSpace(req.Query) == "" || strings.TrimSpace(req.Error) == "" {
		writeError(w, http.StatusBadRequest, "schema, query and error are all required")
		return
	}

	start := time.Now()
	coaching, err := deps.Coach.ExplainError(r.Context(), provider.CoachingRequest{
		Schema: req.Schema,
		Query:  req.Query,
		Error:  req.Error,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "error coaching failed")
		return
	}
	observability.ObserveCoaching(coaching.Source, time.Since(start))

	hints := coaching.Hints
	if hints == nil {
		hints = []string{}
	}
	writeJSON(w, http.StatusOK, explainResponse{
		Coaching: coachingPayload{
			Explanation:  coaching.Explanation,
			SuggestedFix: coaching.SuggestedFix,
			Hints:        hints,
		},
		Source: coaching.Source,
		Error:  coaching.ErrorNote,
	})
}
