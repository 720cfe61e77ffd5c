package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sqlcoach/sqlcoach/internal/observability"
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Database string `json:"database"`
	Source   string `json:"source"`
	Error    string `json:"error,omitempty"`
}

// Provider trouble never reaches the caller as a failure: the generator is
// composed with a fallback decorator, so the response is always 200 with the
// source field telling fallback apart from a live model reply.
func handleGenerateSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Generator == nil {
		writeError(w, http.StatusNotImplemented, "schema generation is not configured")
		return
	}

	var req generateRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	start := time.Now()
	result, err := deps.Generator.GenerateSchema(r.Context(), req.Prompt)
	if err != nil {
		writeError(w, http.StatusBadGateway, "schema generation failed")
		return
	}
	observability.ObserveSchemaGeneration(result.Source, time.Since(start))
	if deps.Logger != nil {
		deps.Logger.InfoContext(r.Context(), "schema_generated",
			slog.String("source", result.Source),
			slog.String("model", result.Model),
			slog.Int("bytes", len(result.SQL)),
		)
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Database: result.SQL,
		Source:   result.Source,
		Error:    result.ErrorNote,
	})
}
