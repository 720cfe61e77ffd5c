package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sqlcoach/sqlcoach/internal/observability"
	"github.com/sqlcoach/sqlcoach/internal/session"
	"github.com/sqlcoach/sqlcoach/internal/sqltext"
)

type loadSchemaRequest struct {
	Database string `json:"database"`
}

type loadSchemaResponse struct {
	Applied    int                        `json:"applied"`
	Failed     int                        `json:"failed"`
	Statements []session.StatementOutcome `json:"statements"`
	Tables     []session.Table            `json:"tables"`
}

// handleLoadSchema sanitizes and splits generator output, then replaces the
// session's table set with it. Statement failures are collected, not fatal:
// the response reports per-statement outcomes alongside the resulting tables.
func handleLoadSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Session == nil {
		writeError(w, http.StatusNotImplemented, "database session is not configured")
		return
	}

	var req loadSchemaRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Database) == "" {
		writeError(w, http.StatusBadRequest, "database is required")
		return
	}

	statements := sqltext.Split(sqltext.Sanitize(req.Database))
	report, err := deps.Session.Load(r.Context(), statements)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "schema load failed: "+err.Error())
		return
	}
	observability.ObserveSchemaLoad(report.Applied, report.Failed)

	tables, err := deps.Session.Tables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "table listing failed: "+err.Error())
		return
	}
	if tables == nil {
		tables = []session.Table{}
	}
	if report.Outcomes == nil {
		report.Outcomes = []session.StatementOutcome{}
	}

	writeJSON(w, http.StatusOK, loadSchemaResponse{
		Applied:    report.Applied,
		Failed:     report.Failed,
		Statements: report.Outcomes,
		Tables:     tables,
	})
}

type queryRequest struct {
	SQL string `json:"sql"`
}

type queryResponse struct {
	Results  []session.ResultSet `json:"results,omitempty"`
	Error    string              `json:"error,omitempty"`
	Location *sqltext.Location   `json:"location,omitempty"`
}

// Query errors are part of the exercise, so they come back as 200 with the
// engine's message verbatim plus a best-effort location. Only malformed
// requests are client errors.
func handleQuery(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Session == nil {
		writeError(w, http.StatusNotImplemented, "database session is not configured")
		return
	}

	var req queryRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.SQL) == "" {
		writeError(w, http.StatusBadRequest, "sql is required")
		return
	}

	results, err := deps.Session.Query(r.Context(), req.SQL)
	if err != nil {
		observability.ObserveQuery(false)
		response := queryResponse{Error: err.Error()}
		if loc, ok := sqltext.Locate(err.Error(), req.SQL); ok {
			response.Location = &loc
		}
		writeJSON(w, http.StatusOK, response)
		return
	}
	observability.ObserveQuery(true)
	if results == nil {
		results = []session.ResultSet{}
	}
	writeJSON(w, http.StatusOK, queryResponse{Results: results})
}

func handleTables(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Session == nil {
		writeError(w, http.StatusNotImplemented, "database session is not configured")
		return
	}
	tables, err := deps.Session.Tables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "table listing failed: "+err.Error())
		return
	}
	if tables == nil {
		tables = []session.Table{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"tables": tables})
}

func handleReset(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Session == nil {
		writeError(w, http.StatusNotImplemented, "database session is not configured")
		return
	}
	if err := deps.Session.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "reset failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}
