package server

import (
	"encoding/json"
	"net/http"

	"github.com/handiism/f1rdf/internal/logging"
)

// Error codes of the JSON error envelope.
const (
	codeBadRequest     = "BAD_REQUEST"
	codeNoSections     = "NO_SECTIONS"
	codeUnknownSection = "UNKNOWN_SECTION"
	codeNotFound       = "NOT_FOUND"
	codeUpstream       = "UPSTREAM_FAILURE"
	codeInternal       = "INTERNAL"
)

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Section string `json:"section,omitempty"`
}

// writeError writes a JSON error response and logs it.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeErrorBody(w, r, status, errorBody{Error: message, Code: code})
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "code", body.Code, "error", body.Error)
	} else {
		logger.Debug("request rejected", "status", status, "code", body.Code, "error", body.Error)
	}
	writeJSONStatus(w, r, status, body)
}

// writeJSON encodes v as JSON with status 200.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	writeJSONStatus(w, r, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.FromContext(r.Context()).Error("json encode error", "error", err)
	}
}
