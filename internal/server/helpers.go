package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		httplog.LogEntry(r.Context()).Error("encode failed",
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, details ...string) {
	writeJSON(w, r, status, errorResponse{Error: msg, Errors: details})
}
