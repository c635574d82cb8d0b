package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/imgbb/pkg/domain/types/apperr"
	"github.com/m-mizutani/imgbb/pkg/utils/errors"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleError writes err as {"error": "..."} with a status derived from its tags
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	statusCode := apperr.HTTPStatusFromError(err)
	if statusCode >= http.StatusInternalServerError {
		errors.Handle(r.Context(), err)
	} else {
		ctxlog.From(r.Context()).Warn("request rejected",
			"error", err,
			"status", statusCode,
			"path", r.URL.Path,
		)
	}

	writeJSON(w, r, statusCode, &errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Headers are already sent, so an encode failure can only be logged
	if err := json.NewEncoder(w).Encode(v); err != nil {
		errors.Handle(r.Context(), goerr.Wrap(err, "failed to encode JSON response"))
	}
}
