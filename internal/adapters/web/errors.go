package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"bizadmin/internal/app"
	"bizadmin/internal/core"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := errorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestIDFromContext(r.Context()),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeReportError maps report errors onto HTTP statuses. Caller mistakes are
// 400; anything else means no usable report could be produced.
func (h *Handler) writeReportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrInvalidRequest), errors.Is(err, core.ErrInvalidOrganization):
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
	default:
		h.logger.Error("approved BOM report failed",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.String("organization_id", organizationID(r)),
			zap.Error(err),
		)
		writeError(w, r, "approved BOM report is unavailable", "REPORT_UNAVAILABLE", http.StatusInternalServerError)
	}
}
