package web

import (
	"net/http"

	"bizadmin/internal/app"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the ApplicationService, the chi router and the request logger.
type Handler struct {
	svc    app.ApplicationService
	router chi.Router
	logger *zap.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		svc:    svc,
		logger: logger.Named("web"),
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(h.logger))
	r.Use(Recoverer(h.logger))
	r.Use(CORS(allowedOrigins))

	// ── Health ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)

	// ── Schema ────────────────────────────────────────────────────────────────
	r.Get("/api/schema/approved-bom", h.apiApprovedBOMSchema)

	// ── Reports ───────────────────────────────────────────────────────────────
	r.Route("/api/organizations/{orgID}/reports", func(r chi.Router) {
		r.Get("/approved-bom", h.apiApprovedBOM)
		r.Get("/approved-bom/export", h.apiApprovedBOMExport)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "route not found", "NOT_FOUND", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, "method not allowed", "METHOD_NOT_ALLOWED", http.StatusMethodNotAllowed)
	})

	h.router = r
	return r
}

// health returns service status and the default organization id, if one resolves.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	org, err := h.svc.LoadDefaultOrganization(r.Context())
	orgID := ""
	if err == nil && org != nil {
		orgID = org.ID
	}

	type response struct {
		Status       string `json:"status"`
		Organization string `json:"organization"`
	}

	writeJSON(w, response{Status: "ok", Organization: orgID})
}

// organizationID extracts the {orgID} URL parameter.
func organizationID(r *http.Request) string {
	return chi.URLParam(r, "orgID")
}
