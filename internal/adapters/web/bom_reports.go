package web

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"bizadmin/internal/app"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// apiApprovedBOM handles GET /api/organizations/{orgID}/reports/approved-bom.
func (h *Handler) apiApprovedBOM(w http.ResponseWriter, r *http.Request) {
	req, err := approvedBOMRequest(r)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.GetApprovedBOMReport(r.Context(), req)
	if err != nil {
		h.writeReportError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// apiApprovedBOMExport handles GET /api/organizations/{orgID}/reports/approved-bom/export.
// The export ignores page and page_size.
func (h *Handler) apiApprovedBOMExport(w http.ResponseWriter, r *http.Request) {
	req, err := approvedBOMRequest(r)
	if err != nil {
		writeError(w, r, err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	exp, err := h.svc.ExportApprovedBOM(r.Context(), req)
	if err != nil {
		h.writeReportError(w, r, err)
		return
	}
	defer exp.Workbook.Close()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exp.Filename))
	if len(exp.Warnings) > 0 {
		w.Header().Set("X-Data-Warnings", strings.Join(exp.Warnings, "; "))
	}
	if err := exp.Workbook.Write(w); err != nil {
		h.logger.Error("failed to stream workbook",
			zap.String("request_id", requestIDFromContext(r.Context())),
			zap.Error(err),
		)
	}
}

// apiApprovedBOMSchema handles GET /api/schema/approved-bom.
func (h *Handler) apiApprovedBOMSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, approvedBOMSchema())
}

func approvedBOMSchema() *jsonschema.Schema {
	decimalType := reflect.TypeOf(decimal.Decimal{})
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == decimalType {
				return &jsonschema.Schema{
					Type:        "string",
					Pattern:     `^-?[0-9]+(\.[0-9]+)?$`,
					Description: "decimal number encoded as a string",
				}
			}
			return nil
		},
	}
	s := reflector.Reflect(&app.ApprovedBOMResult{})
	s.Title = "Approved BOM report"
	return s
}

// approvedBOMRequest reads the report query parameters. Only syntax is checked
// here; the application layer validates values.
func approvedBOMRequest(r *http.Request) (app.ApprovedBOMRequest, error) {
	q := r.URL.Query()
	req := app.ApprovedBOMRequest{
		OrganizationID: organizationID(r),
		Search:         q.Get("search"),
		SortKey:        q.Get("sort"),
		SortDirection:  q.Get("dir"),
	}

	var err error
	if req.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return req, err
	}
	if req.PageSize, err = intParam(q.Get("page_size"), "page_size"); err != nil {
		return req, err
	}
	if v := q.Get("consolidate"); v != "" {
		if req.Consolidate, err = strconv.ParseBool(v); err != nil {
			return req, fmt.Errorf("consolidate must be true or false, got %q", v)
		}
	}
	return req, nil
}

func intParam(v, name string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}
