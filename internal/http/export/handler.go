package export

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eksporyuk/commission/internal/export"
	"github.com/eksporyuk/commission/internal/http/respond"
	"github.com/eksporyuk/commission/internal/reconcile"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Statements interface {
	Statement(ctx context.Context, affiliateRef string) ([]byte, error)
}

type Auditor interface {
	AuditAll(ctx context.Context) ([]*reconcile.Report, error)
}

type Handler struct {
	statements Statements
	auditor    Auditor
}

func NewHandler(statements Statements, auditor Auditor) *Handler {
	return &Handler{statements: statements, auditor: auditor}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/audit", h.audit)
}

// Statement serves an affiliate's XLSX statement. It is mounted under the affiliate routes.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")

	data, err := h.statements.Statement(r.Context(), ref)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	writeWorkbook(w, fmt.Sprintf("statement_%s_%s.xlsx", ref, time.Now().Format("20060102")), data)
}

func (h *Handler) audit(w http.ResponseWriter, r *http.Request) {
	reports, err := h.auditor.AuditAll(r.Context())
	if err != nil {
		if len(reports) == 0 {
			respond.Error(w, r, err)
			return
		}

		slog.WarnContext(r.Context(), "audit export is partial", "error", err)
	}

	data, err := export.Audit(reports)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	writeWorkbook(w, fmt.Sprintf("audit_%s.xlsx", time.Now().Format("20060102")), data)
}

func writeWorkbook(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write workbook", "error", err)
	}
}
