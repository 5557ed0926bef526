package backfill

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eksporyuk/commission/internal/backfill"
	"github.com/eksporyuk/commission/internal/http/respond"
)

type Runner interface {
	Run(ctx context.Context, r io.Reader, opts backfill.Options) (*backfill.Summary, error)
}

type Handler struct {
	runner Runner
}

func NewHandler(runner Runner) *Handler {
	return &Handler{runner: runner}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.upload)
}

type rowErrorResponse struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

type summaryResponse struct {
	Charset   string             `json:"charset"`
	Rows      int                `json:"rows"`
	Ingested  int                `json:"ingested"`
	Immutable int                `json:"immutable"`
	Outcomes  map[string]int     `json:"outcomes"`
	Errors    []rowErrorResponse `json:"errors"`
	DryRun    bool               `json:"dry_run"`
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	opts := backfill.Options{Location: time.UTC}

	if tz := r.FormValue("timezone"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			http.Error(w, "invalid timezone", http.StatusBadRequest)
			return
		}

		opts.Location = loc
	}

	if v := r.FormValue("dry_run"); v != "" {
		opts.DryRun, _ = strconv.ParseBool(v)
	}

	sum, err := h.runner.Run(r.Context(), file, opts)
	if err != nil {
		if errors.Is(err, backfill.ErrNoHeader) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if sum == nil {
			respond.Error(w, r, err)
			return
		}
	}

	resp := summaryResponse{
		Charset:   sum.Charset,
		Rows:      sum.Rows,
		Ingested:  sum.Ingested,
		Immutable: sum.Immutable,
		Outcomes:  sum.Outcomes,
		Errors:    make([]rowErrorResponse, len(sum.Errors)),
		DryRun:    opts.DryRun,
	}

	for i, e := range sum.Errors {
		resp.Errors[i] = rowErrorResponse{Line: e.Line, Error: e.Err.Error()}
	}

	status := http.StatusOK
	if err != nil {
		status = respond.Status(err)
	}

	respond.JSON(w, status, resp)
}
