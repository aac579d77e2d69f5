package export

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/export"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
	"github.com/MrJamesThe3rd/chama/internal/report"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.download)
	r.Post("/csv", h.csv)
}

type exportRequest struct {
	Type string `json:"type" validate:"required,oneof=monthly annual"`
	Date string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

// download responds with a zip holding the report CSV and its summary.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.export(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(rep, ".zip")))

	if err := h.svc.WriteArchive(w, rep); err != nil {
		slog.Error("failed to write export archive", "error", err, "report_id", rep.ID)
	}
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	rep, ok := h.export(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename(rep, ".csv")))

	if err := h.svc.WriteCSV(w, rep); err != nil {
		slog.Error("failed to write export csv", "error", err, "report_id", rep.ID)
	}
}

// export decodes the request and generates the report, writing the error
// response itself when that fails.
func (h *Handler) export(w http.ResponseWriter, r *http.Request) (*report.Report, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return nil, false
	}

	var req exportRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		respond.Error(w, r, report.ErrMissingDate)
		return nil, false
	}

	rep, err := h.svc.Export(r.Context(), report.Request{Type: report.Type(req.Type), Date: date}, *actor)
	if err != nil {
		respond.Error(w, r, err)
		return nil, false
	}

	return rep, true
}
