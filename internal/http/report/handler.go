package report

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
	"github.com/MrJamesThe3rd/chama/internal/report"
)

type Handler struct {
	svc *report.Service
}

func NewHandler(svc *report.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.generate)
}

func (h *Handler) DashboardRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func (h *Handler) TreasuryRoutes(r chi.Router) {
	r.Get("/summary", h.treasurySummary)
}

type generateRequest struct {
	Type string `json:"type" validate:"required,oneof=monthly annual"`
	Date string `json:"startDate" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req generateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		respond.Error(w, r, report.ErrMissingDate)
		return
	}

	rep, err := h.svc.Generate(r.Context(), report.Request{Type: report.Type(req.Type), Date: date}, *actor)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toReportResponse(rep))
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Dashboard(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDashboardResponse(d))
}

func (h *Handler) treasurySummary(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.TreasurySummary(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toSummaryResponse(s))
}
