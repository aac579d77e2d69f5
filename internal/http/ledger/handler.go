package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
)

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/contributions", h.recordContribution)
	r.Post("/transactions", h.recordTransaction)
	r.Post("/registrations", h.recordRegistration)
}

type recordedResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
}

type contributionRequest struct {
	MemberID uuid.UUID       `json:"memberId"`
	Amount   decimal.Decimal `json:"amount"`
	Purpose  string          `json:"purpose"`
}

func (h *Handler) recordContribution(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req contributionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	id, err := h.svc.RecordContribution(r.Context(), ledger.ContributionParams{
		MemberID: req.MemberID,
		Amount:   req.Amount,
		Purpose:  req.Purpose,
		ActorID:  actor.ID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Contribution recorded successfully", recordedResponse{TransactionID: id})
}

type transactionRequest struct {
	MemberID uuid.UUID       `json:"memberId"`
	Type     ledger.Type     `json:"type"`
	Amount   decimal.Decimal `json:"amount"`
	Purpose  string          `json:"purpose"`
}

func (h *Handler) recordTransaction(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req transactionRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	id, err := h.svc.RecordTransaction(r.Context(), ledger.TransactionParams{
		MemberID: req.MemberID,
		Type:     req.Type,
		Amount:   req.Amount,
		Purpose:  req.Purpose,
		ActorID:  actor.ID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Transaction completed successfully", recordedResponse{TransactionID: id})
}

type registrationRequest struct {
	MemberID uuid.UUID `json:"memberId"`
}

func (h *Handler) recordRegistration(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req registrationRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, err)
		return
	}

	id, err := h.svc.RecordRegistration(r.Context(), ledger.RegistrationParams{
		MemberID: req.MemberID,
		ActorID:  actor.ID,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Registration completed successfully", recordedResponse{TransactionID: id})
}
