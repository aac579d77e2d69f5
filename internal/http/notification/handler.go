package notification

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
	"github.com/MrJamesThe3rd/chama/internal/ledger"
	"github.com/MrJamesThe3rd/chama/internal/notification"
)

type Handler struct {
	svc *notification.Service
}

func NewHandler(svc *notification.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
}

type notificationResponse struct {
	ID          uuid.UUID               `json:"id"`
	MemberID    *uuid.UUID              `json:"memberId,omitempty"`
	TreasurerID *uuid.UUID              `json:"treasurerId,omitempty"`
	Message     string                  `json:"message"`
	Type        ledger.NotificationType `json:"type"`
	FirstName   string                  `json:"firstName,omitempty"`
	LastName    string                  `json:"lastName,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return
	}

	entries, err := h.svc.List(r.Context(), actor.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	resp := make([]notificationResponse, len(entries))
	for i, e := range entries {
		resp[i] = notificationResponse{
			ID:          e.ID,
			MemberID:    e.MemberID,
			TreasurerID: e.TreasurerID,
			Message:     e.Message,
			Type:        e.Type,
			FirstName:   e.MemberFirstName,
			LastName:    e.MemberLastName,
			CreatedAt:   e.CreatedAt,
		}
	}

	respond.JSON(w, http.StatusOK, resp)
}
