package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/chama/internal/auth"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
)

type Handler struct {
	svc *auth.Service
}

func NewHandler(svc *auth.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts the public endpoints. Profile updates need a token and are
// mounted separately behind Middleware.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.login)
	r.Post("/register", h.register)
}

func (h *Handler) ProtectedRoutes(r chi.Router) {
	r.Put("/profile", h.updateProfile)
}

type treasurerResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	PhoneNumber string    `json:"phoneNumber"`
	Position    string    `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toResponse(t *auth.Treasurer) treasurerResponse {
	return treasurerResponse{
		ID:          t.ID,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		PhoneNumber: t.PhoneNumber,
		Position:    t.Position,
		CreatedAt:   t.CreatedAt,
	}
}

type loginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type loginResponse struct {
	Treasurer treasurerResponse `json:"treasurer"`
	Token     string            `json:"token"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, auth.ErrMissingCredentials)
		return
	}

	token, t, err := h.svc.Login(r.Context(), req.PhoneNumber, req.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, loginResponse{Treasurer: toResponse(t), Token: token})
}

type registerRequest struct {
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Password    string `json:"password" validate:"required"`
	Position    string `json:"position" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, auth.ErrMissingFields)
		return
	}

	if _, err := h.svc.Register(r.Context(), auth.RegisterParams(req)); err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusCreated, "Treasurer registered successfully", nil)
}

type profileRequest struct {
	FirstName       string `json:"firstName" validate:"required"`
	LastName        string `json:"lastName" validate:"required"`
	PhoneNumber     string `json:"phoneNumber" validate:"required"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		respond.Error(w, r, auth.ErrMissingToken)
		return
	}

	var req profileRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, auth.ErrMissingFields)
		return
	}

	t, err := h.svc.UpdateProfile(r.Context(), actor.ID, auth.ProfileParams(req))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Profile updated successfully", toResponse(t))
}
