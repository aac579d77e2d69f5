package member

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/chama/internal/apperror"
	"github.com/MrJamesThe3rd/chama/internal/http/respond"
	"github.com/MrJamesThe3rd/chama/internal/member"
	"github.com/MrJamesThe3rd/chama/internal/roster"
)

const maxUploadSize = 5 << 20

var errMissingFile = apperror.New(apperror.KindValidation, "roster file is required")

type Handler struct {
	svc    *member.Service
	roster *roster.Service
}

func NewHandler(svc *member.Service, rosterSvc *roster.Service) *Handler {
	return &Handler{svc: svc, roster: rosterSvc}
}

// PublicRoutes serves the member self-service lookup, which needs no token.
func (h *Handler) PublicRoutes(r chi.Router) {
	r.Get("/{phoneNumber}", h.getByPhone)
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/import", h.importRoster)
}

func (h *Handler) getByPhone(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetByPhone(r.Context(), chi.URLParam(r, "phoneNumber"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := member.ListFilter{
		Search: q.Get("search"),
		Filter: member.Filter(q.Get("filter")),
		Sort:   member.SortField(q.Get("sort")),
		Order:  member.Order(q.Get("order")),
		Page:   intParam(q.Get("page")),
		Limit:  intParam(q.Get("limit")),
	}

	page, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handler) importRoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respond.Error(w, r, apperror.Wrap(apperror.KindValidation, "failed to parse form", err))
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, r, errMissingFile)
		return
	}
	defer file.Close()

	result, err := h.roster.Import(r.Context(), file)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.Message(w, http.StatusOK, "Roster imported", toImportResponse(result))
}

// intParam treats missing or malformed numbers as unset so the service
// applies its defaults.
func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}

	return n
}
