package campaigns

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/atrium-portal/atrium/internal/authz"
	"github.com/atrium-portal/atrium/internal/identity"
	"github.com/atrium-portal/atrium/internal/platform/httpx"
)

// Handler serves the campaign endpoints.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	gate     authz.Gate
	validate *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate authz.Gate) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		gate:     gate,
		validate: validator.New(),
	}
}

// MountRoutes registers campaign routes. Budget changes are gated on their
// own permission so Finance can adjust budgets without broader campaign
// rights; detail edits go through the ownership guard.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermCampaignView))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermCampaignCreate))
		r.Post("/", h.create)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireOwnership(h.service.Repo()))
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermCampaignUpdateBudget))
		r.Put("/{id}/budget", h.updateBudget)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermCampaignDelete))
		r.Delete("/{id}", h.delete)
	})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	campaigns, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("list campaigns", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	responses := make([]CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		responses = append(responses, toResponse(c))
	}
	httpx.JSON(w, http.StatusOK, responses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondError(w, err, "get campaign")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*campaign))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCampaignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	principal, _ := identity.PrincipalFromContext(r.Context())
	campaign, err := h.service.Create(r.Context(), principal.Email, req)
	if err != nil {
		h.respondError(w, err, "create campaign")
		return
	}
	httpx.JSON(w, http.StatusCreated, toResponse(*campaign))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateCampaignRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	campaign, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.respondError(w, err, "update campaign")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*campaign))
}

func (h *Handler) updateBudget(w http.ResponseWriter, r *http.Request) {
	var req UpdateBudgetRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	campaign, err := h.service.UpdateBudget(r.Context(), chi.URLParam(r, "id"), req.Budget)
	if err != nil {
		h.respondError(w, err, "update campaign budget")
		return
	}
	httpx.JSON(w, http.StatusOK, toResponse(*campaign))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondError(w, err, "delete campaign")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error, action string) {
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "campaign not found")
		return
	}
	h.logger.Error(action, slog.Any("error", err))
	httpx.RespondError(w, err)
}
