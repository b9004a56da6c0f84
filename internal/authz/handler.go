package authz

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atrium-portal/atrium/internal/identity"
	"github.com/atrium-portal/atrium/internal/platform/httpx"
)

// Handler exposes read-only authorization metadata.
type Handler struct {
	logger   *slog.Logger
	registry *Registry
	resolver *Resolver
	gate     Gate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, registry *Registry, resolver *Resolver, gate Gate) *Handler {
	return &Handler{logger: logger, registry: registry, resolver: resolver, gate: gate}
}

// MountRoutes registers authorization metadata routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.me)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(PermRolesView))
		r.Get("/roles", h.listRoles)
		r.Get("/permissions", h.listPermissions)
	})
}

type roleResponse struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

type meResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

// me returns the caller's resolved roles and effective permission set. The
// portal frontend uses it to hide or show affordances; it is advisory only,
// every mutation is re-checked by the gate server-side.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	principal, ok := identity.PrincipalFromContext(r.Context())
	if !ok {
		httpx.JSON(w, http.StatusUnauthorized, Denial{
			ErrorKind: KindUnauthenticated,
			Message:   "authentication required",
		})
		return
	}
	roles := h.resolver.ResolveRoles(r.Context(), principal)
	seen := make(map[string]struct{})
	var perms []string
	for _, role := range roles {
		for _, p := range h.registry.PermissionsFor(role) {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			perms = append(perms, p)
		}
	}
	httpx.JSON(w, http.StatusOK, meResponse{
		ID:          principal.ID,
		Email:       principal.Email,
		Roles:       roleNames(roles),
		Permissions: perms,
	})
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	roles := make([]roleResponse, 0, len(AllRoles()))
	for _, role := range AllRoles() {
		roles = append(roles, roleResponse{
			Name:        string(role),
			Permissions: h.registry.PermissionsFor(role),
		})
	}
	httpx.JSON(w, http.StatusOK, roles)
}

func (h *Handler) listPermissions(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, AllPermissions())
}
