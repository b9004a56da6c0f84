package authz

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/atrium-portal/atrium/internal/identity"
	"github.com/atrium-portal/atrium/internal/platform/httpx"
)

// ErrResourceNotFound signals that the ownership target does not exist.
// Lookups return it so the guard can answer 404 instead of 403.
var ErrResourceNotFound = errors.New("authz: resource not found")

// OwnerLookup fetches the recorded owner of a resource by its route id.
type OwnerLookup interface {
	OwnerEmail(ctx context.Context, resourceID string) (string, error)
}

// DefaultOwnershipBypass lists the roles that skip the ownership check.
func DefaultOwnershipBypass() []Role {
	return []Role{RoleAdmin, RoleManager}
}

// RequireOwnership admits a mutation when the caller is the resource's
// recorded owner, even without the broad permission. Bypass roles are
// admitted unconditionally. The owner comparison is exact and
// case-sensitive; no normalization is applied to either side.
func (g Gate) RequireOwnership(lookup OwnerLookup, bypass ...Role) func(http.Handler) http.Handler {
	if len(bypass) == 0 {
		bypass = DefaultOwnershipBypass()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := identity.PrincipalFromContext(r.Context())
			if !ok {
				g.denyUnauthenticated(w, r, DenialDetails{RequiredRoles: roleNames(bypass)})
				return
			}
			roles := g.rolesFor(r, principal)
			ctx := ContextWithRoles(r.Context(), roles)
			if intersects(roles, bypass) {
				g.Metrics.AuthzDecision(outcomeAllow)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			resourceID := chi.URLParam(r, "id")
			owner, err := lookup.OwnerEmail(ctx, resourceID)
			if err != nil {
				if errors.Is(err, ErrResourceNotFound) {
					g.deny(w, r, principal, Denial{
						ErrorKind: KindNotFound,
						Message:   "resource not found",
						Details: DenialDetails{
							UserRoles:  roleNames(roles),
							ResourceID: resourceID,
						},
					}, http.StatusNotFound)
					return
				}
				if g.Logger != nil {
					g.Logger.Error("ownership lookup failed",
						slog.String("resource_id", resourceID),
						slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if owner != principal.Email {
				g.deny(w, r, principal, Denial{
					ErrorKind: KindForbidden,
					Message:   "not the resource owner",
					Details: DenialDetails{
						UserRoles:  roleNames(roles),
						ResourceID: resourceID,
					},
				}, http.StatusForbidden)
				return
			}
			g.Metrics.AuthzDecision(outcomeAllow)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
