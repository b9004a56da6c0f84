package authz

import (
	"log/slog"
	"net/http"

	"github.com/atrium-portal/atrium/internal/audit"
	"github.com/atrium-portal/atrium/internal/identity"
	"github.com/atrium-portal/atrium/internal/observability"
	"github.com/atrium-portal/atrium/internal/platform/httpx"
)

// Denial kinds surfaced to callers and logs.
const (
	KindUnauthenticated = "unauthenticated"
	KindForbidden       = "forbidden"
	KindNotFound        = "not_found"

	outcomeAllow = "allow"
)

// Denial is the JSON body returned on a denied request.
type Denial struct {
	ErrorKind string        `json:"errorKind"`
	Message   string        `json:"message"`
	Details   DenialDetails `json:"details"`
}

// DenialDetails carries the requirement and the caller's resolved roles.
type DenialDetails struct {
	RequiredPermissions []string `json:"requiredPermissions,omitempty"`
	RequiredRoles       []string `json:"requiredRoles,omitempty"`
	UserRoles           []string `json:"userRoles,omitempty"`
	ResourceID          string   `json:"resourceId,omitempty"`
}

// Gate is the authorization checkpoint mounted ahead of protected handlers.
// It requires a principal already attached to the request context; attaching
// one is the bearer middleware's job.
type Gate struct {
	Resolver *Resolver
	Registry *Registry
	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Audit    *audit.Recorder
}

// RequireAny admits the request when the caller holds at least one of the
// given permissions.
func (g Gate) RequireAny(perms ...string) func(http.Handler) http.Handler {
	return g.requirePermissions(perms, false)
}

// RequireAll admits the request only when the caller holds every given
// permission.
func (g Gate) RequireAll(perms ...string) func(http.Handler) http.Handler {
	return g.requirePermissions(perms, true)
}

func (g Gate) requirePermissions(perms []string, all bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(perms) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := identity.PrincipalFromContext(r.Context())
			if !ok {
				g.denyUnauthenticated(w, r, DenialDetails{RequiredPermissions: perms})
				return
			}
			roles := g.rolesFor(r, principal)
			eval := NewEvaluator(g.Registry, roles)
			granted := eval.HasAnyPermission(perms...)
			if all {
				granted = eval.HasAllPermissions(perms...)
			}
			if !granted {
				g.deny(w, r, principal, Denial{
					ErrorKind: KindForbidden,
					Message:   "insufficient permissions",
					Details: DenialDetails{
						RequiredPermissions: perms,
						UserRoles:           roleNames(roles),
					},
				}, http.StatusForbidden)
				return
			}
			g.Metrics.AuthzDecision(outcomeAllow)
			next.ServeHTTP(w, r.WithContext(ContextWithRoles(r.Context(), roles)))
		})
	}
}

// RequireRole admits the request when the caller's resolved roles include
// one of the given roles. Used for operations gated by whole-role identity
// rather than a specific capability.
func (g Gate) RequireRole(required ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(required) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal, ok := identity.PrincipalFromContext(r.Context())
			if !ok {
				g.denyUnauthenticated(w, r, DenialDetails{RequiredRoles: roleNames(required)})
				return
			}
			roles := g.rolesFor(r, principal)
			if !intersects(roles, required) {
				g.deny(w, r, principal, Denial{
					ErrorKind: KindForbidden,
					Message:   "insufficient role",
					Details: DenialDetails{
						RequiredRoles: roleNames(required),
						UserRoles:     roleNames(roles),
					},
				}, http.StatusForbidden)
				return
			}
			g.Metrics.AuthzDecision(outcomeAllow)
			next.ServeHTTP(w, r.WithContext(ContextWithRoles(r.Context(), roles)))
		})
	}
}

// rolesFor reuses roles already resolved for this request, resolving once
// otherwise.
func (g Gate) rolesFor(r *http.Request, principal identity.Principal) []Role {
	if roles, ok := RolesFromContext(r.Context()); ok {
		return roles
	}
	return g.Resolver.ResolveRoles(r.Context(), principal)
}

func (g Gate) denyUnauthenticated(w http.ResponseWriter, r *http.Request, details DenialDetails) {
	g.Metrics.AuthzDecision(KindUnauthenticated)
	if g.Logger != nil {
		g.Logger.Warn("authorization denied",
			slog.String("kind", KindUnauthenticated),
			slog.String("path", r.URL.Path))
	}
	httpx.JSON(w, http.StatusUnauthorized, Denial{
		ErrorKind: KindUnauthenticated,
		Message:   "authentication required",
		Details:   details,
	})
}

func (g Gate) deny(w http.ResponseWriter, r *http.Request, principal identity.Principal, denial Denial, status int) {
	g.Metrics.AuthzDecision(denial.ErrorKind)
	if g.Logger != nil {
		g.Logger.Warn("authorization denied",
			slog.String("kind", denial.ErrorKind),
			slog.String("user", principal.ID),
			slog.String("email", principal.Email),
			slog.String("path", r.URL.Path),
			slog.Any("required_permissions", denial.Details.RequiredPermissions),
			slog.Any("required_roles", denial.Details.RequiredRoles),
			slog.Any("user_roles", denial.Details.UserRoles),
			slog.String("resource_id", denial.Details.ResourceID))
	}
	if g.Audit != nil {
		required := denial.Details.RequiredPermissions
		if len(required) == 0 {
			required = denial.Details.RequiredRoles
		}
		if err := g.Audit.Record(r.Context(), audit.Entry{
			UserID:     principal.ID,
			Email:      principal.Email,
			Kind:       denial.ErrorKind,
			Required:   required,
			Roles:      denial.Details.UserRoles,
			ResourceID: denial.Details.ResourceID,
		}); err != nil && g.Logger != nil {
			g.Logger.Error("record denial audit", slog.Any("error", err))
		}
	}
	httpx.JSON(w, status, denial)
}

func intersects(have, want []Role) bool {
	set := make(map[Role]struct{}, len(have))
	for _, r := range have {
		set[r] = struct{}{}
	}
	for _, r := range want {
		if _, ok := set[r]; ok {
			return true
		}
	}
	return false
}
