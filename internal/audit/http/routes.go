package audithttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/atrium-portal/atrium/internal/authz"
)

const exportRateLimit = 10

// MountRoutes registers the denial timeline behind the roles.view gate.
// Export is rate-limited per caller because it scans the whole window.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(exportRateLimit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)
	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireAny(authz.PermRolesView))
		r.Get("/denials", h.handleTimeline)
		r.With(limiter).Get("/denials/export.csv", h.handleExport)
	})
}
