package authz_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/atrium-portal/atrium/testing"

	"github.com/atrium-portal/atrium/internal/authz"
	"github.com/atrium-portal/atrium/internal/identity"
)

func newTestGate(store authz.AssignmentStore) authz.Gate {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return authz.Gate{
		Resolver: authz.NewResolver(store, elevatedGroup, logger, nil),
		Registry: authz.NewRegistry(),
		Logger:   logger,
	}
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func requestAs(p identity.Principal) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)
	return req.WithContext(identity.ContextWithPrincipal(req.Context(), p))
}

func decodeDenial(t *testing.T, rec *httptest.ResponseRecorder) authz.Denial {
	t.Helper()
	var denial authz.Denial
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&denial))
	return denial
}

func TestRequireAnyRejectsAnonymous(t *testing.T) {
	gate := newTestGate(&stubStore{})
	called := false
	handler := gate.RequireAny(authz.PermCampaignView)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	denial := decodeDenial(t, rec)
	assert.Equal(t, authz.KindUnauthenticated, denial.ErrorKind)
	assert.Equal(t, []string{authz.PermCampaignView}, denial.Details.RequiredPermissions)
}

func TestRequireAnyDeniesWithoutPermission(t *testing.T) {
	store := &stubStore{assignments: map[string][]authz.Assignment{
		"dave": {{Role: authz.RoleViewer, Active: true}},
	}}
	gate := newTestGate(store)
	called := false
	handler := gate.RequireAny(authz.PermCampaignDelete)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "dave", Email: "dave@co.com"}))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	denial := decodeDenial(t, rec)
	assert.Equal(t, authz.KindForbidden, denial.ErrorKind)
	assert.Equal(t, []string{authz.PermCampaignDelete}, denial.Details.RequiredPermissions)
	assert.Equal(t, []string{"viewer"}, denial.Details.UserRoles)
}

func TestRequireAnyAdmitsAndAttachesRoles(t *testing.T) {
	store := &stubStore{assignments: map[string][]authz.Assignment{
		"alice": {{Role: authz.RoleFinance, Active: true}},
	}}
	gate := newTestGate(store)

	var seen []authz.Role
	handler := gate.RequireAny(authz.PermCampaignUpdateBudget)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			roles, ok := authz.RolesFromContext(r.Context())
			require.True(t, ok)
			seen = roles
			w.WriteHeader(http.StatusOK)
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "alice", Email: "alice@co.com"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []authz.Role{authz.RoleFinance}, seen)
}

func TestRequireAnyAdmitsOnAnyMatch(t *testing.T) {
	store := &stubStore{assignments: map[string][]authz.Assignment{
		"alice": {{Role: authz.RoleFinance, Active: true}},
	}}
	gate := newTestGate(store)
	called := false
	handler := gate.RequireAny(authz.PermCampaignDelete, authz.PermCampaignView)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "alice"}))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAllNeedsEveryPermission(t *testing.T) {
	store := &stubStore{assignments: map[string][]authz.Assignment{
		"alice": {{Role: authz.RoleFinance, Active: true}},
	}}
	gate := newTestGate(store)
	called := false
	handler := gate.RequireAll(authz.PermCampaignView, authz.PermCampaignDelete)(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "alice"}))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAnyWithNoPermissionsPassesThrough(t *testing.T) {
	gate := newTestGate(&stubStore{})
	called := false
	handler := gate.RequireAny()(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/campaigns", nil))

	assert.True(t, called)
}

func TestRequireRole(t *testing.T) {
	store := &stubStore{assignments: map[string][]authz.Assignment{
		"alice": {{Role: authz.RoleFinance, Active: true}},
	}}
	gate := newTestGate(store)

	allowed := false
	handler := gate.RequireRole(authz.RoleFinance, authz.RoleAdmin)(okHandler(&allowed))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "alice"}))
	assert.True(t, allowed)

	denied := false
	handler = gate.RequireRole(authz.RoleAdmin)(okHandler(&denied))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "alice"}))
	assert.False(t, denied)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	denial := decodeDenial(t, rec)
	assert.Equal(t, []string{"admin"}, denial.Details.RequiredRoles)
	assert.Equal(t, []string{"finance"}, denial.Details.UserRoles)
}

func TestGateResolvesOncePerRequest(t *testing.T) {
	store := &stubStore{assignments: map[string][]authz.Assignment{
		"alice": {{Role: authz.RoleFinance, Active: true}},
	}}
	gate := newTestGate(store)

	inner := gate.RequireAny(authz.PermCampaignView)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler := gate.RequireAny(authz.PermEventView)(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestAs(identity.Principal{ID: "alice"}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.calls)
}

func TestElevatedGroupMemberPassesEveryGate(t *testing.T) {
	gate := newTestGate(&stubStore{})
	bob := identity.Principal{ID: "bob", Email: "bob@co.com", GroupIDs: []string{elevatedGroup}}

	for _, perm := range authz.AllPermissions() {
		called := false
		handler := gate.RequireAny(perm)(okHandler(&called))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestAs(bob))
		assert.True(t, called, perm)
	}
}
