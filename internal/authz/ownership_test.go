package authz_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	_ "github.com/atrium-portal/atrium/testing"

	"github.com/atrium-portal/atrium/internal/authz"
	"github.com/atrium-portal/atrium/internal/identity"
)

type stubOwners struct {
	owners map[string]string
	err    error
}

func (s stubOwners) OwnerEmail(_ context.Context, resourceID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	owner, ok := s.owners[resourceID]
	if !ok {
		return "", authz.ErrResourceNotFound
	}
	return owner, nil
}

func ownershipRouter(gate authz.Gate, lookup authz.OwnerLookup, called *bool, bypass ...authz.Role) http.Handler {
	r := chi.NewRouter()
	r.With(gate.RequireOwnership(lookup, bypass...)).Put("/events/{id}", func(w http.ResponseWriter, _ *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func putAs(p identity.Principal, path string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, path, nil)
	return req.WithContext(identity.ContextWithPrincipal(req.Context(), p))
}

func TestOwnershipAdmitsExactOwner(t *testing.T) {
	gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
		"carol": {{Role: authz.RoleMarketing, Active: true}},
	}})
	called := false
	router := ownershipRouter(gate, stubOwners{owners: map[string]string{"ev-1": "carol@co.com"}}, &called)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, putAs(identity.Principal{ID: "carol", Email: "carol@co.com"}, "/events/ev-1"))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOwnershipComparisonIsCaseSensitive(t *testing.T) {
	// The stored owner and the caller differ only in letter case. The
	// comparison is exact, so this caller is not the owner.
	gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
		"carol": {{Role: authz.RoleMarketing, Active: true}},
	}})
	called := false
	router := ownershipRouter(gate, stubOwners{owners: map[string]string{"ev-1": "carol@co.com"}}, &called)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, putAs(identity.Principal{ID: "carol", Email: "Carol@Co.com"}, "/events/ev-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	denial := decodeDenial(t, rec)
	assert.Equal(t, authz.KindForbidden, denial.ErrorKind)
	assert.Equal(t, "ev-1", denial.Details.ResourceID)
}

func TestOwnershipDeniesNonOwner(t *testing.T) {
	gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
		"dave": {{Role: authz.RoleViewer, Active: true}},
	}})
	called := false
	router := ownershipRouter(gate, stubOwners{owners: map[string]string{"ev-1": "carol@co.com"}}, &called)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, putAs(identity.Principal{ID: "dave", Email: "dave@co.com"}, "/events/ev-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	denial := decodeDenial(t, rec)
	assert.Equal(t, []string{"viewer"}, denial.Details.UserRoles)
}

func TestOwnershipBypassRolesSkipLookup(t *testing.T) {
	for _, role := range authz.DefaultOwnershipBypass() {
		gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
			"boss": {{Role: role, Active: true}},
		}})
		called := false
		// A lookup that always errors proves bypass short-circuits it.
		router := ownershipRouter(gate, stubOwners{err: errors.New("unreachable")}, &called)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, putAs(identity.Principal{ID: "boss", Email: "boss@co.com"}, "/events/ev-1"))

		assert.True(t, called, role)
		assert.Equal(t, http.StatusOK, rec.Code, role)
	}
}

func TestOwnershipMissingResourceIsNotFound(t *testing.T) {
	gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
		"carol": {{Role: authz.RoleMarketing, Active: true}},
	}})
	called := false
	router := ownershipRouter(gate, stubOwners{owners: map[string]string{}}, &called)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, putAs(identity.Principal{ID: "carol", Email: "carol@co.com"}, "/events/ev-9"))

	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	denial := decodeDenial(t, rec)
	assert.Equal(t, authz.KindNotFound, denial.ErrorKind)
	assert.Equal(t, "ev-9", denial.Details.ResourceID)
}

func TestOwnershipLookupFailureIsServerError(t *testing.T) {
	gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
		"carol": {{Role: authz.RoleMarketing, Active: true}},
	}})
	called := false
	router := ownershipRouter(gate, stubOwners{err: errors.New("db down")}, &called)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, putAs(identity.Principal{ID: "carol", Email: "carol@co.com"}, "/events/ev-1"))

	assert.False(t, called)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOwnershipRejectsAnonymous(t *testing.T) {
	gate := newTestGate(&stubStore{})
	called := false
	router := ownershipRouter(gate, stubOwners{owners: map[string]string{"ev-1": "carol@co.com"}}, &called)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/events/ev-1", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOwnershipCustomBypassOverridesDefault(t *testing.T) {
	gate := newTestGate(&stubStore{assignments: map[string][]authz.Assignment{
		"boss": {{Role: authz.RoleManager, Active: true}},
	}})
	called := false
	router := ownershipRouter(gate, stubOwners{owners: map[string]string{"ev-1": "carol@co.com"}}, &called, authz.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, putAs(identity.Principal{ID: "boss", Email: "boss@co.com"}, "/events/ev-1"))

	assert.False(t, called, "manager is not in the custom bypass list")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
