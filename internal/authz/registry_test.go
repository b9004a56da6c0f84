package authz_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/atrium-portal/atrium/testing"

	"github.com/atrium-portal/atrium/internal/authz"
)

func TestAdminHoldsWholeCatalog(t *testing.T) {
	registry := authz.NewRegistry()

	want := authz.AllPermissions()
	sort.Strings(want)

	got := registry.PermissionsFor(authz.RoleAdmin)
	require.Equal(t, want, got)
}

func TestEveryRoleGrantsSubsetOfCatalog(t *testing.T) {
	registry := authz.NewRegistry()

	catalog := make(map[string]struct{})
	for _, p := range authz.AllPermissions() {
		catalog[p] = struct{}{}
	}

	for _, role := range authz.AllRoles() {
		perms := registry.PermissionsFor(role)
		require.NotEmpty(t, perms, "role %s should grant something", role)
		for _, p := range perms {
			assert.Contains(t, catalog, p, "role %s grants %s which is not in the catalog", role, p)
		}
	}
}

func TestUnknownRoleGrantsNothing(t *testing.T) {
	registry := authz.NewRegistry()

	assert.False(t, registry.Known(authz.Role("contractor")))
	assert.Nil(t, registry.PermissionsFor(authz.Role("contractor")))
	for _, p := range authz.AllPermissions() {
		assert.False(t, registry.HasPermission([]authz.Role{"contractor"}, p))
	}
}

func TestHasPermissionIsUnionAcrossRoles(t *testing.T) {
	registry := authz.NewRegistry()
	roles := authz.AllRoles()
	perms := authz.AllPermissions()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		subset := make([]authz.Role, 0, len(roles))
		for _, role := range roles {
			if rng.Intn(2) == 1 {
				subset = append(subset, role)
			}
		}
		perm := perms[rng.Intn(len(perms))]

		anyGrants := false
		for _, role := range subset {
			if registry.HasPermission([]authz.Role{role}, perm) {
				anyGrants = true
				break
			}
		}
		assert.Equal(t, anyGrants, registry.HasPermission(subset, perm),
			"roles %v, permission %s", subset, perm)
	}
}

func TestReplaceSwapsWholeTable(t *testing.T) {
	registry := authz.NewRegistry()
	registry.Replace(map[authz.Role][]string{
		authz.RoleViewer: {authz.PermEventView},
	})

	assert.True(t, registry.Known(authz.RoleViewer))
	assert.False(t, registry.Known(authz.RoleAdmin), "roles absent from the new table must disappear")
	assert.Equal(t, []string{authz.PermEventView}, registry.PermissionsFor(authz.RoleViewer))
	assert.False(t, registry.HasPermission([]authz.Role{authz.RoleAdmin}, authz.PermEventView))
}

func TestPermissionsForReturnsCopy(t *testing.T) {
	registry := authz.NewRegistry()

	perms := registry.PermissionsFor(authz.RoleViewer)
	require.NotEmpty(t, perms)
	perms[0] = "tampered"

	again := registry.PermissionsFor(authz.RoleViewer)
	assert.NotContains(t, again, "tampered")
}
