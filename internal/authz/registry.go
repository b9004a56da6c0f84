package authz

import (
	"sort"
	"sync/atomic"
)

// Registry is the read-only role→permission mapping. Lookups fail closed:
// an unknown role grants nothing. Replace swaps the whole table atomically
// so concurrent readers never observe a partially updated mapping.
type Registry struct {
	table atomic.Pointer[grantTable]
}

type grantTable map[Role]map[string]struct{}

// NewRegistry returns a registry loaded with the built-in grants.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Replace(DefaultGrants())
	return r
}

// DefaultGrants is the built-in role→permission table. The admin role is
// granted the entire catalog by construction.
func DefaultGrants() map[Role][]string {
	manager := concat(
		OnboardingScopes(),
		EventScopes(),
		CampaignScopes(),
		[]string{PermAssetView, PermAssetAssign, PermUsersView, PermRolesView},
	)
	marketing := concat(
		EventScopes(),
		[]string{PermCampaignView, PermCampaignCreate, PermCampaignUpdate},
	)
	finance := []string{
		PermOnboardingView,
		PermAssetView,
		PermEventView,
		PermCampaignView,
		PermCampaignUpdateBudget,
	}
	itSupport := concat(
		AssetScopes(),
		[]string{PermOnboardingView, PermUsersView},
	)
	viewer := []string{
		PermOnboardingView,
		PermAssetView,
		PermEventView,
		PermCampaignView,
	}
	return map[Role][]string{
		RoleAdmin:     AllPermissions(),
		RoleManager:   manager,
		RoleMarketing: marketing,
		RoleFinance:   finance,
		RoleITSupport: itSupport,
		RoleViewer:    viewer,
	}
}

// Replace atomically installs a new grant table.
func (r *Registry) Replace(grants map[Role][]string) {
	table := make(grantTable, len(grants))
	for role, perms := range grants {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		table[role] = set
	}
	r.table.Store(&table)
}

// Known reports whether the role exists in the current table.
func (r *Registry) Known(role Role) bool {
	_, ok := (*r.table.Load())[role]
	return ok
}

// PermissionsFor returns the sorted permission set for a role. Unknown
// roles yield an empty set.
func (r *Registry) PermissionsFor(role Role) []string {
	set, ok := (*r.table.Load())[role]
	if !ok {
		return nil
	}
	perms := make([]string, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	sort.Strings(perms)
	return perms
}

// HasPermission reports whether the permission is in the union of grants
// across the given roles.
func (r *Registry) HasPermission(roles []Role, perm string) bool {
	table := *r.table.Load()
	for _, role := range roles {
		if set, ok := table[role]; ok {
			if _, ok := set[perm]; ok {
				return true
			}
		}
	}
	return false
}

func concat(lists ...[]string) []string {
	var out []string
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
