// Package authz implements the portal's authorization core: the
// role/permission registry, the multi-source role resolver, the permission
// evaluator, and the request gate with its ownership override.
package authz

// Role is one of the fixed portal roles.
type Role string

const (
	// RoleAdmin holds every permission in the catalog.
	RoleAdmin Role = "admin"
	RoleManager Role = "manager"
	RoleMarketing Role = "marketing"
	RoleFinance Role = "finance"
	RoleITSupport Role = "it_support"
	// RoleViewer is the lowest-privilege default.
	RoleViewer Role = "viewer"
)

// DefaultRole is assigned when no trust source yields a role.
const DefaultRole = RoleViewer

// AllRoles lists the fixed role enumeration.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleMarketing, RoleFinance, RoleITSupport, RoleViewer}
}

// Provenance records which trust source produced a role assignment. It is
// always derived server-side, never accepted from a client.
type Provenance string

const (
	ProvenanceExplicit   Provenance = "explicit"
	ProvenanceGroup      Provenance = "group"
	ProvenanceDepartment Provenance = "department"
	ProvenanceDefault    Provenance = "default"
)

// Assignment binds an identity to a role for one authorization decision.
type Assignment struct {
	Role       Role
	Provenance Provenance
	Active     bool
}

// RolesOf extracts the distinct active roles from an assignment list,
// preserving order.
func RolesOf(assignments []Assignment) []Role {
	seen := make(map[Role]struct{}, len(assignments))
	roles := make([]Role, 0, len(assignments))
	for _, a := range assignments {
		if !a.Active {
			continue
		}
		if _, ok := seen[a.Role]; ok {
			continue
		}
		seen[a.Role] = struct{}{}
		roles = append(roles, a.Role)
	}
	return roles
}

func roleNames(roles []Role) []string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return names
}
