package authz

import (
	"fmt"
	"strings"
)

// Evaluator answers permission queries for one resolved role list. It holds
// no mutable state and performs no I/O.
type Evaluator struct {
	registry *Registry
	roles    []Role
}

// NewEvaluator builds an evaluator over the given roles.
func NewEvaluator(registry *Registry, roles []Role) Evaluator {
	return Evaluator{registry: registry, roles: roles}
}

// Roles returns the resolved role list backing this evaluator.
func (e Evaluator) Roles() []Role {
	return e.roles
}

// HasPermission reports whether any resolved role grants the permission.
func (e Evaluator) HasPermission(perm string) bool {
	return e.registry.HasPermission(e.roles, perm)
}

// HasAnyPermission reports whether at least one of the permissions is
// granted. An empty requirement list is vacuously satisfied.
func (e Evaluator) HasAnyPermission(perms ...string) bool {
	if len(perms) == 0 {
		return true
	}
	for _, p := range perms {
		if e.registry.HasPermission(e.roles, p) {
			return true
		}
	}
	return false
}

// HasAllPermissions reports whether every permission is granted.
func (e Evaluator) HasAllPermissions(perms ...string) bool {
	for _, p := range perms {
		if !e.registry.HasPermission(e.roles, p) {
			return false
		}
	}
	return true
}

// CheckResult carries a permission decision with audit context.
type CheckResult struct {
	Granted bool
	Roles   []Role
	Reason  string
}

// CheckPermission evaluates one permission and, on denial, states the
// requirement and the resolved roles for audit logs.
func (e Evaluator) CheckPermission(perm string) CheckResult {
	if e.HasPermission(perm) {
		return CheckResult{Granted: true, Roles: e.roles}
	}
	return CheckResult{
		Roles:  e.roles,
		Reason: fmt.Sprintf("requires %s; resolved roles: %s", perm, strings.Join(roleNames(e.roles), ", ")),
	}
}
