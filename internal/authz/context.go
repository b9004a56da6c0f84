package authz

import "context"

type rolesContextKey struct{}

// ContextWithRoles stores the resolved roles in context so downstream
// checks and audit logging reuse them without re-resolving.
func ContextWithRoles(ctx context.Context, roles []Role) context.Context {
	return context.WithValue(ctx, rolesContextKey{}, roles)
}

// RolesFromContext extracts previously resolved roles from context.
func RolesFromContext(ctx context.Context) ([]Role, bool) {
	roles, ok := ctx.Value(rolesContextKey{}).([]Role)
	return roles, ok
}
