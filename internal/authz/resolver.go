package authz

import (
	"context"
	"log/slog"

	"github.com/atrium-portal/atrium/internal/identity"
	"github.com/atrium-portal/atrium/internal/observability"
)

// AssignmentStore loads persisted role assignments for an identity. The
// administrative write path lives outside this core; only reads happen here.
type AssignmentStore interface {
	FindActiveByUser(ctx context.Context, userID string) ([]Assignment, error)
}

// Strategy is one precedence level of the resolution chain. Returning an
// empty assignment list means "no opinion, try the next level"; returning an
// error means the level's data source failed and the chain degrades past it.
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, p identity.Principal) ([]Assignment, error)
}

// Resolver computes the ordered assignment list for one identity by trying
// strategies in precedence order. A source failure degrades to the next
// level; it can never fail the request and never fails upward in privilege,
// because every lower level only consults data already present on the
// principal snapshot.
type Resolver struct {
	strategies []Strategy
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewResolver wires the standard four-level chain: explicit persisted
// assignments, elevated directory group, department mapping, default role.
func NewResolver(store AssignmentStore, elevatedGroupID string, logger *slog.Logger, metrics *observability.Metrics) *Resolver {
	return NewResolverWithStrategies(logger, metrics,
		NewExplicitStrategy(store),
		NewGroupStrategy(elevatedGroupID),
		NewDepartmentStrategy(DefaultDepartmentRoles()),
		NewDefaultStrategy(),
	)
}

// NewResolverWithStrategies builds a resolver over a custom chain.
func NewResolverWithStrategies(logger *slog.Logger, metrics *observability.Metrics, strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, logger: logger, metrics: metrics}
}

// Resolve returns the assignments for the principal. The result is never
// empty: the default strategy always matches.
func (r *Resolver) Resolve(ctx context.Context, p identity.Principal) []Assignment {
	for _, s := range r.strategies {
		assignments, err := s.Resolve(ctx, p)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("role resolution degraded",
					slog.String("strategy", s.Name()),
					slog.String("user", p.ID),
					slog.Any("error", err))
			}
			r.metrics.ResolverDegradation(s.Name())
			continue
		}
		if len(assignments) > 0 {
			return assignments
		}
	}
	return []Assignment{{Role: DefaultRole, Provenance: ProvenanceDefault, Active: true}}
}

// ResolveRoles resolves and reduces to the distinct active role list.
func (r *Resolver) ResolveRoles(ctx context.Context, p identity.Principal) []Role {
	return RolesOf(r.Resolve(ctx, p))
}

// DefaultDepartmentRoles maps organizational departments to portal roles.
func DefaultDepartmentRoles() map[string]Role {
	return map[string]Role{
		"Finance":                RoleFinance,
		"Marketing":              RoleMarketing,
		"IT":                     RoleITSupport,
		"Information Technology": RoleITSupport,
	}
}

type explicitStrategy struct {
	store AssignmentStore
}

// NewExplicitStrategy resolves from persisted role assignments. Multiple
// concurrent assignments are used verbatim.
func NewExplicitStrategy(store AssignmentStore) Strategy {
	return explicitStrategy{store: store}
}

func (explicitStrategy) Name() string { return "explicit" }

func (s explicitStrategy) Resolve(ctx context.Context, p identity.Principal) ([]Assignment, error) {
	if s.store == nil {
		return nil, nil
	}
	rows, err := s.store.FindActiveByUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	assignments := make([]Assignment, 0, len(rows))
	for _, row := range rows {
		if !row.Active {
			continue
		}
		// Provenance is stamped here regardless of what the store returned.
		assignments = append(assignments, Assignment{
			Role:       row.Role,
			Provenance: ProvenanceExplicit,
			Active:     true,
		})
	}
	return assignments, nil
}

type groupStrategy struct {
	elevatedGroupID string
}

// NewGroupStrategy grants the full-access role to members of the designated
// elevated directory group.
func NewGroupStrategy(elevatedGroupID string) Strategy {
	return groupStrategy{elevatedGroupID: elevatedGroupID}
}

func (groupStrategy) Name() string { return "group" }

func (s groupStrategy) Resolve(ctx context.Context, p identity.Principal) ([]Assignment, error) {
	if !p.InGroup(s.elevatedGroupID) {
		return nil, nil
	}
	return []Assignment{{Role: RoleAdmin, Provenance: ProvenanceGroup, Active: true}}, nil
}

type departmentStrategy struct {
	table map[string]Role
}

// NewDepartmentStrategy maps the principal's department through a fixed
// department→role table.
func NewDepartmentStrategy(table map[string]Role) Strategy {
	return departmentStrategy{table: table}
}

func (departmentStrategy) Name() string { return "department" }

func (s departmentStrategy) Resolve(ctx context.Context, p identity.Principal) ([]Assignment, error) {
	if p.Department == "" {
		return nil, nil
	}
	role, ok := s.table[p.Department]
	if !ok {
		return nil, nil
	}
	return []Assignment{{Role: role, Provenance: ProvenanceDepartment, Active: true}}, nil
}

type defaultStrategy struct{}

// NewDefaultStrategy always assigns the lowest-privilege default role.
func NewDefaultStrategy() Strategy {
	return defaultStrategy{}
}

func (defaultStrategy) Name() string { return "default" }

func (defaultStrategy) Resolve(ctx context.Context, p identity.Principal) ([]Assignment, error) {
	return []Assignment{{Role: DefaultRole, Provenance: ProvenanceDefault, Active: true}}, nil
}
