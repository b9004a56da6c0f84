package authz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/atrium-portal/atrium/testing"

	"github.com/atrium-portal/atrium/internal/authz"
)

func TestFinanceCanAdjustBudgetButNotDelete(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, []authz.Role{authz.RoleFinance})

	assert.True(t, eval.HasPermission(authz.PermCampaignUpdateBudget))
	assert.False(t, eval.HasPermission(authz.PermCampaignDelete))
	assert.False(t, eval.HasPermission(authz.PermCampaignCreate))
	assert.True(t, eval.HasPermission(authz.PermCampaignView))
}

func TestFullAccessRoleGrantsEverything(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, []authz.Role{authz.RoleAdmin})

	for _, p := range authz.AllPermissions() {
		assert.True(t, eval.HasPermission(p), p)
	}
}

func TestHasAnyPermission(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, []authz.Role{authz.RoleViewer})

	assert.True(t, eval.HasAnyPermission(authz.PermEventDelete, authz.PermEventView))
	assert.False(t, eval.HasAnyPermission(authz.PermEventDelete, authz.PermEventCreate))
	assert.True(t, eval.HasAnyPermission(), "empty requirement is vacuously satisfied")
}

func TestHasAllPermissions(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, []authz.Role{authz.RoleMarketing})

	assert.True(t, eval.HasAllPermissions(authz.PermEventCreate, authz.PermCampaignUpdate))
	assert.False(t, eval.HasAllPermissions(authz.PermEventCreate, authz.PermCampaignDelete))
	assert.True(t, eval.HasAllPermissions())
}

func TestMultipleRolesCombineAsUnion(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, []authz.Role{authz.RoleFinance, authz.RoleITSupport})

	assert.True(t, eval.HasPermission(authz.PermCampaignUpdateBudget), "from finance")
	assert.True(t, eval.HasPermission(authz.PermAssetAssign), "from it_support")
	assert.False(t, eval.HasPermission(authz.PermEventCreate), "neither role grants it")
}

func TestCheckPermissionReasonOnlyOnDenial(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, []authz.Role{authz.RoleFinance})

	granted := eval.CheckPermission(authz.PermCampaignUpdateBudget)
	require.True(t, granted.Granted)
	assert.Empty(t, granted.Reason)
	assert.Equal(t, []authz.Role{authz.RoleFinance}, granted.Roles)

	denied := eval.CheckPermission(authz.PermCampaignDelete)
	require.False(t, denied.Granted)
	assert.Contains(t, denied.Reason, authz.PermCampaignDelete)
	assert.Contains(t, denied.Reason, "finance")
}

func TestEvaluatorWithNoRolesDeniesEverything(t *testing.T) {
	registry := authz.NewRegistry()
	eval := authz.NewEvaluator(registry, nil)

	for _, p := range authz.AllPermissions() {
		assert.False(t, eval.HasPermission(p), p)
	}
}
