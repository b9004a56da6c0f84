package authz

// Onboarding permissions.
const (
	PermOnboardingView    = "onboarding.view"
	PermOnboardingCreate  = "onboarding.create"
	PermOnboardingUpdate  = "onboarding.update"
	PermOnboardingApprove = "onboarding.approve"
)

// Hardware/software inventory permissions.
const (
	PermAssetView   = "asset.view"
	PermAssetCreate = "asset.create"
	PermAssetUpdate = "asset.update"
	PermAssetAssign = "asset.assign"
)

// Marketing event permissions.
const (
	PermEventView   = "event.view"
	PermEventCreate = "event.create"
	PermEventUpdate = "event.update"
	PermEventDelete = "event.delete"
)

// Campaign permissions.
const (
	PermCampaignView         = "campaign.view"
	PermCampaignCreate       = "campaign.create"
	PermCampaignUpdate       = "campaign.update"
	PermCampaignUpdateBudget = "campaign.update_budget"
	PermCampaignDelete       = "campaign.delete"
	PermCampaignApprove      = "campaign.approve"
)

// Platform administration permissions.
const (
	PermUsersView   = "users.view"
	PermRolesView   = "roles.view"
	PermRolesManage = "roles.manage"
)

// OnboardingScopes lists all onboarding permissions.
func OnboardingScopes() []string {
	return []string{
		PermOnboardingView,
		PermOnboardingCreate,
		PermOnboardingUpdate,
		PermOnboardingApprove,
	}
}

// AssetScopes lists all inventory permissions.
func AssetScopes() []string {
	return []string{
		PermAssetView,
		PermAssetCreate,
		PermAssetUpdate,
		PermAssetAssign,
	}
}

// EventScopes lists all event permissions.
func EventScopes() []string {
	return []string{
		PermEventView,
		PermEventCreate,
		PermEventUpdate,
		PermEventDelete,
	}
}

// CampaignScopes lists all campaign permissions.
func CampaignScopes() []string {
	return []string{
		PermCampaignView,
		PermCampaignCreate,
		PermCampaignUpdate,
		PermCampaignUpdateBudget,
		PermCampaignDelete,
		PermCampaignApprove,
	}
}

// AdminScopes lists all platform administration permissions.
func AdminScopes() []string {
	return []string{
		PermUsersView,
		PermRolesView,
		PermRolesManage,
	}
}

// AllPermissions returns the whole permission catalog.
func AllPermissions() []string {
	var all []string
	all = append(all, OnboardingScopes()...)
	all = append(all, AssetScopes()...)
	all = append(all, EventScopes()...)
	all = append(all, CampaignScopes()...)
	all = append(all, AdminScopes()...)
	return all
}
