package domain

import "testing"

func TestConsolidatePermissionsORSemantics(t *testing.T) {
	viewer := Permissions{
		ResourceOrders: {ActionRead: true},
	}
	driver := Permissions{
		ResourceOrders: {ActionRead: true, ActionUpdate: true},
	}

	merged := ConsolidatePermissions(viewer, driver)

	if !merged.Has(ResourceOrders, ActionRead) {
		t.Error("orders.read should be granted")
	}
	if !merged.Has(ResourceOrders, ActionUpdate) {
		t.Error("orders.update should be granted by the driver role")
	}
	if merged.Has(ResourceOrders, ActionDelete) {
		t.Error("orders.delete was never granted")
	}
}

func TestConsolidateIgnoresExplicitDenials(t *testing.T) {
	granting := Permissions{
		ResourceOrders: {ActionCancel: true},
	}
	denying := Permissions{
		ResourceOrders: {ActionCancel: false},
	}

	// Most-permissive-wins: a denial in one role never masks a grant in
	// another, regardless of argument order.
	if !ConsolidatePermissions(granting, denying).Has(ResourceOrders, ActionCancel) {
		t.Error("grant masked by later denial")
	}
	if !ConsolidatePermissions(denying, granting).Has(ResourceOrders, ActionCancel) {
		t.Error("grant masked by earlier denial")
	}

	merged := ConsolidatePermissions(denying)
	if _, present := merged[ResourceOrders]; present {
		t.Error("pure denials should not materialize resource entries")
	}
}

func TestFilterByOrgKindTenant(t *testing.T) {
	perms := Permissions{
		ResourceOrders:        {ActionRead: true, ActionUpdate: true},
		ResourceOrganizations: {ActionRead: true},
		ResourceSystem:        {ActionMaintenance: true},
	}

	filtered := FilterByOrgKind(perms, false)

	if !filtered.Has(ResourceOrders, ActionRead) || !filtered.Has(ResourceOrders, ActionUpdate) {
		t.Error("tenant-scope orders permissions dropped")
	}
	if _, present := filtered[ResourceOrganizations]; present {
		t.Error("platform-scope organizations key leaked into tenant filter")
	}
	if _, present := filtered[ResourceSystem]; present {
		t.Error("platform-scope system key leaked into tenant filter")
	}
}

func TestFilterByOrgKindPlatform(t *testing.T) {
	perms := Permissions{
		ResourceOrders:        {ActionRead: true},
		ResourceOrganizations: {ActionRead: true, ActionSuspend: true},
		ResourceUsers:         {ActionResetPassword: true},
	}

	filtered := FilterByOrgKind(perms, true)

	if _, present := filtered[ResourceOrders]; present {
		t.Error("tenant-scope orders key leaked into platform filter")
	}
	if !filtered.Has(ResourceOrganizations, ActionSuspend) {
		t.Error("platform-scope organizations permissions dropped")
	}
	if !filtered.Has(ResourceUsers, ActionResetPassword) {
		t.Error("platform-scope users permissions dropped")
	}
}

func TestTemplatePermissions(t *testing.T) {
	owner := TemplatePermissions(RoleOwner)
	if !owner.Has(ResourceOrders, ActionRefund) {
		t.Error("OWNER template should grant orders.refund")
	}
	if _, present := owner[ResourceOrganizations]; present {
		t.Error("OWNER template should carry no platform-scope keys")
	}

	admin := TemplatePermissions(RolePlatformAdmin)
	if !admin.Has(ResourceOrganizations, ActionMigrate) {
		t.Error("PLATFORM_ADMIN template should grant organizations.migrate")
	}
	if !admin.Has(ResourceOrders, ActionDelete) {
		t.Error("PLATFORM_ADMIN template should also carry tenant-scope grants")
	}

	driver := TemplatePermissions(RoleDriver)
	if driver.Has(ResourceOrders, ActionCreate) {
		t.Error("DRIVER template should not grant orders.create")
	}
	if !driver.Has(ResourceOrders, ActionUpdate) {
		t.Error("DRIVER template should grant orders.update")
	}

	custom := TemplatePermissions(RoleName("DISPATCHER"))
	if len(custom) != 0 {
		t.Error("custom role names carry no template grants")
	}

	// Templates are cloned: mutating a copy must not poison the source.
	owner[ResourceOrders][ActionRefund] = false
	if !TemplatePermissions(RoleOwner).Has(ResourceOrders, ActionRefund) {
		t.Error("template mutated through returned copy")
	}
}

func TestEffectivePermissions(t *testing.T) {
	member := OrganizationMember{
		Roles: []MemberRole{
			{Name: RoleViewer, Status: RoleStatusActive, Permissions: Permissions{
				ResourceOrders:        {ActionRead: true},
				ResourceOrganizations: {ActionRead: true},
			}},
			{Name: RoleDriver, Status: RoleStatusActive, Permissions: Permissions{
				ResourceOrders: {ActionUpdate: true},
			}},
			{Name: RoleOwner, Status: RoleStatusInactive, Permissions: Permissions{
				ResourceOrders: {ActionDelete: true},
			}},
		},
	}

	effective := member.EffectivePermissions(false)

	if !effective.Has(ResourceOrders, ActionRead) || !effective.Has(ResourceOrders, ActionUpdate) {
		t.Error("active role grants missing from effective permissions")
	}
	if effective.Has(ResourceOrders, ActionDelete) {
		t.Error("inactive role contributed grants")
	}
	if _, present := effective[ResourceOrganizations]; present {
		t.Error("platform-scope key survived tenant filter")
	}
}

func TestRoleNameIsCanonical(t *testing.T) {
	for _, name := range []RoleName{RolePlatformAdmin, RoleOwner, RoleDriver, RoleViewer} {
		if !name.IsCanonical() {
			t.Errorf("%s should be canonical", name)
		}
	}
	if RoleName("DISPATCHER").IsCanonical() {
		t.Error("custom names are not canonical")
	}
}
