package domain

// Resource identifies a permission namespace. The set is closed: unknown
// resource strings never grant anything.
type Resource string

const (
	ResourceOrders    Resource = "orders"
	ResourceDrivers   Resource = "drivers"
	ResourceCustomers Resource = "customers"
	ResourceReports   Resource = "reports"
	ResourceSettings  Resource = "settings"
	ResourceBilling   Resource = "billing"
	ResourceAnalytics Resource = "analytics"

	ResourceOrganizations Resource = "organizations"
	ResourceMembers       Resource = "members"
	ResourceUsers         Resource = "users"
	ResourceSystem        Resource = "system"
	ResourceSecurity      Resource = "security"
	ResourceLogs          Resource = "logs"
	ResourceNotifications Resource = "notifications"
)

// Action identifies an operation on a resource.
type Action string

const (
	ActionCreate        Action = "create"
	ActionRead          Action = "read"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionAssign        Action = "assign"
	ActionCancel        Action = "cancel"
	ActionRefund        Action = "refund"
	ActionSchedule      Action = "schedule"
	ActionTrack         Action = "track"
	ActionBlock         Action = "block"
	ActionVerify        Action = "verify"
	ActionExport        Action = "export"
	ActionSuspend       Action = "suspend"
	ActionActivate      Action = "activate"
	ActionMigrate       Action = "migrate"
	ActionInvite        Action = "invite"
	ActionRemove        Action = "remove"
	ActionAssignRoles   Action = "assign_roles"
	ActionResetPassword Action = "reset_password"
	ActionMaintenance   Action = "maintenance"
	ActionBackup        Action = "backup"
	ActionRestore       Action = "restore"
	ActionAudit         Action = "audit"
	ActionBlockIP       Action = "block_ip"
	ActionWhitelist     Action = "whitelist"
	ActionAnalyze       Action = "analyze"
	ActionSend          Action = "send"
)

// Permissions maps resources to the actions granted on them. A missing
// resource or action reads as denied; only explicit true values grant.
type Permissions map[Resource]map[Action]bool

// organizationScopeResources are the namespaces a tenant organization may
// expose. Everything else is dropped when building tenant-effective
// permissions.
var organizationScopeResources = map[Resource]bool{
	ResourceOrders:    true,
	ResourceDrivers:   true,
	ResourceCustomers: true,
	ResourceReports:   true,
	ResourceSettings:  true,
	ResourceBilling:   true,
	ResourceAnalytics: true,
}

// platformScopeResources are the namespaces reserved for the platform
// organization.
var platformScopeResources = map[Resource]bool{
	ResourceOrganizations: true,
	ResourceUsers:         true,
	ResourceMembers:       true,
	ResourceSystem:        true,
	ResourceSecurity:      true,
	ResourceLogs:          true,
	ResourceNotifications: true,
}

// Has reports whether the action is explicitly granted on the resource.
func (p Permissions) Has(resource Resource, action Action) bool {
	actions, ok := p[resource]
	if !ok {
		return false
	}
	return actions[action]
}

// Clone returns a deep copy so callers can mutate safely.
func (p Permissions) Clone() Permissions {
	if p == nil {
		return nil
	}
	out := make(Permissions, len(p))
	for resource, actions := range p {
		copied := make(map[Action]bool, len(actions))
		for action, granted := range actions {
			copied[action] = granted
		}
		out[resource] = copied
	}
	return out
}

// ConsolidatePermissions OR-merges multiple role permission documents into one
// effective map. A pair is present iff at least one document grants it; denials
// in one role never mask a grant in another.
func ConsolidatePermissions(docs ...Permissions) Permissions {
	consolidated := make(Permissions)
	for _, doc := range docs {
		for resource, actions := range doc {
			for action, granted := range actions {
				if !granted {
					continue
				}
				if consolidated[resource] == nil {
					consolidated[resource] = make(map[Action]bool)
				}
				consolidated[resource][action] = true
			}
		}
	}
	return consolidated
}

// FilterByOrgKind reduces a consolidated map to the namespaces valid for the
// organization kind. Off-list resources are removed entirely, granted or not.
// Role documents are global and may carry both scopes; this filter is the
// boundary that keeps platform capability out of tenant sessions.
func FilterByOrgKind(perms Permissions, isPlatformOrg bool) Permissions {
	allowed := organizationScopeResources
	if isPlatformOrg {
		allowed = platformScopeResources
	}

	filtered := make(Permissions)
	for resource, actions := range perms {
		if !allowed[resource] {
			continue
		}
		copied := make(map[Action]bool, len(actions))
		for action, granted := range actions {
			copied[action] = granted
		}
		filtered[resource] = copied
	}
	return filtered
}
