package domain

import "time"

// RoleName distinguishes the four canonical roles from ad-hoc custom roles.
// The name alone never grants capability; only the attached permissions
// document does. Canonical names exist so ownership and platform-admin checks
// cannot be fooled by free-form strings.
type RoleName string

const (
	RolePlatformAdmin RoleName = "PLATFORM_ADMIN"
	RoleOwner         RoleName = "OWNER"
	RoleDriver        RoleName = "DRIVER"
	RoleViewer        RoleName = "VIEWER"
)

// IsCanonical reports whether the name is one of the built-in roles.
func (n RoleName) IsCanonical() bool {
	switch n {
	case RolePlatformAdmin, RoleOwner, RoleDriver, RoleViewer:
		return true
	}
	return false
}

// RoleStatus is the lifecycle state of a member role.
type RoleStatus string

const (
	RoleStatusActive   RoleStatus = "ACTIVE"
	RoleStatusInactive RoleStatus = "INACTIVE"
)

// MemberRole attaches a named permission document to an organization member.
// A member cannot hold the same role name twice.
type MemberRole struct {
	ID          int64
	UUID        string
	MemberID    int64
	Name        RoleName
	Description string
	Status      RoleStatus
	Permissions Permissions
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the role participates in permission consolidation.
func (r *MemberRole) IsActive() bool {
	return r.Status == RoleStatusActive
}

var roleTemplates = map[RoleName]Permissions{
	RolePlatformAdmin: {
		ResourceOrders:    {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionAssign: true, ActionCancel: true, ActionRefund: true},
		ResourceDrivers:   {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionAssign: true, ActionSchedule: true, ActionTrack: true},
		ResourceCustomers: {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionBlock: true, ActionVerify: true},
		ResourceReports:   {ActionRead: true, ActionExport: true, ActionCreate: true, ActionSchedule: true},
		ResourceSettings:  {ActionRead: true, ActionUpdate: true, ActionDelete: true},
		ResourceBilling:   {ActionRead: true, ActionUpdate: true, ActionCreate: true, ActionRefund: true},
		ResourceAnalytics: {ActionRead: true, ActionExport: true, ActionCreate: true},

		ResourceOrganizations: {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionSuspend: true, ActionActivate: true, ActionMigrate: true},
		ResourceMembers:       {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionInvite: true, ActionRemove: true, ActionAssignRoles: true},
		ResourceUsers:         {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionSuspend: true, ActionActivate: true, ActionResetPassword: true},
		ResourceSystem:        {ActionRead: true, ActionUpdate: true, ActionMaintenance: true, ActionBackup: true, ActionRestore: true},
		ResourceSecurity:      {ActionRead: true, ActionUpdate: true, ActionAudit: true, ActionBlockIP: true, ActionWhitelist: true},
		ResourceLogs:          {ActionRead: true, ActionExport: true, ActionDelete: true, ActionAnalyze: true},
		ResourceNotifications: {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionSend: true, ActionSchedule: true},
	},
	RoleOwner: {
		ResourceOrders:    {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionAssign: true, ActionCancel: true, ActionRefund: true},
		ResourceDrivers:   {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionAssign: true, ActionSchedule: true, ActionTrack: true},
		ResourceCustomers: {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true, ActionBlock: true, ActionVerify: true},
		ResourceReports:   {ActionRead: true, ActionExport: true, ActionCreate: true, ActionSchedule: true},
		ResourceSettings:  {ActionRead: true, ActionUpdate: true, ActionDelete: true},
		ResourceBilling:   {ActionRead: true, ActionUpdate: true, ActionCreate: true, ActionRefund: true},
		ResourceAnalytics: {ActionRead: true, ActionExport: true, ActionCreate: true},
	},
	RoleDriver: {
		ResourceOrders:    {ActionRead: true, ActionUpdate: true},
		ResourceCustomers: {ActionRead: true},
	},
	RoleViewer: {
		ResourceOrders:    {ActionRead: true},
		ResourceDrivers:   {ActionRead: true},
		ResourceCustomers: {ActionRead: true},
		ResourceReports:   {ActionRead: true},
		ResourceAnalytics: {ActionRead: true},
	},
}

// TemplatePermissions returns the built-in permission document for a canonical
// role name. Custom role names get an empty document.
func TemplatePermissions(name RoleName) Permissions {
	if template, ok := roleTemplates[name]; ok {
		return template.Clone()
	}
	return Permissions{}
}
