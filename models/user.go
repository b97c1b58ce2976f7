package models

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleSpedytor  UserRole = "spedytor"  // forwarder, creates and manages declarations
	RoleKierowca  UserRole = "kierowca"  // driver, read-only on own declarations
	RoleKierownik UserRole = "kierownik" // team manager
	RoleAudytor   UserRole = "audytor"   // auditor, read-only everywhere
	RoleKlient    UserRole = "klient"    // external client, limited access
	RoleSupport   UserRole = "support"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
	UserPending   UserStatus = "pending"
	UserBlocked   UserStatus = "blocked"
)

const (
	PermUsersManage       = "users.manage"
	PermUsersView         = "users.view"
	PermSentCreate        = "sent.create"
	PermSentEdit          = "sent.edit"
	PermSentDelete        = "sent.delete"
	PermSentView          = "sent.view"
	PermSentApprove       = "sent.approve"
	PermDataManage        = "data.manage"
	PermDataImport        = "data.import"
	PermDataExport        = "data.export"
	PermReportsView       = "reports.view"
	PermReportsCreate     = "reports.create"
	PermAuditView         = "audit.view"
	PermSettingsManage    = "settings.manage"
	PermAPIAccess         = "api.access"
	PermNotificationsSend = "notifications.send"
)

// rolePermissions are the static templates assigned at account creation.
// There is no dynamic permission composition.
var rolePermissions = map[UserRole][]string{
	RoleAdmin: {
		PermUsersManage, PermUsersView, PermSentCreate, PermSentEdit,
		PermSentDelete, PermSentView, PermSentApprove, PermDataManage,
		PermDataImport, PermDataExport, PermReportsView, PermReportsCreate,
		PermAuditView, PermSettingsManage, PermAPIAccess, PermNotificationsSend,
	},
	RoleKierownik: {
		PermUsersView, PermSentCreate, PermSentEdit, PermSentView,
		PermSentApprove, PermDataManage, PermReportsView, PermReportsCreate,
		PermAuditView,
	},
	RoleSpedytor: {
		PermSentCreate, PermSentEdit, PermSentView, PermDataManage,
		PermDataExport, PermReportsView,
	},
	RoleKierowca: {PermSentView},
	RoleAudytor:  {PermSentView, PermUsersView, PermReportsView, PermAuditView},
	RoleKlient:   {PermSentView},
	RoleSupport:  {PermUsersView, PermSentView, PermAuditView},
}

// DefaultPermissions returns the permission map for a role. Unknown roles
// get an empty map.
func DefaultPermissions(role UserRole) map[string]bool {
	perms := make(map[string]bool)
	for _, p := range rolePermissions[role] {
		perms[p] = true
	}
	return perms
}
