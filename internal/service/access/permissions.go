// internal/service/access/permissions.go
package access

import "academy-service/internal/domain/user"

type Action string

const (
	ActionViewEntitlement Action = "entitlement:view"
	ActionViewKPIs        Action = "kpi:view"
	ActionManageKPIs      Action = "kpi:manage"
	ActionSyncBilling     Action = "billing:sync"
	ActionListAcquirers   Action = "billing:acquirers"
	ActionViewPayments    Action = "payments:view"
	ActionCleanupPayments Action = "payments:cleanup"
)

var matrix = map[user.Role]map[Action]bool{
	user.RoleSuperAdmin: {
		ActionViewEntitlement: true,
		ActionViewKPIs:        true,
		ActionManageKPIs:      true,
		ActionSyncBilling:     true,
		ActionListAcquirers:   true,
		ActionViewPayments:    true,
		ActionCleanupPayments: true,
	},
	user.RoleAcademyAdmin: {
		ActionViewEntitlement: true,
		ActionViewKPIs:        true,
		ActionManageKPIs:      true,
		ActionSyncBilling:     true,
		ActionListAcquirers:   true,
		ActionViewPayments:    true,
	},
	user.RoleCoach: {
		ActionViewEntitlement: true,
		ActionViewKPIs:        true,
		ActionListAcquirers:   true,
	},
	user.RoleStudent: {
		ActionViewEntitlement: true,
		ActionListAcquirers:   true,
	},
}

// Can reports whether role may perform action. Unknown roles and actions are denied.
func Can(role user.Role, action Action) bool {
	return matrix[role][action]
}
