// Package permission maps roles to capability sets through a fixed table.
// Resolution is pure and fail-closed: an unknown role resolves to the empty
// set, an unknown action to false. Sets are recomputed per query and never
// cached.
package permission

// The platform roles. Role values travel as strings inside token claims and
// credential records; anything outside this list carries no permissions.
const (
	RoleApprenant  = "apprenant"
	RoleFormateur  = "formateur"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

// Action identifies a single capability.
type Action uint8

const (
	// ActionCreate allows creating platform content.
	ActionCreate Action = iota
	// ActionRead allows reading platform content.
	ActionRead
	// ActionUpdate allows editing platform content.
	ActionUpdate
	// ActionDelete allows destructive removal.
	ActionDelete
	// ActionManageUsers allows user administration.
	ActionManageUsers
	// ActionManageFormations allows formation administration.
	ActionManageFormations

	actionCount
)

// Set is a capability bitmask over [Action].
type Set uint8

// Has reports whether the set grants action. Out-of-range actions are false.
func (s Set) Has(action Action) bool {
	if action >= actionCount {
		return false
	}
	return s&(1<<action) != 0
}

func setOf(actions ...Action) Set {
	var s Set
	for _, a := range actions {
		if a < actionCount {
			s |= 1 << a
		}
	}
	return s
}

// The capability table. Admin deliberately lacks delete; only superadmin may
// remove records.
var roleSets = map[string]Set{
	RoleAdmin:      setOf(ActionCreate, ActionRead, ActionUpdate, ActionManageUsers, ActionManageFormations),
	RoleSuperAdmin: setOf(ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionManageUsers, ActionManageFormations),
	RoleFormateur:  setOf(ActionRead),
	RoleApprenant:  setOf(ActionRead),
}

// ForRole resolves role to its capability set. Unknown roles resolve to the
// empty set.
func ForRole(role string) Set {
	return roleSets[role]
}

// Can reports whether role grants action.
func Can(role string, action Action) bool {
	return ForRole(role).Has(action)
}

// KnownRole reports whether role is one of the platform roles.
func KnownRole(role string) bool {
	_, ok := roleSets[role]
	return ok
}

// IsAdmin reports whether role is admin or superadmin.
func IsAdmin(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// IsSuperAdmin reports whether role is superadmin.
func IsSuperAdmin(role string) bool {
	return role == RoleSuperAdmin
}

var actionNames = map[string]Action{
	"create":           ActionCreate,
	"read":             ActionRead,
	"update":           ActionUpdate,
	"delete":           ActionDelete,
	"manageUsers":      ActionManageUsers,
	"manageFormations": ActionManageFormations,
}

// ParseAction converts an action name from an external boundary into an
// [Action]. Unknown names fail closed.
func ParseAction(name string) (Action, bool) {
	a, ok := actionNames[name]
	return a, ok
}
