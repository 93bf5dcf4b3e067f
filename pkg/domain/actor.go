package domain

// Role is the acting user's job function. It drives station access scoping.
type Role string

const (
	RoleFirefighter           Role = "firefighter"
	RoleMaintenanceTechnician Role = "maintenance_technician"
	RoleAdministrator         Role = "administrator"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleFirefighter, RoleMaintenanceTechnician, RoleAdministrator:
		return true
	}
	return false
}

// HasAllStationAccess reports whether the role sees every station regardless of assignment.
func (r Role) HasAllStationAccess() bool {
	return r == RoleMaintenanceTechnician || r == RoleAdministrator
}

// Actor is the authenticated user an operation runs on behalf of. It is passed
// explicitly into every service call rather than read from ambient context.
type Actor struct {
	ID   UserID
	Role Role
}
