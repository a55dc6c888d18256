package domain

// Role represents who is acting on an entity
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleSystem   Role = "system"
)

// Actor identifies the caller of an operation
type Actor struct {
	ID   string
	Role Role
}

// SystemActor is used by payment confirmation and background jobs
var SystemActor = Actor{ID: "system", Role: RoleSystem}

// IsValid returns true for known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleSystem:
		return true
	}
	return false
}
