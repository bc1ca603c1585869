package enum

// Role is the staff account role used for route gating.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleReception Role = "reception"
	RoleCoach     Role = "coach"
)

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleReception, RoleCoach:
		return true
	}
	return false
}
