package domain

// Role enumerates the two fixed authorities a principal can hold.
type Role string

const (
	RoleAdmin   Role = "ROLE_ADMIN"
	RoleStudent Role = "ROLE_STUDENT"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleStudent
}

// ProfileStatus represents lifecycle states for an account.
type ProfileStatus string

const (
	ProfileStatusActive   ProfileStatus = "ACTIVE"
	ProfileStatusInactive ProfileStatus = "INACTIVE"
)
