package domain

// Principal is the authentication view of an account: who it is, how to verify its
// password and which role it carries. Implemented by *Admin and *Student.
type Principal interface {
	Identifier() string
	PasswordHash() string
	Role() Role
}

var (
	_ Principal = (*Admin)(nil)
	_ Principal = (*Student)(nil)
)
