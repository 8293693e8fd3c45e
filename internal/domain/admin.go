package domain

import "time"

// Admin models an administrator account.
type Admin struct {
	UserName        string
	FirstName       string
	LastName        string
	Password        string
	Email           string
	ContactNumber   string
	Status          ProfileStatus
	ProfilePhotoKey string
	CreatedDate     time.Time
	LastLoginDate   *time.Time
	ModifiedDate    time.Time
}

// Identifier returns the generated admin user name.
func (a *Admin) Identifier() string { return a.UserName }

// PasswordHash returns the stored bcrypt hash.
func (a *Admin) PasswordHash() string { return a.Password }

// Role always reports RoleAdmin.
func (a *Admin) Role() Role { return RoleAdmin }
