package dto

import (
	"github.com/synchrony/student-management/internal/domain"
)

// AdminRequest creates or edits an administrator. Password is mandatory on creation and
// optional on edit.
type AdminRequest struct {
	FirstName     string               `json:"firstName" validate:"required"`
	LastName      string               `json:"lastName" validate:"required"`
	Email         string               `json:"email" validate:"required,email"`
	Password      string               `json:"password" validate:"omitempty,strongpassword"`
	ContactNumber string               `json:"contactNumber" validate:"required"`
	ProfileStatus domain.ProfileStatus `json:"profileStatus" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// AdminResponse is the public view of an administrator.
type AdminResponse struct {
	UserName        string               `json:"userName"`
	FirstName       string               `json:"firstName"`
	LastName        string               `json:"lastName"`
	Email           string               `json:"email"`
	ContactNumber   string               `json:"contactNumber"`
	ProfileStatus   domain.ProfileStatus `json:"profileStatus"`
	ProfilePhotoURL string               `json:"profilePhotoUrl"`
	CreatedDate     *Date                `json:"createdDate"`
	LastLoginDate   *Date                `json:"lastLoginDate"`
	ModifiedDate    *Date                `json:"modifiedDate"`
}

// ApplyTo copies the editable fields onto admin. The password is handled by the service.
func (r *AdminRequest) ApplyTo(admin *domain.Admin) {
	admin.FirstName = r.FirstName
	admin.LastName = r.LastName
	admin.Email = r.Email
	admin.ContactNumber = r.ContactNumber
	if r.ProfileStatus != "" {
		admin.Status = r.ProfileStatus
	}
	if admin.Status == "" {
		admin.Status = domain.ProfileStatusActive
	}
}

// FromAdmin maps a domain admin to its response. photoURL is the download location of the
// profile picture.
func FromAdmin(admin *domain.Admin, photoURL string) AdminResponse {
	created, modified := admin.CreatedDate, admin.ModifiedDate
	return AdminResponse{
		UserName:        admin.UserName,
		FirstName:       admin.FirstName,
		LastName:        admin.LastName,
		Email:           admin.Email,
		ContactNumber:   admin.ContactNumber,
		ProfileStatus:   admin.Status,
		ProfilePhotoURL: photoURL,
		CreatedDate:     DateOf(&created),
		LastLoginDate:   DateOf(admin.LastLoginDate),
		ModifiedDate:    DateOf(&modified),
	}
}
