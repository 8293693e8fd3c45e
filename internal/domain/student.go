package domain

import "time"

// Address is embedded twice in a student record (permanent and current).
type Address struct {
	Line1    string `json:"addressLine1"`
	Line2    string `json:"addressLine2"`
	Landmark string `json:"landmark"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
	ZipCode  string `json:"zipCode"`
}

// Student models a student account and its academic profile.
type Student struct {
	UserName           string
	RollNo             string
	FirstName          string
	LastName           string
	Age                int
	Password           string
	DateOfBirth        *time.Time
	DateOfRegistration *time.Time
	ContactNumber      string
	BloodGroup         string
	EmergencyContact   string
	ProfileStatus      ProfileStatus
	DateOfLeaving      *time.Time
	FatherName         string
	MotherName         string
	FatherContact      string
	MotherContact      string
	PermanentAddress   Address
	CurrentAddress     Address
	ClassDivision      string
	AcademicStream     AcademicStream
	AcademicCourse     AcademicCourse
	BatchYear          *int
	Remarks            string
	Email              string
	GuardianName       string
	GuardianContact    string
	ProfilePhotoKey    string
	CreatedDate        time.Time
	ModifiedDate       time.Time
	LastLoginDate      *time.Time
}

// Identifier returns the generated student user name.
func (s *Student) Identifier() string { return s.UserName }

// PasswordHash returns the stored bcrypt hash.
func (s *Student) PasswordHash() string { return s.Password }

// Role always reports RoleStudent.
func (s *Student) Role() Role { return RoleStudent }
