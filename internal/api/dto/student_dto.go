package dto

import (
	"github.com/synchrony/student-management/internal/domain"
)

// StudentRequest carries the details a student may edit about themselves. Admins use the
// same payload when enrolling a student, where Password becomes mandatory.
type StudentRequest struct {
	FirstName        string          `json:"firstName" validate:"required,alpha"`
	LastName         string          `json:"lastName" validate:"required,alpha"`
	Age              int             `json:"age" validate:"min=1,max=20"`
	DateOfBirth      *Date           `json:"dateOfBirth" validate:"required,past"`
	ContactNumber    string          `json:"contactNumber" validate:"required,phone"`
	BloodGroup       string          `json:"bloodGroup" validate:"required"`
	FatherName       string          `json:"fatherName"`
	MotherName       string          `json:"motherName"`
	PermanentAddress *domain.Address `json:"permanentAddress"`
	CurrentAddress   *domain.Address `json:"currentAddress"`
	Email            string          `json:"email" validate:"required,email"`
	GuardianName     string          `json:"guardianName"`
	GuardianContact  string          `json:"guardianContact" validate:"omitempty,phone"`
	Password         string          `json:"password" validate:"omitempty,strongpassword"`
}

// AdminStudentRequest carries the academic and administrative fields only admins may set.
type AdminStudentRequest struct {
	RollNo         string               `json:"rollNo" validate:"required"`
	AcademicStream string               `json:"academicStream" validate:"required,oneof=ARTS COMMERCE SCIENCE"`
	AcademicCourse string               `json:"academicCourse" validate:"required,course"`
	BatchYear      *int                 `json:"batchYear" validate:"required,min=1900,max=2100"`
	ClassDivision  string               `json:"classDivision"`
	ProfileStatus  domain.ProfileStatus `json:"profileStatus" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	DateOfLeaving  *Date                `json:"dateOfLeaving"`
	Remarks        string               `json:"remarks"`
}

// StudentResponse is the public view of a student.
type StudentResponse struct {
	UserName           string               `json:"userName"`
	FirstName          string               `json:"firstName"`
	LastName           string               `json:"lastName"`
	Age                int                  `json:"age"`
	DateOfBirth        *Date                `json:"dateOfBirth"`
	DateOfRegistration *Date                `json:"dateOfRegistration,omitempty"`
	ContactNumber      string               `json:"contactNumber"`
	BloodGroup         string               `json:"bloodGroup"`
	FatherName         string               `json:"fatherName"`
	MotherName         string               `json:"motherName"`
	PermanentAddress   domain.Address       `json:"permanentAddress"`
	CurrentAddress     domain.Address       `json:"currentAddress"`
	Email              string               `json:"email"`
	GuardianName       string               `json:"guardianName"`
	GuardianContact    string               `json:"guardianContact"`
	ProfilePhotoURL    string               `json:"profilePhotoUrl"`
	RollNo             string               `json:"rollNo"`
	AcademicStream     string               `json:"academicStream"`
	AcademicCourse     string               `json:"academicCourse"`
	AcademicCourseName string               `json:"academicCourseName,omitempty"`
	BatchYear          *int                 `json:"batchYear"`
	ClassDivision      string               `json:"classDivision"`
	ProfileStatus      domain.ProfileStatus `json:"profileStatus"`
	DateOfLeaving      *Date                `json:"dateOfLeaving"`
	Remarks            string               `json:"remarks"`
	LastLoginDate      *Date                `json:"lastLoginDate"`
}

// ApplyTo copies the self-editable fields onto student. The password is handled by the
// service.
func (r *StudentRequest) ApplyTo(s *domain.Student) {
	s.FirstName = r.FirstName
	s.LastName = r.LastName
	s.Age = r.Age
	s.DateOfBirth = r.DateOfBirth.Time()
	s.ContactNumber = r.ContactNumber
	s.BloodGroup = r.BloodGroup
	s.FatherName = r.FatherName
	s.MotherName = r.MotherName
	if r.PermanentAddress != nil {
		s.PermanentAddress = *r.PermanentAddress
	}
	if r.CurrentAddress != nil {
		s.CurrentAddress = *r.CurrentAddress
	}
	s.Email = r.Email
	s.GuardianName = r.GuardianName
	s.GuardianContact = r.GuardianContact
	if s.ProfileStatus == "" {
		s.ProfileStatus = domain.ProfileStatusActive
	}
}

// ApplyTo copies the admin-only fields onto student.
func (r *AdminStudentRequest) ApplyTo(s *domain.Student) {
	s.RollNo = r.RollNo
	s.AcademicStream = domain.AcademicStream(r.AcademicStream)
	s.AcademicCourse = domain.AcademicCourse(r.AcademicCourse)
	s.BatchYear = r.BatchYear
	s.ClassDivision = r.ClassDivision
	if r.ProfileStatus != "" {
		s.ProfileStatus = r.ProfileStatus
	}
	s.DateOfLeaving = r.DateOfLeaving.Time()
	s.Remarks = r.Remarks
}

// FromStudent maps a domain student to its response.
func FromStudent(s *domain.Student, photoURL string) StudentResponse {
	resp := StudentResponse{
		UserName:           s.UserName,
		FirstName:          s.FirstName,
		LastName:           s.LastName,
		Age:                s.Age,
		DateOfBirth:        DateOf(s.DateOfBirth),
		DateOfRegistration: DateOf(s.DateOfRegistration),
		ContactNumber:      s.ContactNumber,
		BloodGroup:         s.BloodGroup,
		FatherName:         s.FatherName,
		MotherName:         s.MotherName,
		PermanentAddress:   s.PermanentAddress,
		CurrentAddress:     s.CurrentAddress,
		Email:              s.Email,
		GuardianName:       s.GuardianName,
		GuardianContact:    s.GuardianContact,
		ProfilePhotoURL:    photoURL,
		RollNo:             s.RollNo,
		AcademicStream:     string(s.AcademicStream),
		AcademicCourse:     string(s.AcademicCourse),
		BatchYear:          s.BatchYear,
		ClassDivision:      s.ClassDivision,
		ProfileStatus:      s.ProfileStatus,
		DateOfLeaving:      DateOf(s.DateOfLeaving),
		Remarks:            s.Remarks,
		LastLoginDate:      DateOf(s.LastLoginDate),
	}
	if s.AcademicCourse != "" {
		resp.AcademicCourseName = s.AcademicCourse.FullName()
	}
	return resp
}

// FromStudents maps a slice, never returning nil so empty lists encode as [].
func FromStudents(students []*domain.Student, photoURL func(*domain.Student) string) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		out = append(out, FromStudent(s, photoURL(s)))
	}
	return out
}
