package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/synchrony/student-management/internal/api/dto"
	"github.com/synchrony/student-management/internal/domain"
	"github.com/synchrony/student-management/internal/service"
)

// AdminHandler exposes the ROLE_ADMIN endpoints for managing students and administrators.
type AdminHandler struct {
	admins   *service.AdminService
	students *service.StudentService
	photoURL PhotoURLs
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admins *service.AdminService, students *service.StudentService, urls PhotoURLs) *AdminHandler {
	return &AdminHandler{admins: admins, students: students, photoURL: urls}
}

// PhotoURLs builds download locations for profile pictures under the API base path.
type PhotoURLs struct {
	BasePath string
}

func (u PhotoURLs) Student(s *domain.Student) string {
	return fmt.Sprintf("%s/student/%s/profile-picture", u.BasePath, s.UserName)
}

func (u PhotoURLs) Admin(a *domain.Admin) string {
	return fmt.Sprintf("%s/admin/admins/%s/profile-picture", u.BasePath, a.UserName)
}

// ListStudents GET /admin/students.
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	students, err := h.students.ListStudents(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudents(students, h.photoURL.Student))
}

// AddStudent POST /admin/students.
func (h *AdminHandler) AddStudent(c *fiber.Ctx) error {
	var req dto.StudentRequest
	photo, err := bindWithPhoto(c, &req)
	if err != nil {
		return err
	}
	student := &domain.Student{}
	req.ApplyTo(student)

	created, err := h.students.AddStudent(c.UserContext(), student, req.Password, photo)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromStudent(created, h.photoURL.Student(created)))
}

// GetStudent GET /admin/students/:userName.
func (h *AdminHandler) GetStudent(c *fiber.Ctx) error {
	student, err := h.students.GetStudent(c.UserContext(), c.Params("userName"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudent(student, h.photoURL.Student(student)))
}

// UpdateStudent PUT /admin/students/:userName updates basic details and optionally the photo.
func (h *AdminHandler) UpdateStudent(c *fiber.Ctx) error {
	var req dto.StudentRequest
	photo, err := bindWithPhoto(c, &req)
	if err != nil {
		return err
	}
	student, err := h.students.EditStudent(c.UserContext(), c.Params("userName"), req.ApplyTo, photo)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudent(student, h.photoURL.Student(student)))
}

// UpdateStudentAcademics PUT /admin/students/:userName/academics.
func (h *AdminHandler) UpdateStudentAcademics(c *fiber.Ctx) error {
	var req dto.AdminStudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	student, err := h.students.EditStudent(c.UserContext(), c.Params("userName"), req.ApplyTo, nil)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudent(student, h.photoURL.Student(student)))
}

// DeleteStudent DELETE /admin/students/:userName.
func (h *AdminHandler) DeleteStudent(c *fiber.Ctx) error {
	if err := h.students.DeleteStudent(c.UserContext(), c.Params("userName")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// SearchByFirstName GET /admin/students/search/first-name/:firstName.
func (h *AdminHandler) SearchByFirstName(c *fiber.Ctx) error {
	students, err := h.students.SearchByFirstName(c.UserContext(), c.Params("firstName"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudents(students, h.photoURL.Student))
}

// SearchByLastName GET /admin/students/search/last-name/:lastName.
func (h *AdminHandler) SearchByLastName(c *fiber.Ctx) error {
	students, err := h.students.SearchByLastName(c.UserContext(), c.Params("lastName"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudents(students, h.photoURL.Student))
}

// CreateAdmin POST /admin/admins.
func (h *AdminHandler) CreateAdmin(c *fiber.Ctx) error {
	var req dto.AdminRequest
	photo, err := bindWithPhoto(c, &req)
	if err != nil {
		return err
	}
	admin := &domain.Admin{}
	req.ApplyTo(admin)

	created, err := h.admins.CreateAdmin(c.UserContext(), admin, req.Password, photo)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.FromAdmin(created, h.photoURL.Admin(created)))
}

// GetAdmin GET /admin/admins/:userName.
func (h *AdminHandler) GetAdmin(c *fiber.Ctx) error {
	admin, err := h.admins.GetAdmin(c.UserContext(), c.Params("userName"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromAdmin(admin, h.photoURL.Admin(admin)))
}

// EditAdmin PUT /admin/admins/:userName.
func (h *AdminHandler) EditAdmin(c *fiber.Ctx) error {
	var req dto.AdminRequest
	photo, err := bindWithPhoto(c, &req)
	if err != nil {
		return err
	}
	admin, err := h.admins.EditAdmin(c.UserContext(), c.Params("userName"), req.ApplyTo, req.Password, photo)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromAdmin(admin, h.photoURL.Admin(admin)))
}

// DeleteAdmin DELETE /admin/admins/:userName.
func (h *AdminHandler) DeleteAdmin(c *fiber.Ctx) error {
	if err := h.admins.DeleteAdmin(c.UserContext(), c.Params("userName")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadAdminPhoto POST /admin/admins/:userName/profile-picture.
func (h *AdminHandler) UploadAdminPhoto(c *fiber.Ctx) error {
	photo, err := readPhoto(c, true)
	if err != nil {
		return err
	}
	if _, err := h.admins.UploadPhoto(c.UserContext(), c.Params("userName"), photo); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// GetAdminPhoto GET /admin/admins/:userName/profile-picture.
func (h *AdminHandler) GetAdminPhoto(c *fiber.Ctx) error {
	photo, err := h.admins.Photo(c.UserContext(), c.Params("userName"))
	if err != nil {
		return err
	}
	return sendPhoto(c, photo)
}

// ChangeAdminPassword PUT /admin/admins/:userName/password.
func (h *AdminHandler) ChangeAdminPassword(c *fiber.Ctx) error {
	req, err := bindPasswordChange(c)
	if err != nil {
		return err
	}
	if err := h.admins.ChangePassword(c.UserContext(), c.Params("userName"), req.OldPassword, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.NewAPIResponse("Admin password changed successfully", true))
}
