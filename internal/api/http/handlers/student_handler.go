package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/synchrony/student-management/internal/api/dto"
	"github.com/synchrony/student-management/internal/service"
)

// StudentHandler exposes a student's own profile. Routes are guarded so students only reach
// their own record while admins reach any.
type StudentHandler struct {
	students *service.StudentService
	photoURL PhotoURLs
}

// NewStudentHandler constructs handler.
func NewStudentHandler(students *service.StudentService, urls PhotoURLs) *StudentHandler {
	return &StudentHandler{students: students, photoURL: urls}
}

// ViewMyData GET /student/:userName.
func (h *StudentHandler) ViewMyData(c *fiber.Ctx) error {
	student, err := h.students.GetStudent(c.UserContext(), c.Params("userName"))
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudent(student, h.photoURL.Student(student)))
}

// EditDetails PUT /student/:userName. The password field of the payload is ignored; it
// changes through the password endpoint only.
func (h *StudentHandler) EditDetails(c *fiber.Ctx) error {
	var req dto.StudentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	student, err := h.students.EditStudent(c.UserContext(), c.Params("userName"), req.ApplyTo, nil)
	if err != nil {
		return err
	}
	return c.JSON(dto.FromStudent(student, h.photoURL.Student(student)))
}

// UploadPhoto POST /student/:userName/profile-picture.
func (h *StudentHandler) UploadPhoto(c *fiber.Ctx) error {
	photo, err := readPhoto(c, true)
	if err != nil {
		return err
	}
	if err := h.students.UploadPhoto(c.UserContext(), c.Params("userName"), photo); err != nil {
		return err
	}
	return c.SendStatus(http.StatusCreated)
}

// DeletePhoto DELETE /student/:userName/profile-picture.
func (h *StudentHandler) DeletePhoto(c *fiber.Ctx) error {
	if err := h.students.DeletePhoto(c.UserContext(), c.Params("userName")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetPhoto GET /student/:userName/profile-picture.
func (h *StudentHandler) GetPhoto(c *fiber.Ctx) error {
	photo, err := h.students.Photo(c.UserContext(), c.Params("userName"))
	if err != nil {
		return err
	}
	return sendPhoto(c, photo)
}

// ChangePassword PUT /student/:userName/password.
func (h *StudentHandler) ChangePassword(c *fiber.Ctx) error {
	req, err := bindPasswordChange(c)
	if err != nil {
		return err
	}
	if err := h.students.ChangePassword(c.UserContext(), c.Params("userName"), req.OldPassword, req.Password); err != nil {
		return err
	}
	return c.JSON(dto.NewAPIResponse("Password changed successfully", true))
}
