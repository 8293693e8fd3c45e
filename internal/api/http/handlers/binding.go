package handlers

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/synchrony/student-management/internal/api/dto"
	"github.com/synchrony/student-management/internal/service"
	apperrors "github.com/synchrony/student-management/pkg/util"
)

const (
	// multipart field holding the JSON payload when a photo accompanies it
	dataField = "data"
	fileField = "file"
)

// bind decodes and validates a JSON request body into dst.
func bind(c *fiber.Ctx, dst any) error {
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return apperrors.NewBadRequest("malformed JSON request body")
	}
	return dto.Validate(dst)
}

// bindWithPhoto accepts either a plain JSON body or a multipart form whose "data" part holds
// the JSON payload and whose optional "file" part holds a profile picture.
func bindWithPhoto(c *fiber.Ctx, dst any) (*service.PhotoUpload, error) {
	if !isMultipart(c) {
		return nil, bind(c, dst)
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperrors.NewBadRequest("malformed multipart request")
	}
	values := form.Value[dataField]
	if len(values) == 0 {
		return nil, apperrors.NewBadRequest("multipart request is missing the data part")
	}
	if err := json.Unmarshal([]byte(values[0]), dst); err != nil {
		return nil, apperrors.NewBadRequest("malformed JSON in data part")
	}
	if err := dto.Validate(dst); err != nil {
		return nil, err
	}
	return readPhoto(c, false)
}

// readPhoto loads the "file" form part. With required unset a missing part yields nil.
func readPhoto(c *fiber.Ctx, required bool) (*service.PhotoUpload, error) {
	var files []*multipart.FileHeader
	if isMultipart(c) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, apperrors.NewBadRequest("malformed multipart request")
		}
		files = form.File[fileField]
	}
	if len(files) == 0 {
		if required {
			return nil, apperrors.NewBadRequest("profile picture file is required")
		}
		return nil, nil
	}

	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if len(data) == 0 && !required {
		return nil, nil
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType == "" || contentType == fiber.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}
	return &service.PhotoUpload{Data: data, ContentType: contentType}, nil
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

func sendPhoto(c *fiber.Ctx, photo *service.PhotoUpload) error {
	c.Set(fiber.HeaderContentType, photo.ContentType)
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Send(photo.Data)
}

// bindPasswordChange reads the new password from the body and the old one from the body or
// the oldPassword query parameter.
func bindPasswordChange(c *fiber.Ctx) (*dto.PasswordChangeRequest, error) {
	var req dto.PasswordChangeRequest
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &req); err != nil {
			return nil, apperrors.NewBadRequest("malformed JSON request body")
		}
	}
	if req.OldPassword == "" {
		req.OldPassword = c.Query("oldPassword")
	}
	if err := dto.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
