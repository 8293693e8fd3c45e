package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to clients in the errorCode field.
const (
	CodeNotFound         = "RESOURCE_NOT_FOUND"
	CodeBadCredentials   = "BAD_CREDENTIALS"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeUnsupportedMedia = "UNSUPPORTED_MEDIA_TYPE"
	CodeBadRequest       = "BAD_REQUEST"
	CodeGeneral          = "GENERAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	// Fields carries field -> message pairs for validation failures.
	Fields map[string]string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationError reports field-level constraint violations.
func NewValidationError(fields map[string]string) error {
	return &DomainError{
		Code:       CodeValidationFailed,
		Message:    "validation failed",
		HTTPStatus: http.StatusBadRequest,
		Fields:     fields,
	}
}

// NewNotFound builds the "<Resource> Not Found with this <field>: <value>" error.
func NewNotFound(resource, field string, value any) error {
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s Not Found with this %s: %v", resource, field, value),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource, "field": field, "value": value},
	}
}

func NewBadCredentials(message string) error {
	return NewDomainError(CodeBadCredentials, message, http.StatusUnauthorized, nil)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

func NewBadRequest(message string) error {
	return NewDomainError(CodeBadRequest, message, http.StatusBadRequest, nil)
}

func NewUnsupportedMedia(message string) error {
	return NewDomainError(CodeUnsupportedMedia, message, http.StatusUnsupportedMediaType, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeGeneral,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &DomainError{
			Code:       codeForStatus(fiberErr.Code),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	return &DomainError{
		Code:       CodeGeneral,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// MapError is ToDomainError typed as a plain error for return statements.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusConflict:
		return CodeConflict
	case http.StatusUnsupportedMediaType:
		return CodeUnsupportedMedia
	}
	if status >= 400 && status < 500 {
		return CodeBadRequest
	}
	return CodeGeneral
}
