package dto

import "time"

// LoginRequest is the POST /auth/login payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by login and refresh.
type AuthResponse struct {
	Token       string   `json:"token"`
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// APIResponse is the generic acknowledgement body.
type APIResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Status    bool      `json:"status"`
}

// NewAPIResponse stamps an acknowledgement with the current time.
func NewAPIResponse(message string, ok bool) APIResponse {
	return APIResponse{Timestamp: time.Now(), Message: message, Status: ok}
}

// PasswordChangeRequest carries a new password and the current one. OldPassword may also be
// supplied as the oldPassword query parameter.
type PasswordChangeRequest struct {
	Password    string `json:"password" validate:"required,strongpassword"`
	OldPassword string `json:"oldPassword" validate:"required"`
}
