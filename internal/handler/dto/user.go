// Package dto provides Data Transfer Objects for API requests and responses.
package dto

// RegisterUserRequest represents the request body for registering a user.
type RegisterUserRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
