// Package model defines domain entities for the application.
package model

// User represents a registered account identified by its session token.
// Users are created once at registration and never updated or deleted.
type User struct {
	ID           string `json:"id"`
	SessionToken string `json:"-"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	AvatarURL    string `json:"avatar_url,omitempty"`
}
