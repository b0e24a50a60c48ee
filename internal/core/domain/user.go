package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// KnownRole reports whether name is one of the fixed role names.
func KnownRole(name string) bool {
	return name == RoleAdmin || name == RoleUser
}

// User models an authenticated actor. Each user carries exactly one role name.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
