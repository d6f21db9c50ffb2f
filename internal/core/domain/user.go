package domain

import "time"

// RoleAdmin is the only elevated role; an empty role means a regular customer.
const RoleAdmin = "admin"

// User models a registered identity. Email is the unique key.
type User struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
	Role     string `json:"role,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Claims is the verified payload of a session token.
type Claims struct {
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
