package model

import "time"

// Roles a user can hold.  The role decides access to the admin endpoints.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account record as stored in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, compared exactly as stored.
//  PasswordHash – bcrypt hashed password; never serialized.
//  FullName     – display name.
//  Role         – RoleUser or RoleAdmin.
//  Phone, Company, Avatar – optional profile attributes.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	Company      string    `json:"company,omitempty"`
	Avatar       string    `json:"avatar,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// ProfilePatch carries the user-editable profile fields.  Nil leaves a
// field untouched.
type ProfilePatch struct {
	FullName *string
	Phone    *string
	Company  *string
	Avatar   *string
}
