package user

import (
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	// RolePatient is the default role for every signup.
	RolePatient Role = "PATIENT"
	// RoleDoctor is assigned to users whose email carries the reserved
	// doctor domain suffix.
	RoleDoctor Role = "DOCTOR"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor
}

// User represents a user entity in the system.
type User struct {
	ID           string    `gorm:"primaryKey;type:text" json:"id"`
	Name         string    `gorm:"not null;type:text" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null;type:text" json:"email"`
	PasswordHash string    `gorm:"not null;type:text" json:"-"`
	Role         Role      `gorm:"not null;type:text" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the table name for the User entity.
func (User) TableName() string {
	return "users"
}

// Summary is the safe subset of a user embedded in other responses.
type Summary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the embeddable view of the user.
func (u *User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// Claims represents the verified identity extracted from a bearer token.
type Claims struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}
