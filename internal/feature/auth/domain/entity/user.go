// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered storefront customer.
type User struct {
	// ID is an opaque UUID string.
	ID string `gorm:"primaryKey;size:36"`

	// Email is the login identifier. It is unique across all users and
	// compared case-sensitively.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password. Plaintext is never stored.
	Password string `gorm:"size:255;not null"`

	// FullName is the display name captured at signup.
	FullName string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the view of a user that may leave the service.
type PublicUser struct {
	ID       string
	Email    string
	FullName string
}

// Public strips credentials from the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, FullName: u.FullName}
}
