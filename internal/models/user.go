package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Placeholder values substituted when an author cannot be resolved.
const (
	DeletedUsername = "Deleted User"
	DeletedEmail    = "deleted@example.com"
)

// User is owned by the profile service; this backend only reads it.
type User struct {
	ID                string    `json:"id" gorm:"primaryKey;type:uuid"`
	Username          string    `json:"username" gorm:"uniqueIndex;size:50"`
	Email             string    `json:"email" gorm:"uniqueIndex"`
	Bio               string    `json:"bio"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// AuthorView is the public projection of a user embedded in posts and comments.
type AuthorView struct {
	ID                string  `json:"id"`
	Username          string  `json:"username"`
	Email             string  `json:"email"`
	Bio               string  `json:"bio"`
	ProfilePictureURL *string `json:"profile_picture_url"`
}

// ToAuthorView converts a user into the view embedded in posts and comments
func (u *User) ToAuthorView() AuthorView {
	return AuthorView{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		Bio:               u.Bio,
		ProfilePictureURL: u.ProfilePictureURL,
	}
}

// DeletedAuthor returns the placeholder view for an author id that no longer resolves.
func DeletedAuthor(authorID string) AuthorView {
	return AuthorView{
		ID:       authorID,
		Username: DeletedUsername,
		Email:    DeletedEmail,
		Bio:      "",
	}
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
