package models

import (
	"time"
)

// User represents a forum member and their language profile
type User struct {
	ID              string    `json:"_id" db:"id"`
	Username        string    `json:"username" db:"username"`
	Email           string    `json:"email" db:"email"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	Role            string    `json:"role" db:"role"`
	NativeLanguage  string    `json:"nativeLanguage" db:"native_language"`
	TargetLanguage  []string  `json:"targetLanguage" db:"target_language"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" db:"profile_image_url"`
	Posts           []string  `json:"posts" db:"posts"`
	Comments        []string  `json:"comments" db:"comments"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// User roles
const (
	RoleRegular   = "regular"
	RoleModerator = "moderator"
)

// UserInput is the registration payload. Password is plaintext and is
// validated before it gets hashed.
type UserInput struct {
	Username       string   `json:"username" form:"username" validate:"required"`
	Email          string   `json:"email" form:"email" validate:"required"`
	Password       string   `json:"password" form:"password" validate:"required,password"`
	NativeLanguage string   `json:"nativeLanguage" form:"nativeLanguage" validate:"required,language"`
	Role           string   `json:"role" form:"role" validate:"required,oneof=regular moderator"`
	TargetLanguage []string `json:"targetLanguage" form:"targetLanguage" validate:"languages"`
}

// UserPatch is a profile update. Nil fields are left unchanged.
type UserPatch struct {
	Username       *string  `json:"username" form:"username"`
	Email          *string  `json:"email" form:"email"`
	Password       *string  `json:"password" form:"password"`
	NativeLanguage *string  `json:"nativeLanguage" form:"nativeLanguage"`
	Role           *string  `json:"role" form:"role"`
	TargetLanguage []string `json:"targetLanguage" form:"targetLanguage"`
}

// UserFilter narrows a user search. Empty fields match everything.
type UserFilter struct {
	NativeLanguage string
	Username       string
}

// LoginInput carries credentials for password verification
type LoginInput struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// PopulatedUser is a user with its back-references resolved
type PopulatedUser struct {
	*User
	Posts    []*Post    `json:"posts"`
	Comments []*Comment `json:"comments"`
}

// UserSummary is the search projection: no back-references, no timestamps
type UserSummary struct {
	ID              string   `json:"_id"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Role            string   `json:"role"`
	NativeLanguage  string   `json:"nativeLanguage"`
	TargetLanguage  []string `json:"targetLanguage"`
	ProfileImageURL string   `json:"profileImageUrl,omitempty"`
}

// Summary projects a user for search results
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Role:            u.Role,
		NativeLanguage:  u.NativeLanguage,
		TargetLanguage:  u.TargetLanguage,
		ProfileImageURL: u.ProfileImageURL,
	}
}
