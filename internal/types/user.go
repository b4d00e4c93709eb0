package types

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	UsernameMaxLength = 30
	DefaultPageLimit  = 100
)

// User represents the account record stored in the users table.
type User struct {
	ID        int64     `json:"id" example:"1"`                    // Database assigned identifier.
	Username  string    `json:"username" example:"alice"`          // Unique username.
	Email     string    `json:"email" example:"alice@example.com"` // Unique email, also the token subject.
	Password  string    `json:"-"`                                 // bcrypt hash, never exposed.
	CreatedAt time.Time `json:"created_at"`                        // Set by the database on insert.
	UpdatedAt time.Time `json:"updated_at"`                        // Refreshed by the database on update.
}

// Public returns the projection of the user that is safe to return to clients.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// UserPublic is the response body for a single user.
type UserPublic struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
}

// UserList is the response body for the user listing.
type UserList struct {
	Users []UserPublic `json:"users"`
}

// UserSchema is the request body for creating and replacing a user.
type UserSchema struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

func (s UserSchema) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Username, validation.Required, validation.Length(1, UsernameMaxLength)),
		validation.Field(&s.Email, validation.Required, is.Email),
		validation.Field(&s.Password, validation.Required),
	)
}

// UpdateUserParams carries the columns to change. Nil fields are left untouched.
// Password must already be hashed.
type UpdateUserParams struct {
	Username *string
	Email    *string
	Password *string
}

// UserField names the unique column that matched in a lookup.
type UserField string

const (
	UserFieldNone     UserField = ""
	UserFieldUsername UserField = "username"
	UserFieldEmail    UserField = "email"
)

// FilterPage holds offset pagination parameters.
type FilterPage struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

func (p FilterPage) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Offset, validation.Min(0)),
		validation.Field(&p.Limit, validation.Required, validation.Min(1), validation.Max(DefaultPageLimit)),
	)
}

// Message is a generic confirmation body.
type Message struct {
	Message string `json:"message" example:"User deleted"`
}
