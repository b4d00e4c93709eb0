package types

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeBearer = "bearer"

// Claims are the claims carried by an access token. The subject is the user's email.
type Claims struct {
	jwt.RegisteredClaims
}

// Token is the envelope returned by login and refresh.
type Token struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJI..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

// LoginRequest mirrors the OAuth2 password form: username carries the email.
type LoginRequest struct {
	Username string `json:"username" example:"alice@example.com"`
	Password string `json:"password" example:"s3cret"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// ErrorResponse is the body written for every failed request.
type ErrorResponse struct {
	Detail string `json:"detail" example:"User not found"`
}
