package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("requested item not found")
	ErrConflict           = errors.New("item already exists or conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("action forbidden")

	ErrUsernameExists = fmt.Errorf("username already exists: %w", ErrConflict)
	ErrEmailExists    = fmt.Errorf("email already exists: %w", ErrConflict)
)
