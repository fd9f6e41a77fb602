package model

// UserError is an error whose message can be shown to the user
type UserError string

func (u UserError) Error() string {
	return string(u)
}

// sign-up and login errors
const (
	ErrInvalidEmail        = UserError("invalid email address")
	ErrDisplayNameRequired = UserError("display name is required")
	ErrInvalidDisplayName  = UserError("display name must only contain letters, numbers, and spaces, and be 40 characters or less")
	ErrPasswordTooShort    = UserError("password must be 6 or more characters")
	ErrEmailTaken          = UserError("email address is already taken")
	ErrBadCredentials      = UserError("invalid email address and/or password")
	ErrAccountBlocked      = UserError("account is blocked")
)
