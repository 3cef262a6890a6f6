package user

import (
	"time"

	"github.com/google/uuid"

	"github.com/sampleapp/accounts/internal/core/domain/result"
)

// User is an account row. The password hash never leaves the service in a
// serialized form.
type User struct {
	ID             uuid.UUID `json:"userId" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	EmailValidated bool      `json:"emailValidated" db:"email_validated"`
	Created        time.Time `json:"created" db:"created_at"`
	Updated        time.Time `json:"updated" db:"updated_at"`
}

// EmailToken is one verification-token row. A user may hold several live
// tokens at once; deleting a user does not cascade to its tokens, the sweep
// reclaims them.
type EmailToken struct {
	ID      uuid.UUID `json:"tokenId" db:"id"`
	UserID  uuid.UUID `json:"userId" db:"user_id"`
	Token   string    `json:"token" db:"token"`
	Created time.Time `json:"created" db:"created_at"`
}

// Filter selects users by any of the listed attributes. A nil or empty
// slice contributes no condition; a filter with no condition at all is a
// caller error. Multiple present fields widen the match, conditions are
// OR-joined.
type Filter struct {
	IDs       []uuid.UUID
	Usernames []string
	Emails    []string
}

// TokenFilter selects verification tokens the same way Filter selects
// users.
type TokenFilter struct {
	IDs     []uuid.UUID
	UserIDs []uuid.UUID
	Tokens  []string
}

// UpdateParams carries the mutable user fields. Nil means "leave as is";
// a pointer to the zero value is a real update.
type UpdateParams struct {
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	PasswordHash   *string `json:"-"`
	EmailValidated *bool   `json:"emailValidated,omitempty"`
}

// Empty reports whether no field is supplied.
func (p UpdateParams) Empty() bool {
	return p.Username == nil && p.Email == nil && p.PasswordHash == nil && p.EmailValidated == nil
}

// Params is the input to the Put dispatch: a zero ID routes to create,
// anything else to update.
type Params struct {
	ID uuid.UUID
	UpdateParams
}

// RegisterRequest is the registration input. Password presence is a
// workflow rule, not a binding rule.
type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

// Result is the uniform shape user repository operations return.
type Result struct {
	Status result.Status `json:"status"`
	Users  []User        `json:"users"`
}

// TokenResult is the uniform shape token store operations return.
type TokenResult struct {
	Status result.Status `json:"status"`
	Tokens []EmailToken  `json:"tokens"`
}

// RegistrationResult is the workflow outcome. ConflictingUser is set only
// on CONFLICT; User is set once a row exists, including on partial failure
// of the verification-mail step.
type RegistrationResult struct {
	Status          result.Status `json:"status"`
	Message         string        `json:"message,omitempty"`
	User            *User         `json:"user,omitempty"`
	ConflictingUser *User         `json:"conflictingUser,omitempty"`
}
