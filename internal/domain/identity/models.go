package identity

import (
	"errors"
	"time"

	"hrrecords/internal/platform/optional"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var Roles = []string{string(RoleUser), string(RoleAdmin)}

var (
	ErrUnauthenticated = errors.New("Please login (10001)")
	ErrForbidden       = errors.New("You do not have required permission (10002)")
	ErrInvalidPasscode = errors.New("invalid passcode")
	ErrMissingUserID   = errors.New("User ID is required for upsert")
)

type User struct {
	ID           string     `json:"id"`
	Name         *string    `json:"name"`
	Email        *string    `json:"email"`
	LoginMethod  *string    `json:"loginMethod"`
	Role         Role       `json:"role"`
	CreatedAt    *time.Time `json:"createdAt"`
	LastSignedIn *time.Time `json:"lastSignedIn"`
}

// Caller is the identity resolved for a request. The zero value is an
// anonymous caller.
type Caller struct {
	ID   string
	Name string
	Role Role
}

func (c Caller) Authenticated() bool {
	return c.ID != ""
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// UserUpsert carries only the fields a login flow knows about. Unset fields
// are neither inserted nor overwritten.
type UserUpsert struct {
	ID           string
	Name         optional.Value[string]
	Email        optional.Value[string]
	LoginMethod  optional.Value[string]
	Role         optional.Value[Role]
	LastSignedIn optional.Value[time.Time]
}
