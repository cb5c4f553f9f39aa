package user

import (
	"errors"
	"time"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAuthor Role = "Author"
	RoleEditor Role = "Editor"
	RoleAdmin  Role = "Admin"
)

// DefaultRole is assigned when signup does not specify one.
const DefaultRole = RoleAuthor

var ErrUnknownRole = errors.New("unknown role")

// ParseRole rejects anything outside the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAuthor:
		return RoleAuthor, nil
	case RoleEditor:
		return RoleEditor, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAuthor, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // never expose hash in JSON
	IsActive       bool      `json:"isActive"`
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
