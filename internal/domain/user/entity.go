package user

import (
	"errors"

	"github.com/google/uuid"
)

var ErrInvalidRole = errors.New("invalid role")

type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStaff, RoleManager, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string { return string(r) }

// User is a staff account; its ID becomes the "reserved by" attribution on
// staff-created reservations.
type User struct {
	id           uuid.UUID
	email        string
	passwordHash string
	role         Role
}

func Reconstruct(id uuid.UUID, email, passwordHash string, role Role) *User {
	return &User{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() Role           { return u.role }
