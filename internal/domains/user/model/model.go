package model

import "unibook/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID         = "id"
	FieldName       = "name"
	FieldEmail      = "email"
	FieldRole       = "role"
	FieldDepartment = "department"
	FieldActive     = "active"
)

// Role is the closed set of principal roles.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleFaculty Role = "FACULTY"
	RoleAdmin   Role = "ADMIN"
)

// ParseRole maps a token or database value onto a Role; ok is false for anything outside the set.
func ParseRole(value string) (role Role, ok bool) {
	switch Role(value) {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return Role(value), true
	default:
		return "", false
	}
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID         string `db:"id"`
	Name       string `db:"name"`
	Email      string `db:"email"`
	Role       Role   `db:"role"`
	Department string `db:"department"`
	Active     bool   `db:"active"`
	model.Metadata
}
