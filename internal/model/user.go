package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

type Permission string

const (
	PermReadSelf  Permission = "user:read-self"
	PermWriteSelf Permission = "user:write-self"
	PermReadAny   Permission = "user:read-any"
	PermWriteAny  Permission = "user:write-any"
	PermDeleteAny Permission = "user:delete-any"
	PermListUsers Permission = "user:list"
)

// Permissions maps a role to its granted permission set. ADMIN is a strict
// superset of USER.
func Permissions(role Role) []Permission {
	if role == RoleAdmin {
		return []Permission{
			PermReadSelf, PermWriteSelf,
			PermReadAny, PermWriteAny, PermDeleteAny, PermListUsers,
		}
	}
	return []Permission{PermReadSelf, PermWriteSelf}
}

func HasPermission(role Role, perm Permission) bool {
	for _, p := range Permissions(role) {
		if p == perm {
			return true
		}
	}
	return false
}

// User is the persistent record. PasswordHash never leaves the process; all
// outward representations go through View.
type User struct {
	ID           string
	Name         string
	Login        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) View() UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Login: u.Login,
		Role:  u.Role,
	}
}

// AuthUser is the caller identity resolved from a bearer token, threaded
// explicitly through service calls.
type AuthUser struct {
	ID    string
	Login string
	Name  string
	Role  Role
}
