package role

import "strings"

// Role роль пользователя, хранится в колонке users.role
type Role string

const (
	User  Role = "user"
	Admin Role = "admin"
)

// Parse приводит произвольную строку к роли.
// Всё, что не admin/user, считается обычным пользователем.
func Parse(s string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Admin:
		return Admin
	default:
		return User
	}
}

func (r Role) IsAdmin() bool {
	return r == Admin
}

func (r Role) String() string {
	return string(r)
}
