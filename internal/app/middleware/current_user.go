package middleware

import (
	"chilaquiles/internal/app/role"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "current_user"

// CurrentUser содержит информацию о текущем пользователе
type CurrentUser struct {
	ID       uint
	Username string
	Role     role.Role
}

// GetUserFromContext извлекает пользователя из контекста
func GetUserFromContext(c *gin.Context) (*CurrentUser, bool) {
	if user, exists := c.Get(currentUserKey); exists {
		if u, ok := user.(*CurrentUser); ok {
			return u, true
		}
	}
	return nil, false
}
