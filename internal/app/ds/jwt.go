package ds

import (
	"chilaquiles/internal/app/role"

	"github.com/golang-jwt/jwt"
)

type JWTClaims struct {
	jwt.StandardClaims
	UserID uint      `json:"uid"`
	Role   role.Role `json:"role"`
}
