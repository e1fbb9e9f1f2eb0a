package middleware

import (
	"errors"
	"net/http"
	"strings"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/dto"
	"chilaquiles/internal/app/redis"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

var (
	errNoCredentials = errors.New("no credentials")
	errInvalidToken  = errors.New("invalid token")
	errRevokedToken  = errors.New("token revoked")
)

type AuthMiddleware struct {
	Storage  repository.Storage
	Tokens   redis.Store
	Sessions sessions.Store
	Config   *config.Config
}

func NewAuthMiddleware(storage repository.Storage, tokens redis.Store, sessionStore sessions.Store, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{
		Storage:  storage,
		Tokens:   tokens,
		Sessions: sessionStore,
		Config:   cfg,
	}
}

// WithAuthCheck middleware для проверки авторизации с ролями
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...role.Role) gin.HandlerFunc {
	return gin.HandlerFunc(func(gCtx *gin.Context) {
		user, err := am.authenticate(gCtx)
		if err != nil {
			if !errors.Is(err, errNoCredentials) {
				logrus.WithField("path", gCtx.FullPath()).Debugf("auth rejected: %v", err)
			}
			abort(gCtx, http.StatusUnauthorized, "No autorizado")
			return
		}

		// Проверяем роли пользователя
		if len(assignedRoles) > 0 && !hasRequiredRole(user.Role, assignedRoles) {
			abort(gCtx, http.StatusForbidden, "Prohibido")
			return
		}

		gCtx.Set(currentUserKey, user)
		gCtx.Next()
	})
}

// OptionalAuth кладёт пользователя в контекст, если он представился, и никогда не прерывает запрос
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		if user, err := am.authenticate(gCtx); err == nil {
			gCtx.Set(currentUserKey, user)
		}
		gCtx.Next()
	}
}

// authenticate определяет вызывающего по bearer-токену и/или cookie сессии
func (am *AuthMiddleware) authenticate(gCtx *gin.Context) (*CurrentUser, error) {
	userID, err := am.resolveUserID(gCtx)
	if err != nil {
		return nil, err
	}

	user, err := am.Storage.GetUserByID(gCtx.Request.Context(), userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, errors.New("user is inactive")
	}

	return &CurrentUser{
		ID:       user.ID,
		Username: user.Username,
		Role:     role.Parse(string(user.Role)),
	}, nil
}

func (am *AuthMiddleware) resolveUserID(gCtx *gin.Context) (uint, error) {
	auth := am.Config.Auth

	if auth.JWTEnabled() {
		if jwtStr := BearerToken(gCtx); jwtStr != "" {
			// Проверяем токен в blacklist
			err := am.Tokens.CheckJWTInBlacklist(gCtx.Request.Context(), jwtStr)
			if err == nil {
				return 0, errRevokedToken
			}
			if !errors.Is(err, redis.ErrNotFound) {
				logrus.Errorf("blacklist check failed: %v", err)
				return 0, err
			}

			claims, err := am.ParseToken(jwtStr)
			if err != nil {
				return 0, err
			}
			return claims.UserID, nil
		}
	}

	if auth.SessionEnabled() {
		if sid := am.SessionID(gCtx.Request); sid != "" {
			return am.Tokens.ReadSession(gCtx.Request.Context(), sid)
		}
	}

	return 0, errNoCredentials
}

// ParseToken парсит и валидирует JWT: алгоритм, подпись, срок, издатель и аудитория
func (am *AuthMiddleware) ParseToken(tokenString string) (*ds.JWTClaims, error) {
	cfg := am.Config.JWT
	parser := &jwt.Parser{ValidMethods: []string{cfg.SigningMethod.Alg()}}

	token, err := parser.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return cfg.Key, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	if !claims.VerifyIssuer(cfg.Issuer, true) || !claims.VerifyAudience(cfg.Audience, true) {
		return nil, errInvalidToken
	}
	if claims.ExpiresAt == 0 || claims.UserID == 0 {
		return nil, errInvalidToken
	}
	return claims, nil
}

// BearerToken достаёт токен из заголовка Authorization
func BearerToken(gCtx *gin.Context) string {
	header := strings.TrimSpace(gCtx.GetHeader("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// hasRequiredRole проверяет, есть ли у пользователя необходимая роль
func hasRequiredRole(userRole role.Role, requiredRoles []role.Role) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}

func abort(gCtx *gin.Context, status int, message string) {
	gCtx.AbortWithStatusJSON(status, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}
