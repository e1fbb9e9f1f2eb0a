package handler

import (
	"errors"
	"net/http"
	"time"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/dto"
	"chilaquiles/internal/app/middleware"
	"chilaquiles/internal/app/password"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
)

// Register регистрация нового пользователя
func (h *Handler) Register(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
		return
	}

	userRole := role.User
	if h.Config.Auth.AllowRoleOnRegister {
		userRole = role.Parse(request.Role)
	}

	if _, ok := h.createUser(ctx, request, userRole); !ok {
		return
	}
	h.okResponse(ctx, dto.OKResponse{})
}

// createUser общая часть регистрации и создания пользователя администратором
func (h *Handler) createUser(ctx *gin.Context, request dto.RegisterRequest, userRole role.Role) (*ds.User, bool) {
	request.Normalize()
	if !request.Complete() {
		h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
		return nil, false
	}

	// Проверяем существует ли пользователь
	exists, err := h.Storage.UserExistsByUsername(ctx.Request.Context(), request.Username)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return nil, false
	}
	if exists {
		h.errorResponse(ctx, http.StatusConflict, msgUserExists)
		return nil, false
	}

	hash, err := password.Hash(request.Password)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return nil, false
	}

	user := &ds.User{
		FullName:     request.FullName,
		Username:     request.Username,
		PasswordHash: hash,
		Role:         userRole,
	}
	if err := h.Storage.CreateUser(ctx.Request.Context(), user); err != nil {
		h.storageError(ctx, err, msgNotFound)
		return nil, false
	}

	logrus.Infof("user %s created with role %s", user.Username, user.Role)
	return user, true
}

// Login аутентификация: JWT и/или сессия в зависимости от AUTH_MODE
func (h *Handler) Login(ctx *gin.Context) {
	auth := h.Config.Auth
	if auth.Mode == config.AuthModeJWT && !auth.IssueTokens {
		h.errorResponse(ctx, http.StatusNotImplemented, msgNoTokens)
		return
	}

	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, msgInvalidBody)
		return
	}
	// пустые поля считаем неверными учётными данными
	if request.Username == "" || request.Password == "" {
		h.errorResponse(ctx, http.StatusUnauthorized, msgBadLogin)
		return
	}

	user, err := h.Storage.GetUserByUsername(ctx.Request.Context(), request.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}
	if user == nil || !user.IsActive || !password.Verify(user.PasswordHash, request.Password) {
		h.errorResponse(ctx, http.StatusUnauthorized, msgBadLogin)
		return
	}

	h.upgradeLegacyHash(ctx, user, request.Password)

	userRole := role.Parse(string(user.Role))
	resp := dto.OKResponse{Role: userRole.String()}

	if auth.JWTEnabled() && auth.IssueTokens {
		token, err := h.issueToken(user.ID, userRole)
		if err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
			return
		}
		resp.Token = token
		resp.TokenType = "Bearer"
		resp.ExpiresIn = int64(h.Config.JWT.ExpiresIn.Seconds())
	}

	if auth.SessionEnabled() {
		if err := h.Auth.StartSession(ctx.Request.Context(), ctx.Writer, ctx.Request, user.ID); err != nil {
			h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
			return
		}
	}

	h.okResponse(ctx, resp)
}

// upgradeLegacyHash заменяет старый SHA-256 хеш на bcrypt после успешного входа
func (h *Handler) upgradeLegacyHash(ctx *gin.Context, user *ds.User, plain string) {
	if !password.NeedsRehash(user.PasswordHash) {
		return
	}
	hash, err := password.Hash(plain)
	if err != nil {
		logrus.Warnf("rehash for %s failed: %v", user.Username, err)
		return
	}
	if err := h.Storage.UpdatePasswordHash(ctx.Request.Context(), user.ID, hash); err != nil {
		logrus.Warnf("rehash for %s failed: %v", user.Username, err)
	}
}

// issueToken подписывает JWT с uid и ролью
func (h *Handler) issueToken(userID uint, userRole role.Role) (string, error) {
	cfg := h.Config.JWT
	now := time.Now()
	token := jwt.NewWithClaims(cfg.SigningMethod, &ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(cfg.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    cfg.Issuer,
			Audience:  cfg.Audience,
		},
		UserID: userID,
		Role:   userRole,
	})
	return token.SignedString(cfg.Key)
}

// Logout отзывает предъявленный токен и завершает сессию; отвечает 200 всегда
func (h *Handler) Logout(ctx *gin.Context) {
	if jwtStr := middleware.BearerToken(ctx); jwtStr != "" && h.Config.Auth.JWTEnabled() {
		if claims, err := h.Auth.ParseToken(jwtStr); err == nil {
			ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
			if ttl > 0 {
				if err := h.Auth.Tokens.WriteJWTToBlacklist(ctx.Request.Context(), jwtStr, ttl); err != nil {
					logrus.Errorf("blacklist write failed: %v", err)
				}
			}
		}
	}

	if h.Config.Auth.SessionEnabled() {
		if err := h.Auth.EndSession(ctx.Request.Context(), ctx.Writer, ctx.Request); err != nil {
			logrus.Warnf("session cleanup failed: %v", err)
		}
	}

	h.okResponse(ctx, dto.OKResponse{})
}

// Me профиль текущего пользователя
func (h *Handler) Me(ctx *gin.Context) {
	current, ok := middleware.GetUserFromContext(ctx)
	if !ok {
		h.errorResponse(ctx, http.StatusUnauthorized, "No autorizado")
		return
	}

	user, err := h.Storage.GetUserByID(ctx.Request.Context(), current.ID)
	if err != nil {
		h.storageError(ctx, err, msgUserNotFound)
		return
	}

	ctx.JSON(http.StatusOK, dto.MeResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Role:     role.Parse(string(user.Role)).String(),
	})
}
