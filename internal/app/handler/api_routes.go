package handler

import (
	"context"
	"net/http"
	"time"

	"chilaquiles/internal/app/dto"
	"chilaquiles/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RegisterRoutes регистрирует все REST API маршруты с авторизацией
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	authCheck := h.Auth.WithAuthCheck
	api := router.Group("/api")

	api.GET("/health", h.Health)

	// ============ Аутентификация ============
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
	api.GET("/me", authCheck(), h.Me)

	// ============ Пользователи - только admin ============
	admin := api.Group("/admin/users")
	admin.Use(authCheck(role.Admin))
	{
		admin.GET("", h.ListUsers)
		admin.POST("", h.CreateUser)
		admin.PUT("/:id", h.UpdateUser)
		admin.DELETE("/:id", h.DeleteUser)
		admin.POST("/:id/restore", h.RestoreUser)
	}

	// ============ Блюда ============
	dishes := api.Group("/chilaquiles")
	{
		// чтение открыто анонимам только в режиме публичного каталога
		read := authCheck()
		if h.Config.Auth.PublicCatalog {
			read = h.Auth.OptionalAuth()
		}
		dishes.GET("", read, h.ListDishes)
		dishes.GET("/:id", read, h.GetDish)

		dishes.POST("", authCheck(), h.CreateDish)
		dishes.PUT("/:id", authCheck(), h.UpdateDish)
		dishes.DELETE("/:id", authCheck(), h.DeleteDish)
		dishes.POST("/:id/restore", authCheck(), h.RestoreDish)
		dishes.POST("/:id/image", authCheck(), h.UploadDishImage)
	}
}

// Health проверяет доступность базы данных
func (h *Handler) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Storage.Ping(pingCtx); err != nil {
		logrus.Errorf("health: database ping failed: %v", err)
		ctx.JSON(http.StatusServiceUnavailable, dto.HealthResponse{Status: "down"})
		return
	}

	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Driver:  h.Storage.Driver(),
		Dialect: h.Config.Database.Dialect,
	})
}
