package handler

import (
	"errors"
	"net/http"
	"strings"

	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/dto"
	"chilaquiles/internal/app/middleware"
	"chilaquiles/internal/app/repository"
	"chilaquiles/internal/app/role"

	"github.com/gin-gonic/gin"
)

// Управление пользователями (только admin)

func (h *Handler) ListUsers(ctx *gin.Context) {
	includeInactive, err := dto.QueryBool(ctx, "includeInactive")
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	users, err := h.Storage.ListUsers(ctx.Request.Context(), includeInactive)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}

	resp := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, dto.NewUserResponse(u))
	}
	ctx.JSON(http.StatusOK, resp)
}

// CreateUser создание пользователя администратором; роль из запроса учитывается
func (h *Handler) CreateUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
		return
	}

	user, ok := h.createUser(ctx, request, role.Parse(request.Role))
	if !ok {
		return
	}
	h.okResponse(ctx, dto.OKResponse{ID: user.ID})
}

// UpdateUser роль пишется всегда, имя и логин только если переданы
func (h *Handler) UpdateUser(ctx *gin.Context) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	var request dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, msgInvalidBody)
		return
	}

	upd := ds.UserUpdate{Role: role.User}
	if request.Role != nil {
		upd.Role = role.Parse(*request.Role)
	}
	if request.FullName != nil {
		name := strings.TrimSpace(*request.FullName)
		if name == "" {
			h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
			return
		}
		upd.FullName = &name
	}
	if request.Username != nil {
		username := strings.TrimSpace(*request.Username)
		if username == "" {
			h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
			return
		}

		// логин занят другим пользователем
		existing, err := h.Storage.GetUserByUsername(ctx.Request.Context(), username)
		if err == nil && existing.ID != id {
			h.errorResponse(ctx, http.StatusConflict, msgUserExists)
			return
		} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
			h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
			return
		}
		upd.Username = &username
	}

	if err := h.Storage.UpdateUser(ctx.Request.Context(), id, upd); err != nil {
		h.storageError(ctx, err, msgUserNotFound)
		return
	}
	h.okResponse(ctx, dto.OKResponse{})
}

// DeleteUser мягкое удаление; себя деактивировать нельзя
func (h *Handler) DeleteUser(ctx *gin.Context) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	if current, ok := middleware.GetUserFromContext(ctx); ok && current.ID == id {
		h.errorResponse(ctx, http.StatusBadRequest, msgSelfDelete)
		return
	}

	if err := h.Storage.SetUserActive(ctx.Request.Context(), id, false); err != nil {
		h.storageError(ctx, err, msgUserNotFound)
		return
	}
	h.okResponse(ctx, dto.OKResponse{})
}

func (h *Handler) RestoreUser(ctx *gin.Context) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	if err := h.Storage.SetUserActive(ctx.Request.Context(), id, true); err != nil {
		h.storageError(ctx, err, msgUserNotFound)
		return
	}
	h.okResponse(ctx, dto.OKResponse{})
}
