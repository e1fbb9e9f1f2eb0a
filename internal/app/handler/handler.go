package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"chilaquiles/internal/app/config"
	"chilaquiles/internal/app/dto"
	"chilaquiles/internal/app/middleware"
	"chilaquiles/internal/app/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=handler.go -destination=../mocks/image_store.go -package=mocks

// ImageStore объектное хранилище изображений блюд
type ImageStore interface {
	UploadFile(ctx context.Context, dishID uint, fileData []byte, originalFilename string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(ctx context.Context, key string) (string, error)
}

type Handler struct {
	Storage repository.Storage
	Auth    *middleware.AuthMiddleware
	Images  ImageStore // nil, если MinIO не настроен
	Config  *config.Config
}

func NewHandler(s repository.Storage, auth *middleware.AuthMiddleware, images ImageStore, cfg *config.Config) *Handler {
	return &Handler{
		Storage: s,
		Auth:    auth,
		Images:  images,
		Config:  cfg,
	}
}

// errorResponse отправляет ответ с ошибкой
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

// errorHandler логирует внутреннюю ошибку, клиенту уходит только message
func (h *Handler) errorHandler(c *gin.Context, statusCode int, message string, err error) {
	logrus.WithField("path", c.FullPath()).Error(err.Error())
	h.errorResponse(c, statusCode, message)
}

// storageError переводит ошибку хранилища в HTTP-ответ
func (h *Handler) storageError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.errorResponse(c, http.StatusNotFound, notFound)
	case errors.Is(err, repository.ErrDuplicate):
		h.errorResponse(c, http.StatusConflict, msgUserExists)
	default:
		h.errorHandler(c, http.StatusInternalServerError, msgInternal, err)
	}
}

func (h *Handler) okResponse(c *gin.Context, resp dto.OKResponse) {
	resp.OK = true
	c.JSON(http.StatusOK, resp)
}

// parseID читает числовой :id из пути
func (h *Handler) parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

// Тексты ответов клиенту
const (
	msgRequired     = "Campos requeridos"
	msgUserExists   = "Usuario ya existe"
	msgInvalidBody  = "Cuerpo inválido"
	msgInvalidID    = "Id inválido"
	msgBadLogin     = "Credenciales inválidas"
	msgInternal     = "Error interno"
	msgNotFound     = "No encontrado"
	msgUserNotFound = "Usuario no encontrado"
	msgSelfDelete   = "No puedes desactivar tu propia cuenta"
	msgNoImages     = "Almacenamiento de imágenes no configurado"
	msgNoTokens     = "La emisión de tokens no está habilitada"
	msgNoFile       = "Archivo requerido"
)
