package handler

import (
	"io"
	"net/http"
	"strconv"

	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// максимальный размер загружаемого изображения
const maxImageSize = 5 << 20

// ListDishes список блюд с фильтрами и пагинацией, общее число в X-Total-Count
func (h *Handler) ListDishes(ctx *gin.Context) {
	filter, err := dto.ParseDishFilter(ctx)
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	dishes, total, err := h.Storage.ListDishes(ctx.Request.Context(), filter)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}

	resp := make([]dto.DishResponse, 0, len(dishes))
	for _, d := range dishes {
		resp = append(resp, h.dishResponse(ctx, d))
	}

	ctx.Header("X-Total-Count", strconv.FormatInt(total, 10))
	ctx.JSON(http.StatusOK, resp)
}

func (h *Handler) GetDish(ctx *gin.Context) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	dish, err := h.Storage.GetDish(ctx.Request.Context(), id)
	if err != nil {
		h.storageError(ctx, err, msgNotFound)
		return
	}
	ctx.JSON(http.StatusOK, h.dishResponse(ctx, *dish))
}

// bindDish разбирает и проверяет тело запроса блюда
func (h *Handler) bindDish(ctx *gin.Context) (dto.DishRequest, bool) {
	var request dto.DishRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
		return request, false
	}
	request.Normalize()
	if !request.Complete() {
		h.errorResponse(ctx, http.StatusBadRequest, msgRequired)
		return request, false
	}
	return request, true
}

func (h *Handler) CreateDish(ctx *gin.Context) {
	request, ok := h.bindDish(ctx)
	if !ok {
		return
	}

	dish := request.ToDish(0)
	if err := h.Storage.CreateDish(ctx.Request.Context(), dish); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}
	h.okResponse(ctx, dto.OKResponse{ID: dish.ID})
}

func (h *Handler) UpdateDish(ctx *gin.Context) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}
	request, ok := h.bindDish(ctx)
	if !ok {
		return
	}

	if err := h.Storage.UpdateDish(ctx.Request.Context(), request.ToDish(id)); err != nil {
		h.storageError(ctx, err, msgNotFound)
		return
	}
	h.okResponse(ctx, dto.OKResponse{})
}

// DeleteDish мягкое удаление
func (h *Handler) DeleteDish(ctx *gin.Context) {
	h.setDishActive(ctx, false)
}

func (h *Handler) RestoreDish(ctx *gin.Context) {
	h.setDishActive(ctx, true)
}

func (h *Handler) setDishActive(ctx *gin.Context, active bool) {
	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	if err := h.Storage.SetDishActive(ctx.Request.Context(), id, active); err != nil {
		h.storageError(ctx, err, msgNotFound)
		return
	}
	h.okResponse(ctx, dto.OKResponse{})
}

// UploadDishImage загружает изображение блюда в MinIO и удаляет предыдущее
func (h *Handler) UploadDishImage(ctx *gin.Context) {
	if h.Images == nil {
		h.errorResponse(ctx, http.StatusNotImplemented, msgNoImages)
		return
	}

	id, ok := h.parseID(ctx)
	if !ok {
		return
	}

	dish, err := h.Storage.GetDish(ctx.Request.Context(), id)
	if err != nil {
		h.storageError(ctx, err, msgNotFound)
		return
	}

	// Получаем файл из запроса
	file, err := ctx.FormFile("image")
	if err != nil {
		h.errorResponse(ctx, http.StatusBadRequest, msgNoFile)
		return
	}
	if file.Size > maxImageSize {
		h.errorResponse(ctx, http.StatusBadRequest, "Archivo demasiado grande")
		return
	}

	openedFile, err := file.Open()
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}
	defer openedFile.Close()

	fileData, err := io.ReadAll(openedFile)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}

	key, err := h.Images.UploadFile(ctx.Request.Context(), id, fileData, file.Filename)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, msgInternal, err)
		return
	}

	if err := h.Storage.SetDishImage(ctx.Request.Context(), id, &key); err != nil {
		h.storageError(ctx, err, msgNotFound)
		return
	}

	// Удаляем старое изображение только после записи нового ключа
	if dish.ImageKey != nil && *dish.ImageKey != "" {
		if err := h.Images.DeleteFile(ctx.Request.Context(), *dish.ImageKey); err != nil {
			logrus.Warnf("Failed to delete old image %s: %v", *dish.ImageKey, err)
		}
	}

	dish.ImageKey = &key
	ctx.JSON(http.StatusOK, h.dishResponse(ctx, *dish))
}

// dishResponse добавляет presigned URL, если у блюда есть изображение
func (h *Handler) dishResponse(ctx *gin.Context, d ds.Dish) dto.DishResponse {
	var imageURL string
	if d.ImageKey != nil && *d.ImageKey != "" && h.Images != nil {
		url, err := h.Images.GetFileURL(ctx.Request.Context(), *d.ImageKey)
		if err != nil {
			logrus.Warnf("presign %s: %v", *d.ImageKey, err)
		} else {
			imageURL = url
		}
	}
	return dto.NewDishResponse(d, imageURL)
}
