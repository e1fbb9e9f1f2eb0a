package dto

import (
	"fmt"
	"strconv"
	"strings"

	"chilaquiles/internal/app/repository"

	"github.com/gin-gonic/gin"
)

// ParseDishFilter читает фильтры списка блюд из query string.
// Нечисловой spiciness игнорируется, нечисловые page/pageSize/includeInactive это ошибка.
func ParseDishFilter(ctx *gin.Context) (repository.DishFilter, error) {
	f := repository.DishFilter{
		SalsaType: strings.TrimSpace(ctx.Query("salsaType")),
		Protein:   strings.TrimSpace(ctx.Query("protein")),
	}

	if s := strings.TrimSpace(ctx.Query("spiciness")); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			f.Spiciness = &v
		}
	}

	var err error
	if f.Page, err = queryInt(ctx, "page"); err != nil {
		return f, err
	}
	if f.PageSize, err = queryInt(ctx, "pageSize"); err != nil {
		return f, err
	}
	if f.IncludeInactive, err = QueryBool(ctx, "includeInactive"); err != nil {
		return f, err
	}
	return f.Normalize(), nil
}

func queryInt(ctx *gin.Context, name string) (int, error) {
	s := strings.TrimSpace(ctx.Query(name))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("parámetro %s inválido", name)
	}
	return v, nil
}

// QueryBool булев параметр запроса; пустой означает false
func QueryBool(ctx *gin.Context, name string) (bool, error) {
	s := strings.TrimSpace(ctx.Query(name))
	if s == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("parámetro %s inválido", name)
	}
	return v, nil
}
