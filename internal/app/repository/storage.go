package repository

import (
	"context"
	"errors"
	"math"

	"chilaquiles/internal/app/ds"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Storage общий контракт хранилища для ORM- и SQL-реализаций
type Storage interface {
	UserExistsByUsername(ctx context.Context, username string) (bool, error)
	CreateUser(ctx context.Context, user *ds.User) error
	GetUserByID(ctx context.Context, id uint) (*ds.User, error)
	GetUserByUsername(ctx context.Context, username string) (*ds.User, error)
	ListUsers(ctx context.Context, includeInactive bool) ([]ds.User, error)
	UpdateUser(ctx context.Context, id uint, upd ds.UserUpdate) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	SetUserActive(ctx context.Context, id uint, active bool) error

	ListDishes(ctx context.Context, filter DishFilter) ([]ds.Dish, int64, error)
	GetDish(ctx context.Context, id uint) (*ds.Dish, error)
	CreateDish(ctx context.Context, dish *ds.Dish) error
	UpdateDish(ctx context.Context, dish *ds.Dish) error
	SetDishActive(ctx context.Context, id uint, active bool) error
	SetDishImage(ctx context.Context, id uint, key *string) error

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
	Driver() string
}

// DishFilter фильтры и пагинация списка блюд
type DishFilter struct {
	SalsaType       string
	Protein         string
	Spiciness       *int
	Page            int
	PageSize        int
	IncludeInactive bool
}

// Normalize подставляет значения по умолчанию для страницы и размера
func (f DishFilter) Normalize() DishFilter {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	// смещение не должно переполнять int
	if maxPage := math.MaxInt / f.PageSize; f.Page > maxPage {
		f.Page = maxPage
	}
	return f
}

func (f DishFilter) Limit() int {
	return f.Normalize().PageSize
}

func (f DishFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}
