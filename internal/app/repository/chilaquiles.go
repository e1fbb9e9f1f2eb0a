package repository

import (
	"context"
	"time"

	"chilaquiles/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для работы с блюдами

func (r *Repository) dishQuery(ctx context.Context, f DishFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&ds.Dish{})
	if !f.IncludeInactive {
		q = q.Where("is_active = ?", true)
	}
	if f.SalsaType != "" {
		q = q.Where("salsa_type = ?", f.SalsaType)
	}
	if f.Protein != "" {
		q = q.Where("protein = ?", f.Protein)
	}
	if f.Spiciness != nil {
		q = q.Where("spiciness = ?", *f.Spiciness)
	}
	return q
}

// ListDishes возвращает страницу блюд и общее количество по фильтру
func (r *Repository) ListDishes(ctx context.Context, filter DishFilter) ([]ds.Dish, int64, error) {
	f := filter.Normalize()

	var total int64
	if err := r.dishQuery(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dishes := make([]ds.Dish, 0, f.Limit())
	err := r.dishQuery(ctx, f).
		Order("id").
		Limit(f.Limit()).
		Offset(f.Offset()).
		Find(&dishes).Error
	if err != nil {
		return nil, 0, err
	}
	return dishes, total, nil
}

// GetDish возвращает блюдо, в том числе неактивное
func (r *Repository) GetDish(ctx context.Context, id uint) (*ds.Dish, error) {
	var dish ds.Dish
	if err := r.db.WithContext(ctx).First(&dish, id).Error; err != nil {
		return nil, translate(err)
	}
	return &dish, nil
}

func (r *Repository) CreateDish(ctx context.Context, dish *ds.Dish) error {
	dish.ID = 0
	dish.CreatedAt = time.Now().UTC()
	dish.IsActive = true
	return translate(r.db.WithContext(ctx).Create(dish).Error)
}

func (r *Repository) UpdateDish(ctx context.Context, dish *ds.Dish) error {
	res := r.db.WithContext(ctx).Model(&ds.Dish{}).Where("id = ?", dish.ID).Updates(map[string]interface{}{
		"name":       dish.Name,
		"salsa_type": dish.SalsaType,
		"protein":    dish.Protein,
		"spiciness":  dish.Spiciness,
		"price":      dish.Price,
	})
	return affected(res)
}

func (r *Repository) SetDishActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&ds.Dish{}).Where("id = ?", id).Update("is_active", active)
	return affected(res)
}

func (r *Repository) SetDishImage(ctx context.Context, id uint, key *string) error {
	res := r.db.WithContext(ctx).Model(&ds.Dish{}).Where("id = ?", id).Update("image_key", key)
	return affected(res)
}
