package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/repository"
)

const dishColumns = `id, name, salsa_type, protein, spiciness, price, created_at, is_active, image_key`

// dishWhere собирает WHERE для фильтра; значения только через плейсхолдеры
func dishWhere(f repository.DishFilter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)
	if !f.IncludeInactive {
		conds = append(conds, "is_active = ?")
		args = append(args, true)
	}
	if f.SalsaType != "" {
		conds = append(conds, "salsa_type = ?")
		args = append(args, f.SalsaType)
	}
	if f.Protein != "" {
		conds = append(conds, "protein = ?")
		args = append(args, f.Protein)
	}
	if f.Spiciness != nil {
		conds = append(conds, "spiciness = ?")
		args = append(args, *f.Spiciness)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Store) ListDishes(ctx context.Context, filter repository.DishFilter) ([]ds.Dish, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	f := filter.Normalize()
	where, args := dishWhere(f)

	var total int64
	if err := s.get(ctx, &total, `SELECT COUNT(*) FROM chilaquiles`+where, args...); err != nil {
		return nil, 0, err
	}

	// LIMIT/OFFSET это уже проверенные целые числа
	query := fmt.Sprintf(`SELECT %s FROM chilaquiles%s ORDER BY id LIMIT %d OFFSET %d`,
		dishColumns, where, f.Limit(), f.Offset())

	dishes := []ds.Dish{}
	if err := s.selectAll(ctx, &dishes, query, args...); err != nil {
		return nil, 0, err
	}
	return dishes, total, nil
}

func (s *Store) GetDish(ctx context.Context, id uint) (*ds.Dish, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	var dish ds.Dish
	if err := s.get(ctx, &dish, `SELECT `+dishColumns+` FROM chilaquiles WHERE id = ?`, id); err != nil {
		return nil, err
	}
	return &dish, nil
}

func (s *Store) CreateDish(ctx context.Context, dish *ds.Dish) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	dish.CreatedAt = time.Now().UTC()
	dish.IsActive = true
	id, err := s.insert(ctx,
		`INSERT INTO chilaquiles (name, salsa_type, protein, spiciness, price, created_at, is_active) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		dish.Name, dish.SalsaType, dish.Protein, dish.Spiciness, dish.Price, dish.CreatedAt, true)
	if err != nil {
		return err
	}
	dish.ID = id
	return nil
}

func (s *Store) UpdateDish(ctx context.Context, dish *ds.Dish) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return s.exec(ctx,
		`UPDATE chilaquiles SET name = ?, salsa_type = ?, protein = ?, spiciness = ?, price = ? WHERE id = ?`,
		dish.Name, dish.SalsaType, dish.Protein, dish.Spiciness, dish.Price, dish.ID)
}

func (s *Store) SetDishActive(ctx context.Context, id uint, active bool) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return s.exec(ctx, `UPDATE chilaquiles SET is_active = ? WHERE id = ?`, active, id)
}

func (s *Store) SetDishImage(ctx context.Context, id uint, key *string) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	return s.exec(ctx, `UPDATE chilaquiles SET image_key = ? WHERE id = ?`, key, id)
}
