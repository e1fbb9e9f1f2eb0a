package repository

import (
	"context"

	"chilaquiles/internal/app/ds"
	"chilaquiles/internal/app/role"
)

// Методы для пользователей (ORM)

func (r *Repository) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ds.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateUser(ctx context.Context, user *ds.User) error {
	if user.Role == "" {
		user.Role = role.User
	}
	user.IsActive = true
	return translate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *Repository) GetUserByID(ctx context.Context, id uint) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*ds.User, error) {
	var user ds.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *Repository) ListUsers(ctx context.Context, includeInactive bool) ([]ds.User, error) {
	q := r.db.WithContext(ctx).Order("id")
	if !includeInactive {
		q = q.Where("is_active = ?", true)
	}
	var users []ds.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) UpdateUser(ctx context.Context, id uint, upd ds.UserUpdate) error {
	fields := map[string]interface{}{
		"role": role.Parse(string(upd.Role)),
	}
	if upd.FullName != nil {
		fields["full_name"] = *upd.FullName
	}
	if upd.Username != nil {
		fields["username"] = *upd.Username
	}
	res := r.db.WithContext(ctx).Model(&ds.User{}).Where("id = ?", id).Updates(fields)
	return affected(res)
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	res := r.db.WithContext(ctx).Model(&ds.User{}).Where("id = ?", id).Update("password_hash", hash)
	return affected(res)
}

// SQL операция для логического удаления / восстановления
func (r *Repository) SetUserActive(ctx context.Context, id uint, active bool) error {
	res := r.db.WithContext(ctx).Model(&ds.User{}).Where("id = ?", id).Update("is_active", active)
	return affected(res)
}
