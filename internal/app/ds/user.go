package ds

import "chilaquiles/internal/app/role"

// Таблица пользователей
type User struct {
	ID           uint      `gorm:"primaryKey" db:"id"`
	FullName     string    `gorm:"column:full_name;type:varchar(100);not null" db:"full_name"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" db:"username"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(255);not null" db:"password_hash"`
	Role         role.Role `gorm:"type:varchar(16);not null;default:'user'" db:"role"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" db:"is_active"`
}

func (User) TableName() string {
	return "users"
}

// UserUpdate изменения пользователя от администратора.
// Роль пишется всегда, имя и логин только если переданы.
type UserUpdate struct {
	Role     role.Role
	FullName *string
	Username *string
}
