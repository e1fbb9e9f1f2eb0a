package ds

import "time"

// Таблица блюд (chilaquiles)
type Dish struct {
	ID        uint      `gorm:"primaryKey" db:"id"`
	Name      string    `gorm:"type:varchar(100);not null" db:"name"`
	SalsaType string    `gorm:"column:salsa_type;type:varchar(50);not null;index" db:"salsa_type"`
	Protein   string    `gorm:"type:varchar(50);not null;index" db:"protein"`
	Spiciness int       `gorm:"not null;default:0" db:"spiciness"`
	Price     float64   `gorm:"type:decimal(10,2);not null;default:0" db:"price"`
	CreatedAt time.Time `gorm:"column:created_at;not null" db:"created_at"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true" db:"is_active"`
	ImageKey  *string   `gorm:"column:image_key;type:varchar(255)" db:"image_key"` // Nullable, ключ объекта в MinIO
}

func (Dish) TableName() string {
	return "chilaquiles"
}
