package dto

import (
	"strings"
	"time"

	"chilaquiles/internal/app/ds"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// OKResponse ответ об успешной операции
type OKResponse struct {
	OK        bool   `json:"ok"`
	ID        uint   `json:"id,omitempty"`
	Role      string `json:"role,omitempty"`
	Token     string `json:"token,omitempty"`
	TokenType string `json:"tokenType,omitempty"`
	ExpiresIn int64  `json:"expiresIn,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Driver  string `json:"driver,omitempty"`
	Dialect string `json:"dialect,omitempty"`
}

// ============ Аутентификация ============

type RegisterRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Normalize обрезает пробелы у имени и логина
func (r *RegisterRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Username = strings.TrimSpace(r.Username)
}

// Complete все обязательные поля заполнены
func (r RegisterRequest) Complete() bool {
	return r.FullName != "" && r.Username != "" && strings.TrimSpace(r.Password) != ""
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type MeResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// ============ Пользователи (админка) ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	IsActive bool   `json:"isActive"`
}

func NewUserResponse(u ds.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role.String(),
		IsActive: u.IsActive,
	}
}

type UpdateUserRequest struct {
	Role     *string `json:"role"`
	FullName *string `json:"fullName"`
	Username *string `json:"username"`
}

// ============ Блюда ============

type DishRequest struct {
	Name      string    `json:"name"`
	SalsaType string    `json:"salsaType"`
	Protein   string    `json:"protein"`
	Spiciness FlexInt   `json:"spiciness"`
	Price     FlexFloat `json:"price"`
}

func (r *DishRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.SalsaType = strings.TrimSpace(r.SalsaType)
	r.Protein = strings.TrimSpace(r.Protein)
}

func (r DishRequest) Complete() bool {
	return r.Name != "" && r.SalsaType != "" && r.Protein != ""
}

// ToDish переносит поля запроса в модель
func (r DishRequest) ToDish(id uint) *ds.Dish {
	return &ds.Dish{
		ID:        id,
		Name:      r.Name,
		SalsaType: r.SalsaType,
		Protein:   r.Protein,
		Spiciness: int(r.Spiciness),
		Price:     float64(r.Price),
	}
}

type DishResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	SalsaType string    `json:"salsaType"`
	Protein   string    `json:"protein"`
	Spiciness int       `json:"spiciness"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"createdAt"`
	IsActive  bool      `json:"isActive"`
	ImageURL  string    `json:"imageUrl,omitempty"`
}

func NewDishResponse(d ds.Dish, imageURL string) DishResponse {
	return DishResponse{
		ID:        d.ID,
		Name:      d.Name,
		SalsaType: d.SalsaType,
		Protein:   d.Protein,
		Spiciness: d.Spiciness,
		Price:     d.Price,
		CreatedAt: d.CreatedAt,
		IsActive:  d.IsActive,
		ImageURL:  imageURL,
	}
}
