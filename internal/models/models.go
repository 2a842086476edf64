package models

import (
	"time"
)

type User struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName    string     `gorm:"not null"                 json:"first_name"`
	LastName     string     `gorm:"not null"                 json:"last_name"`
	Email        string     `gorm:"uniqueIndex;not null"     json:"email"`
	Password     string     `gorm:"not null"                 json:"-"`
	IsActive     bool       `gorm:"default:false"            json:"is_active"`
	IsVerified   bool       `gorm:"default:false"            json:"is_verified"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
	RegisteredAt *time.Time `json:"registered_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Product struct {
	ID    uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name  string `gorm:"uniqueIndex;not null"      json:"name"`
	Price int64  `gorm:"not null;check:price >= 0" json:"price"`
}

type Order struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderProduct carries the per-line quantity for the order/product
// many-to-many relation. Composite key, one row per order line.
type OrderProduct struct {
	OrderID   uint `gorm:"primaryKey"                  json:"order_id"`
	ProductID uint `gorm:"primaryKey"                  json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity > 0" json:"quantity"`
}

// All lists every entity for AutoMigrate.
func All() []any {
	return []any{&User{}, &Product{}, &Order{}, &OrderProduct{}}
}
