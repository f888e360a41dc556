package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"                   json:"id"`
	Title          string          `gorm:"not null"                                   json:"title"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"                json:"price"`
	InventoryCount int64           `gorm:"not null;check:inventory_count >= 0"        json:"inventory_count"`
}

func (Product) TableName() string {
	return "products"
}

// Cart ids are chosen by the client, so the key is never generated.
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CreatedAt time.Time `gorm:"not null"                       json:"created_at"`
}

func (Cart) TableName() string {
	return "carts"
}

type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"                 json:"-"`
	CartID    int64 `gorm:"uniqueIndex:idx_cart_product;not null"    json:"cart_id"`
	ProductID int64 `gorm:"uniqueIndex:idx_cart_product;not null"    json:"product_id"`
	Quantity  int64 `gorm:"not null;check:quantity > 0"              json:"quantity"`

	Cart    *Cart    `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"    json:"-"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// CartLine is a cart item joined with the product it references.
type CartLine struct {
	ProductID int64
	Title     string
	Price     decimal.Decimal
	Quantity  int64
}
