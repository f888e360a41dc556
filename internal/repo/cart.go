package repo

import (
	"context"

	"github.com/Skotchmaster/stockcart/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureCart creates the cart row on first use and is a no-op afterwards.
func (r *GormRepo) EnsureCart(ctx context.Context, cartID int64) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&models.Cart{ID: cartID}).Error
}

func (r *GormRepo) GetCartItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpsertCartItem inserts the line or adds quantity to the existing one.
func (r *GormRepo) UpsertCartItem(ctx context.Context, cartID, productID, quantity int64) (*models.CartItem, error) {
	item := models.CartItem{CartID: cartID, ProductID: productID, Quantity: quantity}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{"quantity": gorm.Expr("cart_items.quantity + excluded.quantity")}),
		}).
		Create(&item).Error
	if err != nil {
		return nil, err
	}
	return r.GetCartItem(ctx, cartID, productID)
}

func (r *GormRepo) DeleteCartItem(ctx context.Context, cartID, productID int64) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ? AND product_id = ?", cartID, productID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ListCartLines(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := r.DB.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, products.title, products.price, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cartID).
		Order("cart_items.product_id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// LockCartItems reads the cart's lines in product order. On postgres the
// rows stay locked until the surrounding transaction ends; sqlite has no
// row locks but already serializes writers.
func (r *GormRepo) LockCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	q := r.DB.WithContext(ctx)
	if r.isPostgres() {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	items := make([]models.CartItem, 0)
	if err := q.Where("cart_id = ?", cartID).Order("product_id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID int64) (int64, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}
