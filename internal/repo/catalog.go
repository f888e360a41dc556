package repo

import (
	"context"

	"github.com/Skotchmaster/stockcart/internal/models"
	"gorm.io/gorm"
)

type ProductFilter struct {
	OnlyAvailable bool
	Offset        int
	Limit         int
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter) (int64, []models.Product, error) {
	base := func() *gorm.DB {
		q := r.DB.WithContext(ctx).Model(&models.Product{})
		if f.OnlyAvailable {
			q = q.Where("inventory_count > 0")
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := base().Order("id ASC")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	items := make([]models.Product, 0)
	if err := q.Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// UpdateProductFields writes only the given columns. Missing rows surface
// as gorm.ErrRecordNotFound.
func (r *GormRepo) UpdateProductFields(ctx context.Context, id int64, fields map[string]any) (*models.Product, error) {
	var prod models.Product
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error; err != nil {
			return err
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return err
		}
		return tx.DB.WithContext(ctx).Where("id = ?", id).First(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// DeleteProduct removes the product and every cart line that points at it.
func (r *GormRepo) DeleteProduct(ctx context.Context, id int64) (int64, error) {
	var deleted int64
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.WithContext(ctx).Where("product_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

func (r *GormRepo) DeleteAllProducts(ctx context.Context) (int64, error) {
	var deleted int64
	err := r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.WithContext(ctx).Where("1 = 1").Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		res := tx.DB.WithContext(ctx).Where("1 = 1").Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return nil
	})
	return deleted, err
}

// DecrementIfAvailable subtracts amount only while enough stock remains.
// The check and the write are one UPDATE, so concurrent callers can never
// drive inventory_count below zero.
func (r *GormRepo) DecrementIfAvailable(ctx context.Context, id, amount int64) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND inventory_count >= ?", id, amount).
		Update("inventory_count", gorm.Expr("inventory_count - ?", amount))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
