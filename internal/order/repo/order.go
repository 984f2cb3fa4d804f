package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techadict/shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

// Transaction runs fn with a repo bound to one database transaction.
func (r *GormRepo) Transaction(ctx context.Context, fn func(tx *GormRepo) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Payment")
}

func (r *GormRepo) UserExists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) FindAddress(ctx context.Context, id string) (*models.Address, error) {
	var a models.Address
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *GormRepo) FindVariant(ctx context.Context, id string) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// DecrementStock takes qty units from a variant only when that many are in
// stock. It reports false when the row was left untouched.
func (r *GormRepo) DecrementStock(ctx context.Context, variantID string, qty int) (bool, error) {
	res := r.DB.WithContext(ctx).Exec(
		"UPDATE product_variants SET quantity = quantity - ? WHERE id = ? AND quantity >= ?",
		qty, variantID, qty,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *GormRepo) IncrementStock(ctx context.Context, variantID string, qty int) error {
	return r.DB.WithContext(ctx).Exec(
		"UPDATE product_variants SET quantity = quantity + ? WHERE id = ?",
		qty, variantID,
	).Error
}

// ProductIDsOfVariants returns the distinct owning products of the variants.
func (r *GormRepo) ProductIDsOfVariants(ctx context.Context, variantIDs []string) ([]string, error) {
	var ids []string
	if len(variantIDs) == 0 {
		return ids, nil
	}
	err := r.DB.WithContext(ctx).Model(&models.ProductVariant{}).
		Distinct("product_id").Where("id IN ?", variantIDs).Pluck("product_id", &ids).Error
	return ids, err
}

func (r *GormRepo) RecomputeQuantity(ctx context.Context, productIDs ...string) error {
	return models.RecomputeProductQuantity(r.DB.WithContext(ctx), productIDs...)
}

// CreateOrder inserts the order with its items and payment.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) FindOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	if err := withDetails(r.DB.WithContext(ctx)).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// LockOrder loads the order and holds its row until the transaction ends.
func (r *GormRepo) LockOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := withDetails(r.DB.WithContext(ctx)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := withDetails(r.DB.WithContext(ctx)).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := withDetails(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *GormRepo) UpdatePayment(ctx context.Context, id string, fields map[string]any) error {
	return r.DB.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(fields).Error
}
