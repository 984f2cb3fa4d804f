package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/db"
	"github.com/techadict/shop/pkg/idgen"
)

type GormRepo struct {
	DB *gorm.DB
}

// Line is a cart item joined with its variant and product.
type Line struct {
	ID          string
	VariantID   string
	VariantName string
	ProductID   string
	ProductName string
	ImageURL    string
	Price       int64
	Quantity    int
}

func (r *GormRepo) FindUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindOrCreateCart returns the cart of userID, creating an empty one on first
// use. The caller checks the user exists.
func (r *GormRepo) FindOrCreateCart(ctx context.Context, userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{ID: idgen.Generate(idgen.Cart), UserID: userID}
	if err := r.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
		// created concurrently
		if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return nil, err
		}
	}
	return &cart, nil
}

func (r *GormRepo) FindVariant(ctx context.Context, id string) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) FindItem(ctx context.Context, cartID, variantID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Where("cart_id = ? AND variant_id = ?", cartID, variantID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToItem inserts the line or, when the cart already holds the variant,
// adds item.Quantity to it in the same statement. Price is re-derived from
// unitPrice either way.
func (r *GormRepo) AddToItem(ctx context.Context, item *models.CartItem, unitPrice int64) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "variant_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
			"price":      gorm.Expr("(cart_items.quantity + excluded.quantity) * ?", unitPrice),
			"updated_at": gorm.Expr("excluded.updated_at"),
		}),
	}).Create(item).Error
}

func (r *GormRepo) SaveItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", item.ID).
		Updates(map[string]any{"quantity": item.Quantity, "price": item.Price}).Error
}

func (r *GormRepo) DeleteItem(ctx context.Context, cartID, variantID string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("cart_id = ? AND variant_id = ?", cartID, variantID).Delete(&models.CartItem{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) ClearItems(ctx context.Context, cartID string) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}

// Lines lists the items of a cart in insertion order.
func (r *GormRepo) Lines(ctx context.Context, cartID string) ([]Line, error) {
	var lines []Line
	err := r.DB.WithContext(ctx).Table("cart_items AS ci").
		Select(`ci.id, ci.variant_id, ci.price, ci.quantity,
			COALESCE(v.name, '') AS variant_name,
			COALESCE(v.product_id, '') AS product_id,
			COALESCE(p.name, '') AS product_name,
			COALESCE(v.image_url, '') AS image_url`).
		Joins("LEFT JOIN product_variants AS v ON v.id = ci.variant_id").
		Joins("LEFT JOIN products AS p ON p.id = v.product_id").
		Where("ci.cart_id = ?", cartID).
		Order("ci.created_at, ci.id").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
