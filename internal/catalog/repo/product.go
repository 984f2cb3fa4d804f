package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/catalog/transport"
	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/idgen"
)

func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position") })
}

// CreateProduct inserts the product with its variants and images.
func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := withChildren(r.DB.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func productFilter(f transport.ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.CategoryID != "" {
			db = db.Where("category_id = ?", f.CategoryID)
		}
		if f.BrandID != "" {
			db = db.Where("brand_id = ?", f.BrandID)
		}
		if f.Featured != nil {
			db = db.Where("featured = ?", *f.Featured)
		}
		return db
	}
}

func (r *GormRepo) ListProducts(ctx context.Context, f transport.ProductFilter, offset, limit int) ([]models.Product, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(productFilter(f)).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Product
	err := withChildren(r.DB.WithContext(ctx)).Scopes(productFilter(f)).
		Order("created_at DESC, id").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// FindProductsByIDs returns the products in the order of ids, skipping
// unknown ones.
func (r *GormRepo) FindProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var rows []models.Product
	if err := withChildren(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// SearchProducts is the database fallback for full-text search.
func (r *GormRepo) SearchProducts(ctx context.Context, query string, offset, limit int) ([]models.Product, int64, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	match := func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Scopes(match).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Product
	if err := withChildren(r.DB.WithContext(ctx)).Scopes(match).Order("name, id").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateProduct saves the product columns and reconciles children in one
// transaction. A nil variants or images slice leaves that set untouched.
// Variants are matched by id: matches are updated, the rest inserted, and
// stored variants missing from the list are deleted together with the cart
// lines pointing at them. Quantity is recomputed at the end.
func (r *GormRepo) UpdateProduct(ctx context.Context, p *models.Product, variants []models.ProductVariant, images []models.ProductImage) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":         p.Name,
			"description":  p.Description,
			"origin_price": p.OriginPrice,
			"featured":     p.Featured,
			"category_id":  p.CategoryID,
			"brand_id":     p.BrandID,
		}).Error; err != nil {
			return err
		}

		if variants != nil {
			if err := reconcileVariants(tx, p.ID, variants); err != nil {
				return err
			}
		}

		if images != nil {
			if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			for i := range images {
				images[i].ID = 0
				images[i].ProductID = p.ID
			}
			if len(images) > 0 {
				if err := tx.Create(&images).Error; err != nil {
					return err
				}
			}
		}

		return models.RecomputeProductQuantity(tx, p.ID)
	})
}

func reconcileVariants(tx *gorm.DB, productID string, variants []models.ProductVariant) error {
	var existingIDs []string
	if err := tx.Model(&models.ProductVariant{}).Where("product_id = ?", productID).Pluck("id", &existingIDs).Error; err != nil {
		return err
	}
	existing := make(map[string]bool, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = true
	}

	keep := make(map[string]bool, len(variants))
	for i := range variants {
		v := &variants[i]
		v.ProductID = productID
		if v.ID != "" && existing[v.ID] && !keep[v.ID] {
			keep[v.ID] = true
			if err := tx.Model(&models.ProductVariant{ID: v.ID}).Updates(map[string]any{
				"name":      v.Name,
				"color":     v.Color,
				"storage":   v.Storage,
				"price":     v.Price,
				"quantity":  v.Quantity,
				"image_url": v.ImageURL,
			}).Error; err != nil {
				return err
			}
			continue
		}
		v.ID = idgen.Generate(idgen.Variant)
		if err := tx.Create(v).Error; err != nil {
			return err
		}
	}

	var stale []string
	for _, id := range existingIDs {
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	if err := tx.Where("variant_id IN ?", stale).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", stale).Delete(&models.ProductVariant{}).Error
}

// DeleteProduct removes the product, its variants and images, and cart lines
// for those variants.
func (r *GormRepo) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		variantIDs := tx.Model(&models.ProductVariant{}).Select("id").Where("product_id = ?", id)
		if err := tx.Where("variant_id IN (?)", variantIDs).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
