package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := r.DB.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) FindCategory(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// CategoryNameTaken reports whether another category already uses name.
func (r *GormRepo) CategoryNameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) SaveCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Save(c).Error
}

func (r *GormRepo) DeleteCategory(ctx context.Context, id string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) CreateBrand(ctx context.Context, b *models.Brand) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var out []models.Brand
	if err := r.DB.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) FindBrand(ctx context.Context, id string) (*models.Brand, error) {
	var b models.Brand
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *GormRepo) BrandNameTaken(ctx context.Context, name, exceptID string) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Brand{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) SaveBrand(ctx context.Context, b *models.Brand) error {
	return r.DB.WithContext(ctx).Save(b).Error
}

func (r *GormRepo) DeleteBrand(ctx context.Context, id string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Brand{})
	return res.RowsAffected > 0, res.Error
}

// CountProducts counts products whose column (category_id or brand_id)
// equals id.
func (r *GormRepo) CountProducts(ctx context.Context, column, id string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where(column+" = ?", id).Count(&n).Error
	return n, err
}

// ProductIDsBy lists the ids of products whose column equals id.
func (r *GormRepo) ProductIDsBy(ctx context.Context, column, id string) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where(column+" = ?", id).Pluck("id", &ids).Error
	return ids, err
}

// CategoryNames maps ids to names for the given category ids.
func (r *GormRepo) CategoryNames(ctx context.Context, ids []string) (map[string]string, error) {
	var rows []models.Category
	if err := r.DB.WithContext(ctx).Select("id", "name").Where("id IN ?", nonEmpty(ids)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, c := range rows {
		out[c.ID] = c.Name
	}
	return out, nil
}

func (r *GormRepo) BrandNames(ctx context.Context, ids []string) (map[string]string, error) {
	var rows []models.Brand
	if err := r.DB.WithContext(ctx).Select("id", "name").Where("id IN ?", nonEmpty(ids)).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, b := range rows {
		out[b.ID] = b.Name
	}
	return out, nil
}

func nonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return []string{""}
	}
	return out
}
