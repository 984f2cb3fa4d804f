package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
)

func (r *GormRepo) CreatePermission(ctx context.Context, p *models.Permission) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) ListPermissions(ctx context.Context) ([]models.Permission, error) {
	var perms []models.Permission
	if err := r.DB.WithContext(ctx).Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *GormRepo) FindPermission(ctx context.Context, name string) (*models.Permission, error) {
	var p models.Permission
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) FindPermissionsByNames(ctx context.Context, names []string) ([]models.Permission, error) {
	perms := []models.Permission{}
	if len(names) == 0 {
		return perms, nil
	}
	if err := r.DB.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&perms).Error; err != nil {
		return nil, err
	}
	return perms, nil
}

func (r *GormRepo) UpdatePermission(ctx context.Context, p *models.Permission) error {
	return r.DB.WithContext(ctx).Model(p).Update("description", p.Description).Error
}

func (r *GormRepo) DeletePermission(ctx context.Context, name string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE permission_name = ?", name).Error; err != nil {
			return err
		}
		res := tx.Where("name = ?", name).Delete(&models.Permission{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
