package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
)

func preloadPermissions(db *gorm.DB) *gorm.DB {
	return db.Preload("Permissions", func(db *gorm.DB) *gorm.DB { return db.Order("name") })
}

func (r *GormRepo) CreateRole(ctx context.Context, role *models.Role) error {
	return r.DB.WithContext(ctx).Omit("Permissions.*").Create(role).Error
}

func (r *GormRepo) ListRoles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := preloadPermissions(r.DB.WithContext(ctx)).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) FindRole(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	if err := preloadPermissions(r.DB.WithContext(ctx)).Where("name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// UpdateRole saves the description and, when perms is non-nil, replaces the
// permission set.
func (r *GormRepo) UpdateRole(ctx context.Context, role *models.Role, perms []models.Permission) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Role{}).Where("name = ?", role.Name).Update("description", role.Description).Error; err != nil {
			return err
		}
		if perms == nil {
			return nil
		}
		return tx.Model(role).Omit("Permissions.*").Association("Permissions").Replace(perms)
	})
}

// DeleteRole removes the role together with its user and permission links.
func (r *GormRepo) DeleteRole(ctx context.Context, name string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_name = ?", name).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE role_name = ?", name).Error; err != nil {
			return err
		}
		res := tx.Where("name = ?", name).Delete(&models.Role{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
