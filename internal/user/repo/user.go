package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func preloadRoles(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Roles.Permissions", func(db *gorm.DB) *gorm.DB { return db.Order("name") })
}

func (r *GormRepo) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := preloadRoles(r.DB.WithContext(ctx)).Order("created_at, id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := preloadRoles(r.DB.WithContext(ctx)).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := preloadRoles(r.DB.WithContext(ctx)).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) UserExists(ctx context.Context, id string) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) FindRolesByNames(ctx context.Context, names []string) ([]models.Role, error) {
	roles := []models.Role{}
	if len(names) == 0 {
		return roles, nil
	}
	if err := r.DB.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// UpdateUser saves the profile columns and, when roles is non-nil, replaces
// the role links.
func (r *GormRepo) UpdateUser(ctx context.Context, u *models.User, roles []models.Role) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"password":   u.Password,
			"phone":      u.Phone,
		}).Error; err != nil {
			return err
		}
		if roles == nil {
			return nil
		}
		return tx.Model(u).Omit("Roles.*").Association("Roles").Replace(roles)
	})
}

// DeleteUser removes the user with its addresses, cart, cart items and role
// links. Orders are kept as history.
func (r *GormRepo) DeleteUser(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("cart_id IN (?)", carts).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Cart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_roles WHERE user_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	return deleted, err
}
