package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/db"
)

var ErrUserAlreadyExist = errors.New("user already exist")

type GormRepo struct {
	DB *gorm.DB
}

// FindUserByEmail loads the user with roles and their permissions.
func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Roles", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Preload("Roles.Permissions", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser inserts u and its role links unless the email is taken.
func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrUserAlreadyExist
		}
		return tx.Omit("Roles.*").Create(u).Error
	})
	if db.IsUniqueViolation(err) {
		return ErrUserAlreadyExist
	}
	return err
}

// FindRolesByNames returns the roles that exist among names.
func (r *GormRepo) FindRolesByNames(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var roles []models.Role
	if err := r.DB.WithContext(ctx).Where("name IN ?", names).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) IsInvalidated(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.InvalidatedToken{}).
		Where("id = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// InvalidateToken records jti; recording it twice is not an error.
func (r *GormRepo) InvalidateToken(ctx context.Context, jti string, expiry time.Time) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.InvalidatedToken{ID: jti, ExpiryTime: expiry}).Error
}

func (r *GormRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expiry_time < ?", now).Delete(&models.InvalidatedToken{})
	return res.RowsAffected, res.Error
}
