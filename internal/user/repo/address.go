package repo

import (
	"context"

	"github.com/techadict/shop/internal/models"
)

func (r *GormRepo) ListAddressesByUser(ctx context.Context, userID string) ([]models.Address, error) {
	var out []models.Address
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("is_default DESC, created_at").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
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

func (r *GormRepo) SaveAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Save(a).Error
}

func (r *GormRepo) DeleteAddress(ctx context.Context, id string) (bool, error) {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Address{})
	return res.RowsAffected > 0, res.Error
}
