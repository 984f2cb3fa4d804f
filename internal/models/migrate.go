package models

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

func All() []any {
	return []any{
		&Permission{}, &Role{}, &User{}, &Address{},
		&Category{}, &Brand{}, &Product{}, &ProductVariant{}, &ProductImage{},
		&Cart{}, &CartItem{},
		&Order{}, &OrderItem{}, &Payment{},
		&InvalidatedToken{},
	}
}

// Migrate creates the schema and makes sure the built-in roles exist.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	seed := []Role{
		{Name: RoleUser, Description: "Customer"},
		{Name: RoleAdmin, Description: "Administrator"},
	}
	for i := range seed {
		if err := db.WithContext(ctx).Where(Role{Name: seed[i].Name}).FirstOrCreate(&seed[i]).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", seed[i].Name, err)
		}
	}
	return nil
}
