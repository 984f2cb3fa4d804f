// Package testutil opens throwaway databases and seeds fixtures for service
// and handler tests.
package testutil

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/techadict/shop/internal/models"
	"github.com/techadict/shop/pkg/db"
	"github.com/techadict/shop/pkg/hash"
	"github.com/techadict/shop/pkg/idgen"
)

const Password = "password123"

// NewDB returns a migrated in-memory SQLite database private to the test.
// It uses a single connection, so code under test must use the transaction
// handle inside gorm.Transaction callbacks.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), db.Config())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, models.Migrate(context.Background(), gdb))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func CreatePermission(t *testing.T, gdb *gorm.DB, name string) *models.Permission {
	t.Helper()
	p := &models.Permission{Name: name, Description: name}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

// GrantPermissions attaches permissions to an existing role.
func GrantPermissions(t *testing.T, gdb *gorm.DB, role string, perms ...string) {
	t.Helper()
	r := models.Role{Name: role}
	list := make([]models.Permission, 0, len(perms))
	for _, p := range perms {
		list = append(list, models.Permission{Name: p})
	}
	require.NoError(t, gdb.Model(&r).Association("Permissions").Append(list))
}

// CreateUser inserts a user with Password as its password. With no roles the
// user gets USER.
func CreateUser(t *testing.T, gdb *gorm.DB, email string, roles ...string) *models.User {
	t.Helper()
	if len(roles) == 0 {
		roles = []string{models.RoleUser}
	}
	pw, err := hash.HashPassword(Password)
	require.NoError(t, err)

	u := &models.User{
		ID:        idgen.Generate(idgen.User),
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  pw,
		Phone:     "0900000000",
	}
	for _, r := range roles {
		u.Roles = append(u.Roles, models.Role{Name: r})
	}
	require.NoError(t, gdb.Omit("Roles.*").Create(u).Error)
	return u
}

func CreateAddress(t *testing.T, gdb *gorm.DB, userID string) *models.Address {
	t.Helper()
	a := &models.Address{
		ID:       idgen.Generate(idgen.Address),
		UserID:   userID,
		FullName: "Test User",
		Phone:    "0900000000",
		Detail:   "1 Test Street",
		Ward:     "Ward 1",
		District: "District 1",
		City:     "HCMC",
	}
	require.NoError(t, gdb.Create(a).Error)
	return a
}

func CreateCategory(t *testing.T, gdb *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{ID: idgen.Generate(idgen.Category), Name: name}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

func CreateBrand(t *testing.T, gdb *gorm.DB, name string) *models.Brand {
	t.Helper()
	b := &models.Brand{ID: idgen.Generate(idgen.Brand), Name: name}
	require.NoError(t, gdb.Create(b).Error)
	return b
}

// Variant describes one variant for CreateProduct.
type Variant struct {
	Name     string
	Price    int64
	Quantity int
}

// CreateProduct inserts a product with the given variants; its quantity is
// the sum of variant stock.
func CreateProduct(t *testing.T, gdb *gorm.DB, name string, variants ...Variant) *models.Product {
	t.Helper()
	p := &models.Product{
		ID:          idgen.Generate(idgen.Product),
		Name:        name,
		Description: name + " description",
		OriginPrice: 1000,
	}
	for _, v := range variants {
		p.Variants = append(p.Variants, models.ProductVariant{
			ID:       idgen.Generate(idgen.Variant),
			Name:     v.Name,
			Price:    v.Price,
			Quantity: v.Quantity,
		})
		p.Quantity += v.Quantity
	}
	require.NoError(t, gdb.Create(p).Error)
	return p
}

func VariantQuantity(t *testing.T, gdb *gorm.DB, variantID string) int {
	t.Helper()
	var v models.ProductVariant
	require.NoError(t, gdb.First(&v, "id = ?", variantID).Error)
	return v.Quantity
}

func ProductQuantity(t *testing.T, gdb *gorm.DB, productID string) int {
	t.Helper()
	var p models.Product
	require.NoError(t, gdb.First(&p, "id = ?", productID).Error)
	return p.Quantity
}
