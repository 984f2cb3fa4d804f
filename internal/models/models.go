package models

import (
	"time"
)

// Timestamps are stamped by gorm on insert and update.
type Timestamps struct {
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Permission struct {
	Name        string `gorm:"primaryKey;size:64" json:"name"`
	Description string `                          json:"description"`
	Timestamps
}

type Role struct {
	Name        string       `gorm:"primaryKey;size:64"         json:"name"`
	Description string       `                                  json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions" json:"permissions"`
	Timestamps
}

type User struct {
	ID        string `gorm:"primaryKey;size:40"           json:"id"`
	FirstName string `                                    json:"first_name"`
	LastName  string `                                    json:"last_name"`
	Email     string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password  string `gorm:"not null"                     json:"-"`
	Phone     string `                                    json:"phone"`
	Roles     []Role `gorm:"many2many:user_roles"         json:"roles"`
	Timestamps
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type Address struct {
	ID        string `gorm:"primaryKey;size:40"    json:"id"`
	UserID    string `gorm:"index;size:40;not null" json:"user_id"`
	FullName  string `                             json:"full_name"`
	Phone     string `                             json:"phone"`
	Detail    string `                             json:"detail"`
	Ward      string `                             json:"ward"`
	District  string `                             json:"district"`
	City      string `                             json:"city"`
	IsDefault bool   `gorm:"not null;default:false" json:"is_default"`
	Timestamps
}

type Category struct {
	ID          string `gorm:"primaryKey;size:40"            json:"id"`
	Name        string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Description string `                                     json:"description"`
	Image       string `                                     json:"image"`
	Timestamps
}

type Brand struct {
	ID      string `gorm:"primaryKey;size:40"            json:"id"`
	Name    string `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Country string `                                     json:"country"`
	LogoURL string `                                     json:"logo_url"`
	Timestamps
}

type Product struct {
	ID          string           `gorm:"primaryKey;size:40"    json:"id"`
	Name        string           `gorm:"not null"              json:"name"`
	Description string           `                             json:"description"`
	OriginPrice int64            `gorm:"not null;default:0"    json:"origin_price"`
	Quantity    int              `gorm:"not null;default:0"    json:"quantity"`
	Featured    bool             `gorm:"not null;default:false" json:"featured"`
	CategoryID  string           `gorm:"index;size:40"         json:"category_id"`
	BrandID     string           `gorm:"index;size:40"         json:"brand_id"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID"  json:"variants"`
	Images      []ProductImage   `gorm:"foreignKey:ProductID"  json:"-"`
	Timestamps
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	ProductID string `gorm:"index;size:40;not null"   json:"-"`
	Position  int    `gorm:"not null"                 json:"-"`
	URL       string `gorm:"size:500;not null"        json:"url"`
}

type ProductVariant struct {
	ID        string `gorm:"primaryKey;size:40"                   json:"id"`
	ProductID string `gorm:"index;size:40;not null"               json:"product_id"`
	Name      string `                                            json:"name"`
	Color     string `                                            json:"color"`
	Storage   string `                                            json:"storage"`
	Price     int64  `gorm:"not null;default:0"                   json:"price"`
	Quantity  int    `gorm:"not null;default:0;check:quantity >= 0" json:"quantity"`
	ImageURL  string `                                            json:"image_url"`
	Timestamps
}

type Cart struct {
	ID     string     `gorm:"primaryKey;size:40"                  json:"id"`
	UserID string     `gorm:"uniqueIndex;size:40;not null"        json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID"                   json:"items"`
	Timestamps
}

type CartItem struct {
	ID        string `gorm:"primaryKey;size:40"                              json:"id"`
	CartID    string `gorm:"uniqueIndex:idx_cart_variant;size:40;not null"   json:"cart_id"`
	VariantID string `gorm:"uniqueIndex:idx_cart_variant;size:40;not null"   json:"variant_id"`
	Quantity  int    `gorm:"not null;check:quantity > 0"                     json:"quantity"`
	Price     int64  `gorm:"not null"                                        json:"price"`
	Timestamps
}

type Order struct {
	ID          string      `gorm:"primaryKey;size:40"    json:"id"`
	UserID      string      `gorm:"index;size:40;not null" json:"user_id"`
	AddressID   string      `gorm:"size:40;not null"      json:"address_id"`
	TotalAmount int64       `gorm:"not null"              json:"total_amount"`
	Status      OrderStatus `gorm:"size:20;not null"      json:"status"`
	Items       []OrderItem `gorm:"foreignKey:OrderID"    json:"items"`
	Payment     *Payment    `gorm:"foreignKey:OrderID"    json:"payment"`
	Timestamps
}

type OrderItem struct {
	ID          string `gorm:"primaryKey;size:40"          json:"id"`
	OrderID     string `gorm:"index;size:40;not null"      json:"order_id"`
	VariantID   string `gorm:"index;size:40;not null"      json:"variant_id"`
	VariantName string `                                   json:"variant_name"`
	Quantity    int    `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price       int64  `gorm:"not null"                    json:"price"`
	Subtotal    int64  `gorm:"not null"                    json:"subtotal"`
	Timestamps
}

type Payment struct {
	ID            string        `gorm:"primaryKey;size:40"          json:"id"`
	OrderID       string        `gorm:"uniqueIndex;size:40;not null" json:"order_id"`
	Amount        int64         `gorm:"not null"                    json:"amount"`
	Method        PaymentMethod `gorm:"size:20;not null"            json:"method"`
	Status        PaymentStatus `gorm:"size:20;not null"            json:"status"`
	TransactionID string        `gorm:"size:128"                    json:"transaction_id"`
	PaymentDate   time.Time     `                                   json:"payment_date"`
	Timestamps
}

type InvalidatedToken struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	ExpiryTime time.Time `gorm:"index;not null"     json:"expiry_time"`
}
