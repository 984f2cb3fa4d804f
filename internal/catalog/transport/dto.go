package transport

import "time"

type VariantRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Storage  string `json:"storage"`
	Price    int64  `json:"price"     validate:"gte=0"`
	Quantity int    `json:"quantity"  validate:"gte=0"`
	ImageURL string `json:"image_url"`
}

type ProductRequest struct {
	Name        string           `json:"name"         validate:"required"`
	Description string           `json:"description"`
	OriginPrice int64            `json:"origin_price" validate:"gte=0"`
	Featured    bool             `json:"featured"`
	CategoryID  string           `json:"category_id"  validate:"required"`
	BrandID     string           `json:"brand_id"     validate:"required"`
	Images      []string         `json:"images"`
	Variants    []VariantRequest `json:"variants"     validate:"dive"`
}

// ProductUpdateRequest merges only present fields. Variants and images, when
// present, describe the complete new set.
type ProductUpdateRequest struct {
	Name        *string          `json:"name"         validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	OriginPrice *int64           `json:"origin_price" validate:"omitempty,gte=0"`
	Featured    *bool            `json:"featured"`
	CategoryID  *string          `json:"category_id"`
	BrandID     *string          `json:"brand_id"`
	Images      []string         `json:"images"`
	Variants    []VariantRequest `json:"variants"     validate:"omitempty,dive"`
}

type ProductFilter struct {
	CategoryID string
	BrandID    string
	Featured   *bool
}

type VariantResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
	Storage  string `json:"storage"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	ImageURL string `json:"image_url"`
}

type ProductResponse struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	OriginPrice  int64             `json:"origin_price"`
	Quantity     int               `json:"quantity"`
	CategoryID   string            `json:"category_id"`
	CategoryName string            `json:"category_name"`
	BrandID      string            `json:"brand_id"`
	BrandName    string            `json:"brand_name"`
	Featured     bool              `json:"featured"`
	Images       []string          `json:"images"`
	Variants     []VariantResponse `json:"variants"`
	CreatedAt    time.Time         `json:"created_at"`
}

type ProductPage struct {
	Items []ProductResponse `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int64             `json:"total"`
}

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type BrandRequest struct {
	Name    string `json:"name" validate:"required"`
	Country string `json:"country"`
	LogoURL string `json:"logo_url"`
}
