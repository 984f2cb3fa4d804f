package transport

type AddItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity"   validate:"gt=0"`
}

// UpdateItemRequest sets the quantity of a line; zero or less removes it.
type UpdateItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
	Quantity  int    `json:"quantity"`
}

type RemoveItemRequest struct {
	VariantID string `json:"variant_id" validate:"required"`
}

type CartItemResponse struct {
	ID          string `json:"id"`
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	ImageURL    string `json:"image_url"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	UserName   string             `json:"user_name"`
	TotalPrice int64              `json:"total_price"`
	Items      []CartItemResponse `json:"items"`
}
