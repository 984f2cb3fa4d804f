package transport

import "github.com/techadict/shop/internal/models"

func ToVariantResponse(v *models.ProductVariant) VariantResponse {
	return VariantResponse{
		ID:       v.ID,
		Name:     v.Name,
		Color:    v.Color,
		Storage:  v.Storage,
		Price:    v.Price,
		Quantity: v.Quantity,
		ImageURL: v.ImageURL,
	}
}

// ToProductResponse maps p; names are looked up by the caller.
func ToProductResponse(p *models.Product, categoryName, brandName string) ProductResponse {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, img.URL)
	}
	variants := make([]VariantResponse, 0, len(p.Variants))
	for i := range p.Variants {
		variants = append(variants, ToVariantResponse(&p.Variants[i]))
	}
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		OriginPrice:  p.OriginPrice,
		Quantity:     p.Quantity,
		CategoryID:   p.CategoryID,
		CategoryName: categoryName,
		BrandID:      p.BrandID,
		BrandName:    brandName,
		Featured:     p.Featured,
		Images:       images,
		Variants:     variants,
		CreatedAt:    p.CreatedAt,
	}
}

func ToVariantModel(v VariantRequest) models.ProductVariant {
	return models.ProductVariant{
		ID:       v.ID,
		Name:     v.Name,
		Color:    v.Color,
		Storage:  v.Storage,
		Price:    v.Price,
		Quantity: v.Quantity,
		ImageURL: v.ImageURL,
	}
}

func ToImageModels(urls []string) []models.ProductImage {
	out := make([]models.ProductImage, 0, len(urls))
	for i, u := range urls {
		out = append(out, models.ProductImage{Position: i, URL: u})
	}
	return out
}
