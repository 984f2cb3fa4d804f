package models

import "gorm.io/gorm"

// RecomputeProductQuantity sets each product's quantity to the sum of its
// variant quantities. Pass the transaction handle when inside one.
func RecomputeProductQuantity(tx *gorm.DB, productIDs ...string) error {
	seen := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}

		sum := tx.Model(&ProductVariant{}).Select("COALESCE(SUM(quantity), 0)").Where("product_id = ?", id)
		if err := tx.Model(&Product{}).Where("id = ?", id).Update("quantity", sum).Error; err != nil {
			return err
		}
	}
	return nil
}
