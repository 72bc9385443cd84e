package product

import "github.com/wichananm65/craft-catalog/internal/catalog"

// Product maps to the `products` table.
// JSON tags follow the wire contract consumed by the admin console.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       int64   `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Category    *string `json:"category,omitempty"`
}

// ToCatalog converts the stored record to the storefront shape.
func (p Product) ToCatalog() catalog.Product {
	return catalog.Product{
		ID:          catalog.NumberID(p.ID),
		Name:        p.Name,
		Price:       float64(p.Price),
		Description: p.Description,
		Image:       p.Image,
		Category:    p.Category,
	}
}
