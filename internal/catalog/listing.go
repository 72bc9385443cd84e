package catalog

// Listing is a product decorated for display.
type Listing struct {
	Product
	CategoryID    CategoryID `json:"categoryId"`
	CategoryLabel string     `json:"categoryLabel"`
	Badge         *BadgeID   `json:"badge,omitempty"`
	ImageURL      string     `json:"imageUrl"`
	OrderLink     *string    `json:"orderLink,omitempty"`
}

func (c *Classifier) Listing(p Product) Listing {
	cat := c.Classify(p)
	l := Listing{
		Product:       p,
		CategoryID:    cat,
		CategoryLabel: cat.Label(),
		ImageURL:      c.ResolveImage(p.Image),
	}
	if b, ok := c.Badge(p); ok {
		l.Badge = &b
	}
	if link, ok := c.OrderLink(p); ok {
		l.OrderLink = &link
	}
	return l
}

// Listings decorates products that pass f, in input order.
func (c *Classifier) Listings(f Filter, products []Product) []Listing {
	visible := f.ApplyWith(c, products)
	out := make([]Listing, 0, len(visible))
	for _, p := range visible {
		out = append(out, c.Listing(p))
	}
	return out
}
