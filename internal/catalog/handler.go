package catalog

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Lister supplies the products shown on the storefront, in store order.
type Lister interface {
	ListCatalog(ctx context.Context) ([]Product, error)
}

type Handler struct {
	products   Lister
	classifier *Classifier
	log        *zap.Logger
}

func NewHandler(products Lister, classifier *Classifier, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{products: products, classifier: classifier, log: log}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/catalog", h.getCatalog)
	app.Get("/api/catalog/categories", h.getCategories)
}

// CategoryItem is one entry of the category menu.
type CategoryItem struct {
	ID    CategoryID `json:"id"`
	Label string     `json:"label"`
	Count int        `json:"count"`
}

func (h *Handler) getCatalog(c *fiber.Ctx) error {
	var f Filter
	if q := c.Query("category"); q != "" && q != "all" {
		id, ok := ParseCategory(q)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown category"})
		}
		f.Select(id)
	}

	products, err := h.products.ListCatalog(c.UserContext())
	if err != nil {
		h.log.Error("catalog: list products", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load catalog"})
	}
	return c.JSON(h.classifier.Listings(f, products))
}

func (h *Handler) getCategories(c *fiber.Ctx) error {
	products, err := h.products.ListCatalog(c.UserContext())
	if err != nil {
		h.log.Error("catalog: list products for categories", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to load categories"})
	}
	counts := h.classifier.Counts(products)
	items := make([]CategoryItem, 0, len(Categories))
	for _, id := range Categories {
		items = append(items, CategoryItem{ID: id, Label: id.Label(), Count: counts[id]})
	}
	return c.JSON(items)
}
