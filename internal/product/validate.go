package product

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	MaxNameLength        = 200
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 100
	MinPrice             = 1
	MaxPrice             = 1_000_000
)

// Input is the raw form submitted by the admin screen.
type Input struct {
	Name        string
	Price       string
	Description string
	Category    string
}

type record struct {
	Name        string `json:"name" validate:"required,max=200"`
	Price       int64  `json:"price" validate:"min=1,max=1000000"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"max=100"`
}

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return "invalid product: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

// Validate trims and checks in, returning the product fields it describes.
func (in Input) Validate() (Product, error) {
	errs := map[string]string{}

	rec := record{
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
	}
	price, err := strconv.ParseInt(strings.TrimSpace(in.Price), 10, 64)
	if err != nil {
		errs["price"] = "Price must be an integer."
	}
	rec.Price = price

	if err := validate.Struct(rec); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return Product{}, err
		}
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = message(fe)
			}
		}
	}
	if len(errs) > 0 {
		return Product{}, &ValidationError{Fields: errs}
	}

	p := Product{Name: rec.Name, Price: rec.Price, Description: rec.Description}
	if rec.Category != "" {
		p.Category = &rec.Category
	}
	return p, nil
}

func message(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "required" {
			return "Product name is required."
		}
		return fmt.Sprintf("Product name is too long (max %d characters).", MaxNameLength)
	case "price":
		return fmt.Sprintf("Price must be between %d and %s.", MinPrice, "1,000,000")
	case "description":
		return fmt.Sprintf("Description is too long (max %d characters).", MaxDescriptionLength)
	case "category":
		return fmt.Sprintf("Category is too long (max %d characters).", MaxCategoryLength)
	}
	return fe.Error()
}
