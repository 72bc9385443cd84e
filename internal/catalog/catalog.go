// Package catalog turns free-text product metadata into storefront facts:
// which category a product belongs to, which badge it carries, where its
// image lives and how a visitor can order it.
package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultPlaceholderImage is shown when a product has no image.
const DefaultPlaceholderImage = "/images/placeholder.jpg"

// ProductID is the store-assigned identifier. The store may send it as a
// JSON number or a JSON string; it is written back in the same form and its
// text is never rewritten.
type ProductID struct {
	raw    string
	number bool
}

// StringID is an identifier that travels as a JSON string.
func StringID(s string) ProductID { return ProductID{raw: s} }

// NumberID is an identifier that travels as a JSON number.
func NumberID(n int64) ProductID {
	return ProductID{raw: strconv.FormatInt(n, 10), number: true}
}

func (id *ProductID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ProductID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ProductID{raw: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ProductID{raw: n.String(), number: true}
	return nil
}

func (id ProductID) MarshalJSON() ([]byte, error) {
	if id.number && id.raw != "" {
		return []byte(id.raw), nil
	}
	return json.Marshal(id.raw)
}

func (id ProductID) String() string { return id.raw }

// IsZero reports whether no identifier is set.
func (id ProductID) IsZero() bool { return id.raw == "" }

// Product is the catalog item as the store serves it.
type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

// Clone returns a copy that shares no memory with p.
func (p Product) Clone() Product {
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}

// Config carries everything the classifier would otherwise read from the
// process environment.
type Config struct {
	// ImageBaseURL is prepended to store-relative image paths.
	ImageBaseURL string
	// PlaceholderImage replaces a missing image. Defaults to DefaultPlaceholderImage.
	PlaceholderImage string
	// OrderPhone is the seller's messaging number; empty disables order links.
	OrderPhone string
}

// Classifier applies a fixed Config and rule set to products.
type Classifier struct {
	cfg   Config
	rules []Rule
}

func New(cfg Config) *Classifier {
	if strings.TrimSpace(cfg.PlaceholderImage) == "" {
		cfg.PlaceholderImage = DefaultPlaceholderImage
	}
	return &Classifier{cfg: cfg, rules: DefaultRules}
}

// WithRules returns a copy of c that classifies with rules instead of DefaultRules.
func (c *Classifier) WithRules(rules []Rule) *Classifier {
	out := *c
	out.rules = rules
	return &out
}

func (c *Classifier) Classify(p Product) CategoryID {
	return classifyWith(c.rules, p)
}

func (c *Classifier) Badge(p Product) (BadgeID, bool) {
	return badgeWith(c.rules, p)
}

func (c *Classifier) ResolveImage(path string) string {
	return resolveImage(c.cfg.ImageBaseURL, c.cfg.PlaceholderImage, path)
}

func (c *Classifier) OrderLink(p Product) (string, bool) {
	return BuildOrderLink(p, c.cfg.OrderPhone)
}
