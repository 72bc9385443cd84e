package catalog

import "strings"

// CategoryID is one of the four fixed storefront categories.
type CategoryID string

const (
	Embroidery CategoryID = "embroidery"
	Dry        CategoryID = "dry"
	Wood       CategoryID = "wood"
	Metal      CategoryID = "metal"
)

// DefaultCategory is returned when no rule matches.
const DefaultCategory = Embroidery

// Categories lists the category ids in storefront display order.
var Categories = []CategoryID{Embroidery, Dry, Wood, Metal}

var categoryLabels = map[CategoryID]string{
	Embroidery: "Embroidery & Textiles",
	Dry:        "Ker Sangri & Dry Produce",
	Wood:       "Woodwork & Furniture",
	Metal:      "Brass, Metal & Stone",
}

// Label returns the display name of a category.
func (id CategoryID) Label() string {
	if l, ok := categoryLabels[id]; ok {
		return l
	}
	return string(id)
}

func (id CategoryID) Valid() bool {
	_, ok := categoryLabels[id]
	return ok
}

// ParseCategory accepts a category id in any letter case.
func ParseCategory(s string) (CategoryID, bool) {
	id := CategoryID(strings.ToLower(strings.TrimSpace(s)))
	return id, id.Valid()
}

// Rule maps keyword hits to a category. Rules are tried in slice order and
// the first rule with a keyword found in the haystack wins.
type Rule struct {
	Category CategoryID
	Keywords []string
}

// DefaultRules is the canonical rule set. Dry produce is checked first so a
// "ker sangri" gift box packed in a wooden crate stays in the dry category;
// bed and sofa count as plain wood hits.
var DefaultRules = []Rule{
	{Category: Dry, Keywords: []string{"ker", "sangari", "sangri", "ker-sangari", "ker sangari"}},
	{Category: Wood, Keywords: []string{"wood", "sheesham", "teak", "charpai", "bed", "sofa"}},
	{Category: Metal, Keywords: []string{"brass", "metal", "stone", "marble"}},
	{Category: Embroidery, Keywords: []string{"embroider", "textile", "dupatta", "kurti"}},
}

// Classify assigns p to a category using DefaultRules. It never fails.
func Classify(p Product) CategoryID {
	return classifyWith(DefaultRules, p)
}

// Haystack is the lower-cased text searched for category keywords: the
// category hint when one is set, otherwise name and description.
func Haystack(p Product) string {
	if p.Category != nil && strings.TrimSpace(*p.Category) != "" {
		return strings.ToLower(*p.Category)
	}
	return strings.ToLower(p.Name + " " + p.Description)
}

func classifyWith(rules []Rule, p Product) CategoryID {
	if id, ok := match(rules, Haystack(p)); ok {
		return id
	}
	return DefaultCategory
}

func match(rules []Rule, haystack string) (CategoryID, bool) {
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(haystack, strings.ToLower(kw)) {
				return r.Category, true
			}
		}
	}
	return "", false
}
