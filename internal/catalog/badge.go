package catalog

import "strings"

// BadgeID is a merchandising tag shown on a product card.
type BadgeID string

const (
	BadgeNew        BadgeID = "New"
	BadgeBestSeller BadgeID = "Best Seller"
	BadgePopular    BadgeID = "Popular"
)

var badgeRules = []struct {
	badge    BadgeID
	keywords []string
}{
	{BadgeNew, []string{"new", "latest"}},
	{BadgeBestSeller, []string{"bestseller", "best seller"}},
	{BadgePopular, []string{"popular", "famous"}},
}

// Badge picks the badge for p using DefaultRules for the dry-produce fallback.
// The second result is false when p carries no badge.
func Badge(p Product) (BadgeID, bool) {
	return badgeWith(DefaultRules, p)
}

func badgeWith(rules []Rule, p Product) (BadgeID, bool) {
	text := p.Name + " " + p.Description
	if p.Category != nil {
		text = *p.Category + " " + text
	}
	text = strings.ToLower(text)
	for _, r := range badgeRules {
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return r.badge, true
			}
		}
	}
	if classifyWith(rules, p) == Dry {
		return BadgePopular, true
	}
	return "", false
}
