package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const orderLinkBase = "https://wa.me/"

// BuildOrderLink returns a messaging deep link that opens a chat with phone
// pre-filled with an enquiry about p. It reports false when phone holds no digits.
func BuildOrderLink(p Product, phone string) (string, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return "", false
	}
	msg := fmt.Sprintf("Hello! I'm interested in \"%s\" priced at ₹%s. Is it available?", p.Name, formatPrice(p.Price))
	return orderLinkBase + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(msg), "+", "%20"), true
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
