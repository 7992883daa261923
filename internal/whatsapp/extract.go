package whatsapp

import (
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`https?://[^\s]+`)

// wishlistPath marks non-purchasable list pages; links to them are dropped
// before they ever reach the scraper.
const wishlistPath = "/hz/wishlist"

// ExtractLinks scans message text for http(s) links, preserving their order
// of appearance. Wishlist-style links are excluded.
func ExtractLinks(text string) []string {
	matches := urlPattern.FindAllString(text, -1)
	links := make([]string, 0, len(matches))
	for _, link := range matches {
		if strings.Contains(link, wishlistPath) {
			continue
		}
		links = append(links, link)
	}
	return links
}
