package relay

import (
	"fmt"
	"strings"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// Message is an outbound notification. With a PhotoURL it is delivered as
// photo+caption, otherwise as plain text.
type Message struct {
	PhotoURL string
	Caption  string
}

// storeLabels maps URL substrings to display labels, checked in order so
// exact domains win over loose brand substrings.
var storeLabels = []struct {
	host  string
	label string
}{
	{"hepsiburada.com", "Hepsiburada"},
	{"amazon.com.tr", "Amazon"},
	{"amzn", "Amazon"},
	{"trendyol.com", "Trendyol"},
	{"n11.com", "N11"},
	{"boyner", "Boyner"},
	{"mediamarkt", "MediaMarkt"},
	{"getir", "Getir"},
	{"karaca", "Karaca"},
	{"gratis", "Gratis"},
}

// StoreName derives the storefront label shown in the caption.
func StoreName(url string) string {
	lower := strings.ToLower(url)
	for _, s := range storeLabels {
		if strings.Contains(lower, s.host) {
			return s.label
		}
	}
	return "Diğer"
}

// cleanPrice strips currency markers and locale artifacts from a displayed
// price ("₺1.299,90 TL," → "1.299,90").
func cleanPrice(price string) string {
	p := strings.ReplaceAll(price, "₺", "")
	p = strings.ReplaceAll(p, "TL", "")
	p = strings.TrimSpace(p)
	return strings.TrimSuffix(p, ",")
}

// BuildMessage composes the outbound notification for a scraped product,
// linking the call-to-action to the tracking URL.
func BuildMessage(info domain.ProductInfo, trackingURL string) Message {
	var b strings.Builder

	b.WriteString("\n<b>")
	b.WriteString(info.Name)
	b.WriteString("</b>\n\n")

	if price := cleanPrice(info.Price); price != "" {
		fmt.Fprintf(&b, "💳 ₺ %s\n", price)
	}
	if info.PromoText != "" {
		fmt.Fprintf(&b, "🎁 %s\n", info.PromoText)
	}

	fmt.Fprintf(&b, "🛍 %s\n\n", StoreName(info.PageURL))
	fmt.Fprintf(&b, "<b>👉 <a href=\"%s\">FIRSATA GİT</a></b>\n\n#işbirliği", trackingURL)

	return Message{
		PhotoURL: strings.TrimSpace(info.ImageURL),
		Caption:  b.String(),
	}
}
