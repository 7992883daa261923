package scrape

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// Promotion banners on Amazon product pages. The text is heuristic, so this
// lives in a per-storefront hook rather than the dispatcher.
var (
	// "3 al 2 öde" style multi-buy banners.
	bulkPromoPattern = regexp.MustCompile(`(?i)(\d+)\s*al[,\s]+(\d+)\s*öde`)

	// "%15 indirim" style percentage banners.
	percentPromoPattern = regexp.MustCompile(`%\s*(\d{1,2})`)
)

const amazonPromoSelector = "#promotionTitle, .promoPriceBlockMessage"

// applyAmazonPromotions derives effective prices from promotion banners.
// When a promotion applies, the displayed price is overwritten so the
// persisted ProductInfo always reflects what the buyer pays.
func applyAmazonPromotions(page browser.Page, info *domain.ProductInfo) error {
	banner, err := page.Element(amazonPromoSelector)
	if err != nil {
		// No banner, nothing to derive.
		return nil
	}
	text, err := banner.Text()
	if err != nil || text == "" {
		return nil
	}

	base, err := parsePrice(info.Price)
	if err != nil {
		return fmt.Errorf("cannot adjust promoted price: %w", err)
	}

	if m := bulkPromoPattern.FindStringSubmatch(text); m != nil {
		take, _ := strconv.Atoi(m[1])
		pay, _ := strconv.Atoi(m[2])
		if take > 0 && pay > 0 && pay < take {
			// Effective unit price when buying the full bundle.
			info.BulkPrice = formatPrice(base * float64(pay) / float64(take))
			info.PromoText = text
			info.Price = info.BulkPrice
			return nil
		}
	}

	if m := percentPromoPattern.FindStringSubmatch(text); m != nil {
		pct, _ := strconv.Atoi(m[1])
		if pct > 0 && pct < 100 {
			info.DiscountedPrice = formatPrice(base * float64(100-pct) / 100)
			info.PromoText = text
			info.Price = info.DiscountedPrice
		}
	}
	return nil
}
