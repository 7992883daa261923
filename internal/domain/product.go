package domain

import (
	"strings"
	"time"
)

// ProductInfo is the result of scraping a single product link.
type ProductInfo struct {
	// Name as shown on the product page. Required for validity.
	Name string `json:"name"`

	// Price as shown on the page, possibly overwritten by a derived
	// promotion price. Required for validity.
	Price string `json:"price"`

	// ImageURL of the main product image, if one could be found.
	ImageURL string `json:"image_url,omitempty"`

	// PageURL is the resolved/final URL after redirects. It may differ
	// from the link the message carried.
	PageURL string `json:"page_url"`

	// Storefront-specific promotion metadata, filled by a post-process hook.
	DiscountedPrice string `json:"discounted_price,omitempty"`
	BulkPrice       string `json:"bulk_price,omitempty"`
	PromoText       string `json:"promo_text,omitempty"`
}

// IsValid reports whether the scrape produced enough data to forward:
// both name and price must be non-blank.
func (p ProductInfo) IsValid() bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Price) != ""
}

// MessageRecord is the durable representation of a processed message.
// At most one record exists per distinct product name.
type MessageRecord struct {
	// RawContent is the message text (or link) the record originated from.
	RawContent string `json:"raw_content"`

	// Sender is the attributed sender, falling back to the channel name
	// when the message row carried no sender metadata.
	Sender string `json:"sender"`

	Product ProductInfo `json:"product"`

	CreatedAt time.Time `json:"created_at"`
}
