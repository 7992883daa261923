package scrape

import (
	"strings"
	"time"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

// Storefront describes how to extract product data from one site. Selector
// lists are fallbacks: the first one yielding a non-empty value wins.
type Storefront struct {
	Name string

	// hosts are URL substrings identifying the storefront. Registry order
	// matters: exact brand domains are checked before generic substrings.
	hosts []string

	// Landmark is the element whose presence confirms the page rendered
	// enough to scrape.
	Landmark        string
	LandmarkTimeout time.Duration

	NameSelectors  []string
	PriceSelectors []string
	ImageSelectors []string

	// PostProcess optionally derives promotion-adjusted prices after the
	// base fields are read.
	PostProcess func(page browser.Page, info *domain.ProductInfo) error
}

// Matches reports whether the (resolved) URL belongs to this storefront.
func (s *Storefront) Matches(url string) bool {
	lower := strings.ToLower(url)
	for _, host := range s.hosts {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

// storefronts is the fixed, ordered registry of supported sites. Adding a
// site means adding an entry here, nothing else.
var storefronts = []*Storefront{
	{
		Name:            "Hepsiburada",
		hosts:           []string{"hepsiburada.com"},
		Landmark:        "[data-test-id='title'], [data-test-id='header-h1']",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{"[data-test-id='title']", "[data-test-id='header-h1']"},
		PriceSelectors: []string{
			"[data-test-id='price-current-price']",
			"[data-test-id='product-price']",
			"[data-test-id='checkout-price']",
			"[data-test-id='price'] span",
		},
		ImageSelectors: []string{"img[class*='hb-HbImage-view_image']"},
	},
	{
		Name:            "Amazon",
		hosts:           []string{"amazon.com.tr", "amzn"},
		Landmark:        "#productTitle, #promotionTitle span.a-size-extra-large.a-text-bold",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{"#productTitle"},
		PriceSelectors:  []string{"span.a-price-whole"},
		ImageSelectors:  []string{"img#landingImage.a-dynamic-image"},
		PostProcess:     applyAmazonPromotions,
	},
	{
		Name:            "Trendyol",
		hosts:           []string{"trendyol.com"},
		Landmark:        ".pr-new-br",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{".pr-new-br"},
		PriceSelectors:  []string{".prc-dsc", ".prc-slg"},
		ImageSelectors:  []string{".base-product-image img"},
	},
	{
		Name:            "N11",
		hosts:           []string{"n11.com"},
		Landmark:        ".proName",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{".proName"},
		PriceSelectors:  []string{".newPrice"},
		ImageSelectors:  []string{".imgObj img"},
	},
	{
		Name:            "MediaMarkt",
		hosts:           []string{"mediamarkt"},
		Landmark:        "h1.dScdZY",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{"h1.dScdZY"},
		PriceSelectors:  []string{"[data-test='branded-price-whole-value']"},
		ImageSelectors:  []string{"img[class*='pdp-gallery-image']"},
	},
	{
		Name:            "Boyner",
		hosts:           []string{"boyner"},
		Landmark:        ".title_subtitle__9USXk",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{".title_subtitle__9USXk"},
		PriceSelectors:  []string{".product-price_checkPrice__NMY9e"},
		ImageSelectors:  []string{"img[data-nimg='intrinsic']"},
	},
	{
		Name:            "Karaca",
		hosts:           []string{"karaca"},
		Landmark:        "h1.title",
		LandmarkTimeout: 5 * time.Second,
		NameSelectors:   []string{"h1.title"},
		PriceSelectors:  []string{"span.new"},
		ImageSelectors:  []string{"a[data-fslightbox='gallery-web'] img[src*='cdn.karaca.com']"},
	},
	{
		Name:            "Gratis",
		hosts:           []string{"gratis"},
		Landmark:        "h1.product-title.pdp-product-title",
		LandmarkTimeout: 10 * time.Second,
		NameSelectors:   []string{"h1.product-title.pdp-product-title"},
		PriceSelectors:  []string{"div.card-price > span:first-child"},
		ImageSelectors:  []string{"app-custom-media img[src*='mnpadding']"},
	},
}

// Match returns the storefront responsible for the URL, in registry
// precedence order.
func Match(url string) (*Storefront, bool) {
	for _, s := range storefronts {
		if s.Matches(url) {
			return s, true
		}
	}
	return nil, false
}
