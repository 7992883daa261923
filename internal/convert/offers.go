package convert

import (
	"net/url"
	"strings"
)

// offerIDs maps a storefront domain substring to the affiliate program's
// offer identifier. Unmapped storefronts are forwarded unconverted.
var offerIDs = map[string]int{
	"amazon":        6718,
	"amzn":          6718,
	"boyner":        6568,
	"getir":         6906,
	"decathlon":     6786,
	"karaca":        6918,
	"mediamarkt":    6816,
	"n11":           6717,
	"trendyol":      6719,
	"ciceksepeti":   6721,
	"gittigidiyor":  6722,
	"supplementler": 5528,
	"gratis":        6779,
}

// OfferID resolves the offer id for a product URL by domain substring match.
func OfferID(rawURL string) (int, bool) {
	lower := strings.ToLower(rawURL)
	for key, id := range offerIDs {
		if strings.Contains(lower, key) {
			return id, true
		}
	}
	return 0, false
}

// trackingHosts identify URLs that are already affiliate-tracked.
// Converting them again would double-wrap the link.
var trackingHosts = []string{
	"sh.gelirortaklari.com",
	"ty.gl",
	"hb.gelirortaklari",
}

// IsAlreadyConverted reports whether the URL is already a tracking link.
func IsAlreadyConverted(rawURL string) bool {
	for _, host := range trackingHosts {
		if strings.Contains(rawURL, host) {
			return true
		}
	}
	return false
}

// strippedParamPrefixes are affiliate/tracking query parameters removed
// before submitting a URL for conversion, so re-processing an
// already-cleaned link is stable.
var strippedParamPrefixes = []string{
	"utm_",
	"pd_rd_",
	"pf_rd_",
	"amzn1.",
	"ref_",
	"tag",
	"aff_id",
	"impression_id",
}

// CleanAffiliateParams strips known tracking query parameters from the URL.
// A URL that fails to parse is returned unchanged.
func CleanAffiliateParams(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	q := u.Query()
	for key := range q {
		lower := strings.ToLower(key)
		for _, prefix := range strippedParamPrefixes {
			if strings.HasPrefix(lower, prefix) {
				q.Del(key)
				break
			}
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
