package convert

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Converter turns product URLs into affiliate-tracked links. Convert never
// fails outward: on any error the original URL is returned unchanged.
type Converter struct {
	client *resty.Client
	log    logrus.FieldLogger

	apiURL string
	apiKey string

	hbShareURL   string
	hbCampaignID string
}

// Options configures a Converter.
type Options struct {
	// APIBaseURL and APIKey drive the generic tracking-link path.
	APIBaseURL string
	APIKey     string

	// Hepsiburada's share-link API; a separate contract from the generic
	// path.
	HepsiburadaShareURL   string
	HepsiburadaCampaignID string
}

func NewConverter(opts Options, logger logrus.FieldLogger) *Converter {
	client := resty.New()
	client.SetTimeout(5 * time.Second)
	client.SetHeader("accept", "application/json")

	return &Converter{
		client:       client,
		log:          logger.WithField("component", "converter"),
		apiURL:       opts.APIBaseURL,
		apiKey:       opts.APIKey,
		hbShareURL:   opts.HepsiburadaShareURL,
		hbCampaignID: opts.HepsiburadaCampaignID,
	}
}

// Convert returns an affiliate-tracked version of the URL, or the URL
// unchanged when it is already tracked, the storefront is unmapped, or the
// conversion API fails.
func (c *Converter) Convert(ctx context.Context, rawURL string) string {
	if IsAlreadyConverted(rawURL) {
		return rawURL
	}

	// Hepsiburada has its own API contract; it is selected before generic
	// dispatch.
	if strings.Contains(strings.ToLower(rawURL), "hepsiburada") {
		return c.convertHepsiburada(ctx, rawURL)
	}

	offerID, ok := OfferID(rawURL)
	if !ok {
		c.log.WithField("url", rawURL).Debug("No offer id for storefront, keeping original url")
		return rawURL
	}

	tracked, err := c.generateTrackingLink(ctx, rawURL, offerID)
	if err != nil {
		c.log.WithError(err).WithField("url", rawURL).Warn("Link conversion failed, keeping original url")
		return rawURL
	}
	return tracked
}

type trackingResponse struct {
	Response struct {
		Data struct {
			ClickURL string `json:"click_url"`
			ShortURL string `json:"short_url"`
		} `json:"data"`
	} `json:"response"`
}

// generateTrackingLink calls the generic affiliate API with the cleaned
// source URL and extracts the tracking link from the response.
func (c *Converter) generateTrackingLink(ctx context.Context, rawURL string, offerID int) (string, error) {
	cleaned := CleanAffiliateParams(rawURL)

	var out trackingResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"api_key":     c.apiKey,
			"Target":      "Affiliate_Offer",
			"Method":      "generateTrackingLink",
			"offer_id":    strconv.Itoa(offerID),
			"params[url]": cleaned,
		}).
		SetResult(&out).
		Get(c.apiURL)
	if err != nil {
		return "", fmt.Errorf("affiliate api request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("affiliate api returned %s", resp.Status())
	}

	tracked := out.Response.Data.ShortURL
	if tracked == "" {
		tracked = out.Response.Data.ClickURL
	}
	if tracked == "" {
		return "", fmt.Errorf("affiliate api response carries no tracking link")
	}
	return tracked, nil
}
