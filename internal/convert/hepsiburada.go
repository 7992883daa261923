package convert

import (
	"context"
	"fmt"
)

// Device identity the Hepsiburada share API expects on every request.
var hepsiburadaHeaders = map[string]string{
	"content-type":  "application/json; charset=UTF-8",
	"x-app-type":    "wallet",
	"x-platform":    "android",
	"x-app-version": "5.36.0",
	"x-os-version":  "13",
	"x-device-type": "phone",
	"x-language":    "tr",
}

type shareRequest struct {
	WebURL string `json:"webUrl"`
	Title  string `json:"title"`
}

type shareResponse struct {
	Status string `json:"status"`
	Result struct {
		ShareURL string `json:"shareUrl"`
	} `json:"result"`
}

// convertHepsiburada requests a share link for the product URL. The campaign
// token rides in the title field, which is how the mobile app attributes the
// share. Falls back to the original URL on any failure.
func (c *Converter) convertHepsiburada(ctx context.Context, rawURL string) string {
	shared, err := c.requestShareLink(ctx, rawURL)
	if err != nil {
		c.log.WithError(err).WithField("url", rawURL).Warn("Hepsiburada share conversion failed, keeping original url")
		return rawURL
	}
	return shared
}

func (c *Converter) requestShareLink(ctx context.Context, rawURL string) (string, error) {
	if c.hbShareURL == "" {
		return "", fmt.Errorf("hepsiburada share api url not configured")
	}

	var out shareResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetHeaders(hepsiburadaHeaders).
		SetBody(shareRequest{WebURL: rawURL, Title: c.hbCampaignID}).
		SetResult(&out).
		Post(c.hbShareURL + "/share-url")
	if err != nil {
		return "", fmt.Errorf("share api request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("share api returned %s", resp.Status())
	}
	if out.Result.ShareURL == "" {
		return "", fmt.Errorf("share api response carries no share url")
	}
	return out.Result.ShareURL, nil
}
