package scrape

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func amazonTab(finalURL string) *fakeTab {
	return &fakeTab{
		url: finalURL,
		elements: map[string]*fakeElement{
			"#productTitle, #promotionTitle span.a-size-extra-large.a-text-bold": {},
			"#productTitle":                 {text: "Philips Airfryer XXL"},
			"span.a-price-whole":            {text: "4.299,00"},
			"img#landingImage.a-dynamic-image": {attrs: map[string]string{"src": "https://img.example/air.jpg"}},
		},
	}
}

func TestScraper_Scrape(t *testing.T) {
	tab := amazonTab("https://www.amazon.com.tr/dp/XYZ")
	session := &fakeSession{tab: tab}
	s := NewScraper(session, testLogger())

	info, err := s.Scrape(context.Background(), "https://amzn.eu/d/short")
	require.NoError(t, err)

	assert.Equal(t, "Philips Airfryer XXL", info.Name)
	assert.Equal(t, "4.299,00", info.Price)
	assert.Equal(t, "https://img.example/air.jpg", info.ImageURL)
	assert.Equal(t, "https://www.amazon.com.tr/dp/XYZ", info.PageURL, "resolved url wins over the original link")
	assert.True(t, tab.closed, "scrape tab must be closed afterwards")
}

func TestScraper_WishlistRedirectRejected(t *testing.T) {
	tab := &fakeTab{url: "https://www.amazon.com.tr/hz/wishlist/ls/ABC"}
	s := NewScraper(&fakeSession{tab: tab}, testLogger())

	_, err := s.Scrape(context.Background(), "https://amzn.eu/d/short")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWishlistPage)
	assert.True(t, tab.closed, "cleanup must run on failure too")
}

func TestScraper_UnsupportedSiteRejected(t *testing.T) {
	tab := &fakeTab{url: "https://www.example.com/product/1"}
	s := NewScraper(&fakeSession{tab: tab}, testLogger())

	_, err := s.Scrape(context.Background(), "https://www.example.com/product/1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedSite)
	assert.True(t, tab.closed)
}

func TestScraper_LoadTimeoutIsScrapeFailure(t *testing.T) {
	tab := &fakeTab{url: "https://www.trendyol.com/p/42", loadErr: errors.New("context deadline exceeded")}
	s := NewScraper(&fakeSession{tab: tab}, testLogger())

	_, err := s.Scrape(context.Background(), "https://www.trendyol.com/p/42")
	require.Error(t, err)
	assert.ErrorContains(t, err, "timed out")
	assert.True(t, tab.closed)
}

func TestScraper_MissingLandmarkFailsLinkOnly(t *testing.T) {
	// Supported site, but the page never rendered its landmark.
	tab := &fakeTab{url: "https://www.trendyol.com/p/42", elements: map[string]*fakeElement{}}
	s := NewScraper(&fakeSession{tab: tab}, testLogger())

	_, err := s.Scrape(context.Background(), "https://www.trendyol.com/p/42")
	require.Error(t, err)
	assert.ErrorContains(t, err, "landmark")
}
