package scrape

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
)

var (
	// ErrUnsupportedSite means the resolved URL belongs to no known
	// storefront. Skip with a warning, never retry.
	ErrUnsupportedSite = errors.New("unsupported storefront")

	// ErrWishlistPage means the link redirected to a non-purchasable list
	// page.
	ErrWishlistPage = errors.New("wishlist page detected")
)

const (
	pageLoadTimeout = 8 * time.Second

	// settleDelay lets the chat UI recover after a scrape tab closes.
	settleDelay = 500 * time.Millisecond
)

// Scraper dispatches product links to storefront extractors. Every scrape
// runs in a freshly opened tab so navigation cannot disturb the channel
// list in the primary page.
type Scraper struct {
	session browser.Session
	log     logrus.FieldLogger
}

func NewScraper(session browser.Session, logger logrus.FieldLogger) *Scraper {
	return &Scraper{
		session: session,
		log:     logger.WithField("component", "scraper"),
	}
}

// Scrape opens the link in an isolated tab and extracts product data.
// Failures are scoped to this link; the session is always restored to a
// single-tab state before returning.
func (s *Scraper) Scrape(ctx context.Context, link string) (info domain.ProductInfo, err error) {
	log := s.log.WithField("url", link)

	tab, err := s.session.OpenTab(link)
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("failed to open scrape tab: %w", err)
	}
	defer s.cleanup(tab)

	if err := tab.WaitLoad(pageLoadTimeout); err != nil {
		return domain.ProductInfo{}, fmt.Errorf("page load timed out for %s: %w", link, err)
	}

	// Redirects are common on shortened deal links; everything below keys
	// off the final URL, not the one the message carried.
	finalURL, err := tab.URL()
	if err != nil {
		return domain.ProductInfo{}, fmt.Errorf("failed to read resolved url: %w", err)
	}
	info.PageURL = finalURL

	if strings.Contains(finalURL, wishlistPath) {
		return domain.ProductInfo{}, fmt.Errorf("%w: %s", ErrWishlistPage, finalURL)
	}

	store, ok := Match(finalURL)
	if !ok {
		return domain.ProductInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedSite, finalURL)
	}
	log = log.WithField("store", store.Name)

	if err := s.extract(store, tab, &info); err != nil {
		return domain.ProductInfo{}, fmt.Errorf("%s extraction failed: %w", store.Name, err)
	}

	log.WithFields(logrus.Fields{
		"name":  info.Name,
		"price": info.Price,
	}).Info("Product scraped")
	return info, nil
}

// wishlistPath mirrors the link-extraction filter; a redirect can land on a
// wishlist even when the original link did not look like one.
const wishlistPath = "/hz/wishlist"

// extract waits for the storefront's landmark and reads each field through
// its fallback selectors.
func (s *Scraper) extract(store *Storefront, page browser.Page, info *domain.ProductInfo) error {
	if _, err := page.WaitElement(store.Landmark, store.LandmarkTimeout); err != nil {
		return fmt.Errorf("landmark %q not found: %w", store.Landmark, err)
	}

	info.Name = firstText(page, store.NameSelectors)
	info.Price = firstText(page, store.PriceSelectors)
	info.ImageURL = firstAttr(page, store.ImageSelectors, "src")

	if store.PostProcess != nil {
		if err := store.PostProcess(page, info); err != nil {
			s.log.WithError(err).WithField("store", store.Name).Warn("Promotion post-processing failed")
		}
	}
	return nil
}

// cleanup restores the session to a single-tab state. It must run even when
// the scrape failed, so the monitor always gets its UI back.
func (s *Scraper) cleanup(tab browser.Tab) {
	count, err := s.session.TabCount()
	if err == nil && count > 1 {
		if err := tab.Close(); err != nil {
			s.log.WithError(err).Error("Failed to close scrape tab")
		}
	}
	time.Sleep(settleDelay)
}

// firstText returns the first non-empty text among the selectors.
func firstText(page browser.Page, selectors []string) string {
	for _, sel := range selectors {
		el, err := page.Element(sel)
		if err != nil {
			continue
		}
		if text, err := el.Text(); err == nil && text != "" {
			return text
		}
	}
	return ""
}

// firstAttr returns the first non-empty attribute value among the selectors.
func firstAttr(page browser.Page, selectors []string, name string) string {
	for _, sel := range selectors {
		el, err := page.Element(sel)
		if err != nil {
			continue
		}
		if val, err := el.Attribute(name); err == nil && val != "" {
			return val
		}
	}
	return ""
}
