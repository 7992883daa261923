package relay

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/domain"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/scrape"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/storage"
)

// ProductScraper extracts product data from a link.
type ProductScraper interface {
	Scrape(ctx context.Context, link string) (domain.ProductInfo, error)
}

// LinkConverter produces an affiliate-tracked URL, or the input unchanged.
type LinkConverter interface {
	Convert(ctx context.Context, url string) string
}

// MessageSender delivers a formatted message.
type MessageSender interface {
	Forward(ctx context.Context, msg Message)
}

// Pipeline processes one extracted link to completion: scrape, validate,
// dedup, persist, convert, format, forward. Failures never escape a link.
type Pipeline struct {
	scraper   ProductScraper
	repo      storage.Repository
	converter LinkConverter
	sender    MessageSender
	log       logrus.FieldLogger
}

func NewPipeline(scraper ProductScraper, repo storage.Repository, converter LinkConverter, sender MessageSender, logger logrus.FieldLogger) *Pipeline {
	return &Pipeline{
		scraper:   scraper,
		repo:      repo,
		converter: converter,
		sender:    sender,
		log:       logger.WithField("component", "pipeline"),
	}
}

// HandleLink runs the full pipeline for a single link.
func (p *Pipeline) HandleLink(ctx context.Context, link, sender, rawText string) {
	log := p.log.WithField("url", link)

	info, err := p.scraper.Scrape(ctx, link)
	if err != nil {
		if errors.Is(err, scrape.ErrUnsupportedSite) || errors.Is(err, scrape.ErrWishlistPage) {
			log.WithError(err).Warn("Skipping link")
		} else {
			log.WithError(err).Error("Scrape failed")
		}
		return
	}

	if !info.IsValid() {
		log.WithField("name", info.Name).Warn("Invalid product info, skipping")
		return
	}

	existing, err := p.repo.FindByProductName(ctx, info.Name)
	if err != nil {
		// Best-effort dedup: a broken lookup must not suppress a deal.
		log.WithError(err).Error("Dedup lookup failed, treating product as new")
	}
	if existing != nil {
		log.WithField("name", info.Name).Info("Product already recorded, not forwarding")
		return
	}

	record := domain.MessageRecord{
		RawContent: rawText,
		Sender:     sender,
		Product:    info,
		CreatedAt:  time.Now(),
	}
	if err := p.repo.Save(ctx, record); err != nil {
		log.WithError(err).Error("Failed to persist record")
		return
	}

	tracked := p.converter.Convert(ctx, info.PageURL)
	p.sender.Forward(ctx, BuildMessage(info, tracked))
	log.WithField("name", info.Name).Info("Product forwarded")
}
