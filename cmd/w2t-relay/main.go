package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/halilibrahimsaltas/W2T-Relay/internal/browser"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/config"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/convert"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/relay"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/scrape"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/storage"
	"github.com/halilibrahimsaltas/W2T-Relay/internal/whatsapp"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Setup ---
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	log.WithFields(logrus.Fields{
		"badgerdb_path": cfg.BadgerDBPath,
		"chat_targets":  len(cfg.ChatIDs()),
		"poll_interval": cfg.PollInterval().String(),
	}).Info("Configuration loaded")

	// --- Initialize Components ---
	log.Info("Initializing components...")

	repo, err := storage.NewBadgerRepository(cfg.BadgerDBPath, log)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			log.WithError(err).Error("Error closing database")
		}
	}()

	converter := convert.NewConverter(convert.Options{
		APIBaseURL:            cfg.AffiliateAPIURL,
		APIKey:                cfg.AffiliateAPIKey,
		HepsiburadaShareURL:   cfg.HepsiburadaShareAPIURL,
		HepsiburadaCampaignID: cfg.HepsiburadaCampaignID,
	}, log)

	api, err := relay.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram bot: %v", err)
	}
	forwarder := relay.NewForwarder(api, cfg.ChatIDs(), log)

	session, err := browser.NewRodSession(cfg.WhatsAppURL, log)
	if err != nil {
		log.Fatalf("Failed to start browser session: %v", err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Error("Error closing browser session")
		}
	}()

	scraper := scrape.NewScraper(session, log)
	pipeline := relay.NewPipeline(scraper, repo, converter, forwarder, log)

	monitor := whatsapp.NewMonitor(session, pipeline, whatsapp.Options{
		SessionTimeout: cfg.SessionTimeout(),
		PollInterval:   cfg.PollInterval(),
		MessageWindow:  cfg.MessageWindow,
		MaxRowRetries:  cfg.MaxRowRetries,
		IdleChannel:    cfg.IdleChannel,
	}, log)

	// --- Application Startup ---
	log.Info("Starting W2T-Relay...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- monitor.Run(ctx)
	}()

	log.Info("W2T-Relay is running. Press Ctrl+C to exit.")

	select {
	case <-ctx.Done():
		// Wait for the monitor to observe the cancellation so no in-flight
		// tick races the closing browser and database.
		<-errCh
	case err := <-errCh:
		// A session-level failure is fatal; restarting the process is the
		// recovery path, not looping on a dead session.
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("Monitor stopped")
			stop()
			os.Exit(1)
		}
	}

	log.Info("Shutting down W2T-Relay...")
	stop()

	log.Info("W2T-Relay shut down gracefully.")
}
