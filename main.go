package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/dnldd/quorum/consensus"
	"github.com/dnldd/quorum/database"
	"github.com/dnldd/quorum/fetch"
	"github.com/dnldd/quorum/notify"
	"github.com/dnldd/quorum/service"
	zlog "github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Printf("loading config: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fmp, err := fetch.NewFMPClient(&fetch.FMPConfig{APIKey: cfg.FMPAPIKey, BaseURL: fetch.BaseURL})
	if err != nil {
		log.Printf("creating fmp client: %v", err)
		return
	}

	var storer database.SignalStorer
	if cfg.DatabaseEndpoint != "" {
		dbLogger := zlog.With().Str("component", "database").Logger()
		db, err := database.NewDatabase(ctx, &database.DatabaseConfig{
			Endpoint: cfg.DatabaseEndpoint,
			User:     cfg.DatabaseUser,
			Pass:     cfg.DatabasePass,
			Logger:   &dbLogger,
		})
		if err != nil {
			log.Printf("creating database: %v", err)
			return
		}

		storer = db
	}

	var notifier *notify.Webhook
	if cfg.WebhookURL != "" {
		notifyLogger := zlog.With().Str("component", "notify").Logger()
		notifier, err = notify.NewWebhook(&notify.WebhookConfig{
			URL:           cfg.WebhookURL,
			MinConfidence: consensus.DefaultConfig().FinalConfidenceFloor,
			Logger:        &notifyLogger,
		})
		if err != nil {
			log.Printf("creating webhook notifier: %v", err)
			return
		}
	}

	quorumCfg := service.QuorumConfig{
		Markets:     cfg.Markets,
		HistoryDays: cfg.HistoryDays,
		Fetcher:     fmp,
		Storer:      storer,
		Notifier:    notifier,
		Consensus:   consensus.DefaultConfig(),
		Cancel:      cancel,
	}
	quorum, err := service.NewQuorum(&quorumCfg)
	if err != nil {
		log.Printf("creating quorum service: %v", err)
		return
	}

	go handleTermination(ctx, cancel)
	quorum.Run(ctx)
}
