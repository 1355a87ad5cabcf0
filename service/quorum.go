// Package service runs scheduled evaluation cycles across the tracked
// markets, persisting and relaying the resulting decisions.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dnldd/quorum/consensus"
	"github.com/dnldd/quorum/database"
	"github.com/dnldd/quorum/fetch"
	"github.com/dnldd/quorum/notify"
	"github.com/dnldd/quorum/shared"
	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	// bufferSize is the default buffer size for channels.
	bufferSize = 64
	// maxWorkers is the maximum number of concurrent market evaluations.
	maxWorkers = 8
	// evaluationTime is the daily evaluation schedule, after the close.
	evaluationTime = "22:30"
	// consensusCategory labels persisted consensus decisions.
	consensusCategory = "consensus"
)

// QuorumConfig represents the configuration struct for the quorum service.
type QuorumConfig struct {
	// Markets represents the tracked markets.
	Markets []string
	// HistoryDays is the candlestick history span fetched per evaluation.
	HistoryDays int
	// Fetcher is the market data fetcher.
	Fetcher fetch.MarketFetcher
	// Storer is the signal persistence collaborator, nil disables persistence.
	Storer database.SignalStorer
	// Notifier is the decision notifier, nil disables notifications.
	Notifier *notify.Webhook
	// Consensus parameterizes the consensus engine.
	Consensus consensus.Config
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *QuorumConfig) Validate() error {
	var errs error

	if len(cfg.Markets) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no markets provided for quorum service"))
	}
	if cfg.HistoryDays <= 0 {
		errs = errors.Join(errs, fmt.Errorf("history days must be positive: %d", cfg.HistoryDays))
	}
	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("market fetcher cannot be nil"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Quorum represents the consensus evaluation service.
type Quorum struct {
	cfg          *QuorumConfig
	engine       *consensus.Engine
	jobScheduler *gocron.Scheduler
	evalSignals  chan string
	workers      chan struct{}
	logger       *zerolog.Logger
}

// NewQuorum initializes a new quorum service.
func NewQuorum(cfg *QuorumConfig) (*Quorum, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating quorum config: %w", err)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	logger := log.With().Str("service", "quorum").Logger()

	engineLogger := logger.With().Str("component", "consensus").Logger()
	cfg.Consensus.Logger = engineLogger

	engine, err := consensus.NewEngine(&cfg.Consensus)
	if err != nil {
		return nil, fmt.Errorf("creating consensus engine: %w", err)
	}

	return &Quorum{
		cfg:          cfg,
		engine:       engine,
		jobScheduler: gocron.NewScheduler(time.UTC),
		evalSignals:  make(chan string, bufferSize),
		workers:      make(chan struct{}, maxWorkers),
		logger:       &logger,
	}, nil
}

// SendEvaluationSignal queues the provided market for evaluation.
func (q *Quorum) SendEvaluationSignal(market string) {
	select {
	case q.evalSignals <- market:
		// do nothing.
	default:
		q.logger.Error().Msgf("evaluation signal channel at capacity: %d/%d",
			len(q.evalSignals), bufferSize)
	}
}

// handleEvaluationSignal runs one evaluation cycle for the provided market.
func (q *Quorum) handleEvaluationSignal(ctx context.Context, market string) {
	now := time.Now().UTC()
	start := now.AddDate(0, 0, -q.cfg.HistoryDays)

	candles, err := q.cfg.Fetcher.FetchDailyHistorical(ctx, market, start, now)
	if err != nil {
		q.logger.Error().Msgf("fetching candlesticks for %s: %v", market, err)
		return
	}

	if len(candles) == 0 {
		q.logger.Error().Msgf("no candlesticks fetched for %s", market)
		return
	}

	outcome, err := q.engine.Evaluate(candles)
	if err != nil {
		q.logger.Error().Msgf("evaluating %s: %v", market, err)
		return
	}

	q.logger.Info().Str("market", market).
		Str("direction", outcome.Decision.Direction.String()).
		Float64("confidence", outcome.Decision.Confidence).
		Msgf("evaluated %s", market)

	if q.cfg.Storer != nil {
		record := shared.SignalRecord{
			Market:    market,
			CreatedOn: now,
			Category:  consensusCategory,
			Direction: outcome.Decision.Direction,
			Detail:    outcome.Decision.Reason,
		}

		err = q.cfg.Storer.PersistSignal(ctx, &record)
		if err != nil {
			q.logger.Error().Msgf("persisting signal for %s: %v", market, err)
		}
	}

	if q.cfg.Notifier != nil {
		q.cfg.Notifier.SendAlert(market, outcome.Decision)
	}
}

// scheduleEvaluations registers the daily evaluation job for the tracked
// markets.
func (q *Quorum) scheduleEvaluations() error {
	_, err := q.jobScheduler.Every(1).Day().At(evaluationTime).Do(func() {
		for idx := range q.cfg.Markets {
			q.SendEvaluationSignal(q.cfg.Markets[idx])
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling daily evaluations: %w", err)
	}

	return nil
}

// Run manages the lifecycle processes of the quorum service.
func (q *Quorum) Run(ctx context.Context) {
	err := q.scheduleEvaluations()
	if err != nil {
		q.logger.Error().Msgf("scheduling evaluations: %v", err)
		q.cfg.Cancel()
		return
	}

	q.jobScheduler.StartAsync()

	if q.cfg.Notifier != nil {
		go q.cfg.Notifier.Run(ctx)
	}

	// Evaluate every tracked market once on startup.
	for idx := range q.cfg.Markets {
		q.SendEvaluationSignal(q.cfg.Markets[idx])
	}

	for {
		select {
		case market := <-q.evalSignals:
			q.workers <- struct{}{}
			go func(market string) {
				q.handleEvaluationSignal(ctx, market)
				<-q.workers
			}(market)
		case <-ctx.Done():
			q.jobScheduler.Stop()
			return
		}
	}
}
