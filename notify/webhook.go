// Package notify relays approved decisions to a webhook endpoint.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dnldd/quorum/shared"
	"github.com/rs/zerolog"
)

const (
	// bufferSize is the default buffer size for channels.
	bufferSize = 64
	// maxBatch is the maximum number of alerts sent per webhook call.
	maxBatch = 16
	// flushInterval is the interval pending alerts are flushed at.
	flushInterval = time.Second * 10
)

// Alert represents a single decision notification.
type Alert struct {
	Market     string  `json:"market"`
	Direction  string  `json:"direction"`
	Confidence float64 `json:"confidence"`
	Quality    float64 `json:"quality"`
	Reason     string  `json:"reason"`
	CreatedOn  int64   `json:"createdon"`
}

// WebhookConfig represents the configuration for the webhook notifier.
type WebhookConfig struct {
	// URL is the webhook endpoint.
	URL string
	// MinConfidence is the minimum decision confidence to alert on.
	MinConfidence float64
	// Logger is the notifier logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *WebhookConfig) Validate() error {
	var errs error

	if cfg.URL == "" {
		errs = errors.Join(errs, fmt.Errorf("webhook url cannot be an empty string"))
	}
	if cfg.MinConfidence < 0 || cfg.MinConfidence > 1 {
		errs = errors.Join(errs, fmt.Errorf("minimum confidence must be within [0,1]: %f", cfg.MinConfidence))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("webhook logger cannot be nil"))
	}

	return errs
}

// Webhook represents the webhook notifier.
type Webhook struct {
	cfg     *WebhookConfig
	httpc   http.Client
	alerts  chan Alert
	pending []Alert
}

// NewWebhook initializes a new webhook notifier.
func NewWebhook(cfg *WebhookConfig) (*Webhook, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating webhook config: %w", err)
	}

	return &Webhook{
		cfg:     cfg,
		httpc:   http.Client{Timeout: time.Second * 5},
		alerts:  make(chan Alert, bufferSize),
		pending: make([]Alert, 0, maxBatch),
	}, nil
}

// SendAlert queues the provided decision for notification. Only approved
// buy decisions at or above the confidence cutoff are relayed.
func (w *Webhook) SendAlert(market string, decision shared.Decision) {
	if decision.Direction != shared.Buy || decision.Confidence < w.cfg.MinConfidence {
		return
	}

	alert := Alert{
		Market:     market,
		Direction:  decision.Direction.String(),
		Confidence: decision.Confidence,
		Quality:    decision.QualityScore,
		Reason:     decision.Reason,
		CreatedOn:  time.Now().Unix(),
	}

	select {
	case w.alerts <- alert:
		// do nothing.
	default:
		w.cfg.Logger.Error().Msgf("alert channel at capacity: %d/%d", len(w.alerts), bufferSize)
	}
}

// flush posts the pending alerts to the webhook endpoint.
func (w *Webhook) flush(ctx context.Context) {
	if len(w.pending) == 0 {
		return
	}

	body, err := json.Marshal(w.pending)
	if err != nil {
		w.cfg.Logger.Error().Msgf("marshaling alerts: %v", err)
		w.pending = w.pending[:0]
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.cfg.URL, bytes.NewReader(body))
	if err != nil {
		w.cfg.Logger.Error().Msgf("creating webhook request: %v", err)
		w.pending = w.pending[:0]
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpc.Do(req)
	if err != nil {
		w.cfg.Logger.Error().Msgf("posting alerts: %v", err)
		w.pending = w.pending[:0]
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		w.cfg.Logger.Error().Msgf("posting alerts: status %d", resp.StatusCode)
	}

	w.pending = w.pending[:0]
}

// Run manages the lifecycle processes of the webhook notifier.
func (w *Webhook) Run(ctx context.Context) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case alert := <-w.alerts:
			w.pending = append(w.pending, alert)
			if len(w.pending) >= maxBatch {
				w.flush(ctx)
			}
		case <-ticker.C:
			w.flush(ctx)
		case <-ctx.Done():
			w.flush(context.Background())
			return
		}
	}
}
