package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dnldd/quorum/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog"
)

func TestWebhookConfigValidate(t *testing.T) {
	logger := zerolog.Nop()

	// Ensure a complete config is valid.
	cfg := &WebhookConfig{URL: "http://hook", MinConfidence: 0.55, Logger: &logger}
	assert.NoError(t, cfg.Validate())

	// Ensure missing or out of range inputs are rejected.
	cfg = &WebhookConfig{MinConfidence: 0.55, Logger: &logger}
	assert.Error(t, cfg.Validate())

	cfg = &WebhookConfig{URL: "http://hook", MinConfidence: 1.5, Logger: &logger}
	assert.Error(t, cfg.Validate())

	cfg = &WebhookConfig{URL: "http://hook", MinConfidence: 0.55}
	assert.Error(t, cfg.Validate())
}

func TestSendAlertFilters(t *testing.T) {
	logger := zerolog.Nop()
	cfg := &WebhookConfig{URL: "http://hook", MinConfidence: 0.55, Logger: &logger}
	webhook, err := NewWebhook(cfg)
	assert.NoError(t, err)

	// Ensure hold decisions are never queued.
	webhook.SendAlert("^GSPC", shared.Decision{Direction: shared.Hold, Confidence: 0.9})
	assert.Equal(t, len(webhook.alerts), 0)

	// Ensure decisions below the confidence cutoff are skipped.
	webhook.SendAlert("^GSPC", shared.Decision{Direction: shared.Buy, Confidence: 0.4})
	assert.Equal(t, len(webhook.alerts), 0)

	// Ensure sell decisions are never relayed, the contract covers buys only.
	webhook.SendAlert("^GSPC", shared.Decision{Direction: shared.Sell, Confidence: 0.9})
	assert.Equal(t, len(webhook.alerts), 0)

	// Ensure a qualifying decision is queued.
	webhook.SendAlert("^GSPC", shared.Decision{Direction: shared.Buy, Confidence: 0.8, QualityScore: 0.75})
	assert.Equal(t, len(webhook.alerts), 1)
}

func TestWebhookFlush(t *testing.T) {
	var got []Alert
	svr := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &got))
	}))
	defer svr.Close()

	logger := zerolog.Nop()
	cfg := &WebhookConfig{URL: svr.URL, MinConfidence: 0.55, Logger: &logger}
	webhook, err := NewWebhook(cfg)
	assert.NoError(t, err)

	// Ensure flushing with nothing pending posts nothing.
	webhook.flush(context.Background())
	assert.Equal(t, len(got), 0)

	webhook.SendAlert("^GSPC", shared.Decision{
		Direction:    shared.Buy,
		Confidence:   0.8,
		QualityScore: 0.75,
		Reason:       "4 strategies agree on buy with 0.80 confidence",
	})
	webhook.pending = append(webhook.pending, <-webhook.alerts)

	// Ensure pending alerts are posted as a json batch and cleared.
	webhook.flush(context.Background())
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Market, "^GSPC")
	assert.Equal(t, got[0].Direction, "buy")
	assert.Equal(t, got[0].Confidence, 0.8)
	assert.Equal(t, got[0].Quality, 0.75)
	assert.Equal(t, len(webhook.pending), 0)
}
