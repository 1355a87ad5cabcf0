package service

import (
	"context"
	"testing"
	"time"

	"github.com/dnldd/quorum/consensus"
	"github.com/dnldd/quorum/shared"
	"github.com/peterldowns/testy/assert"
)

// stubFetcher serves a synthetic uptrend for any market.
type stubFetcher struct {
	bars int
}

func (f *stubFetcher) FetchDailyHistorical(ctx context.Context, market string, start time.Time, end time.Time) ([]shared.Candlestick, error) {
	candles := make([]shared.Candlestick, f.bars)
	for idx := range candles {
		close := 100 + float64(idx)*0.5
		candles[idx] = shared.Candlestick{
			Market: market,
			Date:   start.AddDate(0, 0, idx),
			Open:   close - 0.5,
			High:   close + 0.1,
			Low:    close - 0.7,
			Close:  close,
			Volume: 1000 + float64(idx),
		}
	}

	return candles, nil
}

// stubStorer records persisted signals.
type stubStorer struct {
	records chan shared.SignalRecord
}

func (s *stubStorer) PersistSignal(ctx context.Context, record *shared.SignalRecord) error {
	s.records <- *record
	return nil
}

func TestQuorumConfigValidate(t *testing.T) {
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &QuorumConfig{
		Markets:     []string{"^GSPC"},
		HistoryDays: 400,
		Fetcher:     &stubFetcher{bars: 250},
		Consensus:   consensus.DefaultConfig(),
		Cancel:      cancel,
	}
	assert.NoError(t, cfg.Validate())

	// Ensure missing collaborators are rejected.
	cfg.Fetcher = nil
	assert.Error(t, cfg.Validate())

	cfg.Fetcher = &stubFetcher{bars: 250}
	cfg.Markets = nil
	assert.Error(t, cfg.Validate())

	cfg.Markets = []string{"^GSPC"}
	cfg.HistoryDays = 0
	assert.Error(t, cfg.Validate())
}

func TestQuorumEvaluatesOnStartup(t *testing.T) {
	market := "^GSPC"
	storer := &stubStorer{records: make(chan shared.SignalRecord, 4)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := &QuorumConfig{
		Markets:     []string{market},
		HistoryDays: 400,
		Fetcher:     &stubFetcher{bars: 250},
		Storer:      storer,
		Consensus:   consensus.DefaultConfig(),
		Cancel:      cancel,
	}

	quorum, err := NewQuorum(cfg)
	assert.NoError(t, err)

	done := make(chan struct{})
	go func() {
		quorum.Run(ctx)
		close(done)
	}()

	// Ensure the startup evaluation persists a consensus decision.
	var record shared.SignalRecord
	select {
	case record = <-storer.records:
	case <-time.After(time.Second * 5):
		t.Fatal("timed out waiting for a persisted signal")
	}

	assert.Equal(t, record.Market, market)
	assert.Equal(t, record.Category, "consensus")
	assert.Equal(t, record.Direction, shared.Buy)
	assert.NotEqual(t, record.Detail, "")

	// Ensure the service can be gracefully terminated.
	cancel()
	<-done
}
