// Package database persists evaluation signals to rqlite.
package database

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/quorum/shared"
	"github.com/google/uuid"
	rqlitehttp "github.com/rqlite/rqlite-go-http"
	"github.com/rs/zerolog"
)

const (
	// SQL statements.
	createSignalTableSQL = "CREATE TABLE IF NOT EXISTS signal (id TEXT PRIMARY KEY, market TEXT, createdon INTEGER, category TEXT, direction INTEGER, detail TEXT)"
	persistSignalSQL     = "INSERT INTO signal(id, market, createdon, category, direction, detail) VALUES(?,?,?,?,?,?)"
	findSignalsSQL       = "SELECT id, market, createdon, category, direction, detail FROM signal WHERE market = ? ORDER BY createdon DESC LIMIT ?"
)

// SignalStorer defines the requirements for storing evaluation signals.
type SignalStorer interface {
	// PersistSignal stores the provided signal record to the database.
	PersistSignal(ctx context.Context, record *shared.SignalRecord) error
}

// DatabaseConfig is the configuration for the database.
type DatabaseConfig struct {
	// Endpoint represents the database connection endpoint.
	Endpoint string
	// User is the database user.
	User string
	// Pass is the database user pass.
	Pass string
	// Logger is the database logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *DatabaseConfig) Validate() error {
	var errs error

	if cfg.Endpoint == "" {
		errs = errors.Join(errs, fmt.Errorf("database endpoint cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("database logger cannot be nil"))
	}

	return errs
}

// Database represents the database connection.
type Database struct {
	cfg    *DatabaseConfig
	client *rqlitehttp.Client
}

// Ensure the database implements the SignalStorer interface.
var _ SignalStorer = (*Database)(nil)

// NewDatabase initializes a new database connection.
func NewDatabase(ctx context.Context, cfg *DatabaseConfig) (*Database, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating database config: %w", err)
	}

	httpc := &http.Client{Timeout: time.Second * 5}
	client, err := rqlitehttp.NewClient(cfg.Endpoint, httpc)
	if err != nil {
		return nil, fmt.Errorf("creating database client: %w", err)
	}

	client.SetBasicAuth(cfg.User, cfg.Pass)

	db := &Database{
		cfg:    cfg,
		client: client,
	}

	err = db.bootstrap(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping database: %w", err)
	}

	return db, nil
}

// bootstrap initializes the database.
func (db *Database) bootstrap(ctx context.Context) error {
	_, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{SQL: createSignalTableSQL},
	}, &rqlitehttp.ExecuteOptions{
		Transaction: true,
		Timings:     true,
	})
	if err != nil {
		return err
	}

	return nil
}

// PersistSignal stores the provided signal record to the database.
func (db *Database) PersistSignal(ctx context.Context, record *shared.SignalRecord) error {
	if record.Market == "" || record.Category == "" {
		db.cfg.Logger.Error().Msgf("unexpected signal record state: %s", spew.Sdump(record))
		return fmt.Errorf("signal record missing market or category")
	}

	resp, err := db.client.Execute(ctx, rqlitehttp.SQLStatements{
		{
			SQL: persistSignalSQL,
			PositionalParams: []any{uuid.NewString(), record.Market, record.CreatedOn.Unix(),
				record.Category, int(record.Direction), record.Detail},
		},
	}, &rqlitehttp.ExecuteOptions{Transaction: true, Timings: true})
	if err != nil {
		return err
	}

	has, idx, errStr := resp.HasError()
	if has {
		return fmt.Errorf("persisting signal for %s: %d -> %s", record.Market, idx, errStr)
	}

	return nil
}

// FetchRecentSignals fetches the most recent persisted signals for the
// provided market.
func (db *Database) FetchRecentSignals(ctx context.Context, market string, limit int) ([]shared.SignalRecord, error) {
	resp, err := db.client.QuerySingle(ctx, findSignalsSQL, market, limit)
	if err != nil {
		return nil, err
	}

	rows := resp.GetQueryResultsAssoc()
	records := make([]shared.SignalRecord, 0, len(rows))
	for idx := range rows {
		for _, row := range rows[idx].Rows {
			record := shared.SignalRecord{
				Market:   fmt.Sprint(row["market"]),
				Category: fmt.Sprint(row["category"]),
				Detail:   fmt.Sprint(row["detail"]),
			}

			if createdOn, ok := row["createdon"].(float64); ok {
				record.CreatedOn = time.Unix(int64(createdOn), 0)
			}
			if direction, ok := row["direction"].(float64); ok {
				record.Direction = shared.Direction(int(direction))
			}

			records = append(records, record)
		}
	}

	return records, nil
}
