package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const tradesSchema = `
CREATE TABLE IF NOT EXISTS trades (
	id           BIGSERIAL PRIMARY KEY,
	signal_id    TEXT NOT NULL,
	order_id     TEXT NOT NULL,
	symbol       TEXT NOT NULL,
	side         TEXT NOT NULL,
	profile      TEXT NOT NULL,
	quantity     DOUBLE PRECISION NOT NULL,
	leverage     INTEGER NOT NULL,
	entry_price  DOUBLE PRECISION NOT NULL,
	stop_loss    DOUBLE PRECISION NOT NULL,
	take_profit  DOUBLE PRECISION NOT NULL,
	risk_amount  DOUBLE PRECISION NOT NULL,
	realized_pnl DOUBLE PRECISION NOT NULL DEFAULT 0,
	executed_at  TIMESTAMPTZ NOT NULL,
	closed_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_trades_executed_at ON trades (executed_at);
CREATE INDEX IF NOT EXISTS idx_trades_closed_at ON trades (closed_at);
`

// PostgresStore persists the trade record in Postgres.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore connects, pings and ensures the schema exists.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.Exec(tradesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure trades schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) Record(ctx context.Context, trade Trade) error {
	query := `
	INSERT INTO trades (
		signal_id, order_id, symbol, side, profile,
		quantity, leverage, entry_price, stop_loss, take_profit,
		risk_amount, realized_pnl, executed_at, closed_at
	) VALUES (
		:signal_id, :order_id, :symbol, :side, :profile,
		:quantity, :leverage, :entry_price, :stop_loss, :take_profit,
		:risk_amount, :realized_pnl, :executed_at, :closed_at
	)`

	if _, err := sqlx.NamedExecContext(ctx, s.db, query, trade); err != nil {
		return fmt.Errorf("failed to record trade: %w", err)
	}
	return nil
}

func (s *PostgresStore) RealizedPnL(ctx context.Context, day time.Time) (float64, error) {
	start, end := dayBounds(day)

	var pnl float64
	query := `SELECT COALESCE(SUM(realized_pnl), 0) FROM trades WHERE closed_at >= $1 AND closed_at < $2`
	if err := s.db.GetContext(ctx, &pnl, query, start, end); err != nil {
		return 0, fmt.Errorf("failed to sum realized pnl: %w", err)
	}
	return pnl, nil
}

func (s *PostgresStore) TradesOn(ctx context.Context, day time.Time) ([]Trade, error) {
	start, end := dayBounds(day)

	var trades []Trade
	query := `SELECT * FROM trades WHERE executed_at >= $1 AND executed_at < $2 ORDER BY executed_at`
	if err := s.db.SelectContext(ctx, &trades, query, start, end); err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}
	return trades, nil
}
