package database

import (
	"context"
	"fmt"
	"time"

	"arbscout/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createTradesTableSQL = `
CREATE TABLE IF NOT EXISTS simulated_trades (
	id SERIAL PRIMARY KEY,
	trade_id VARCHAR(80) NOT NULL UNIQUE,
	executed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	symbol VARCHAR(20) NOT NULL,
	success BOOLEAN NOT NULL,
	dry_run BOOLEAN NOT NULL,
	slippage_percent DOUBLE PRECISION NOT NULL,
	buy_exchange VARCHAR(50) NOT NULL,
	buy_amount DOUBLE PRECISION NOT NULL,
	buy_price DOUBLE PRECISION NOT NULL,
	buy_fee DOUBLE PRECISION NOT NULL,
	sell_exchange VARCHAR(50) NOT NULL,
	sell_amount DOUBLE PRECISION NOT NULL,
	sell_price DOUBLE PRECISION NOT NULL,
	sell_fee DOUBLE PRECISION NOT NULL,
	actual_profit NUMERIC(20, 2) NOT NULL,
	message TEXT NOT NULL
);`

// PostgresRepository stores the trade ledger in PostgreSQL.
type PostgresRepository struct {
	Pool *pgxpool.Pool
}

// NewPostgresRepository connects to dsn.
func NewPostgresRepository(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresRepository{Pool: pool}, nil
}

// Migrate creates the ledger table when missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	if _, err := r.Pool.Exec(ctx, createTradesTableSQL); err != nil {
		return fmt.Errorf("migrate simulated_trades: %w", err)
	}
	return nil
}

// Close releases the pool.
func (r *PostgresRepository) Close() {
	r.Pool.Close()
}

func (r *PostgresRepository) LogTrade(ctx context.Context, fill model.TradeFill) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO simulated_trades (
			trade_id, executed_at, symbol, success, dry_run, slippage_percent,
			buy_exchange, buy_amount, buy_price, buy_fee,
			sell_exchange, sell_amount, sell_price, sell_fee,
			actual_profit, message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		fill.TradeID, fill.ExecutedAt, fill.Symbol, fill.Success, fill.DryRun, fill.SlippagePercent,
		fill.BuyLeg.Exchange, fill.BuyLeg.Amount, fill.BuyLeg.Price, fill.BuyLeg.Fee,
		fill.SellLeg.Exchange, fill.SellLeg.Amount, fill.SellLeg.Price, fill.SellLeg.Fee,
		fill.ActualProfit, fill.Message,
	)
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", fill.TradeID, err)
	}
	return nil
}

func (r *PostgresRepository) ListTrades(ctx context.Context, since time.Time) ([]model.TradeFill, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT trade_id, executed_at, symbol, success, dry_run, slippage_percent,
			buy_exchange, buy_amount, buy_price, buy_fee,
			sell_exchange, sell_amount, sell_price, sell_fee,
			actual_profit::float8, message
		FROM simulated_trades
		WHERE executed_at >= $1
		ORDER BY executed_at, id`, since)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.TradeFill
	for rows.Next() {
		var f model.TradeFill
		if err := rows.Scan(
			&f.TradeID, &f.ExecutedAt, &f.Symbol, &f.Success, &f.DryRun, &f.SlippagePercent,
			&f.BuyLeg.Exchange, &f.BuyLeg.Amount, &f.BuyLeg.Price, &f.BuyLeg.Fee,
			&f.SellLeg.Exchange, &f.SellLeg.Amount, &f.SellLeg.Price, &f.SellLeg.Fee,
			&f.ActualProfit, &f.Message,
		); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		trades = append(trades, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}
