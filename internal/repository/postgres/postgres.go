package postgres

import (
	"context"
	"fmt"

	"github.com/ReportMitra/citizen-client/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

func DB(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Username,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.SSLMode,
	)

	return pgxpool.New(ctx, dsn)
}

const trackedReportsSchema = `CREATE TABLE IF NOT EXISTS tracked_reports(
	tracking_id VARCHAR(16) PRIMARY KEY,
	report_id BIGINT NOT NULL,
	issue_title TEXT NOT NULL,
	status VARCHAR(20) NOT NULL,
	last_checked_at TIMESTAMPTZ NOT NULL
)`

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, trackedReportsSchema)
	return err
}
