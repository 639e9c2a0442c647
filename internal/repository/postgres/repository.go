package postgres

import (
	"context"

	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

const MAX_LIMIT = 50

func maxLimit(limit *int) {
	if *limit <= 0 || *limit > MAX_LIMIT {
		*limit = MAX_LIMIT
	}
}

type TrackedReport interface {
	Save(ctx context.Context, report model.TrackedReport) error
	FindAll(ctx context.Context, limit int) ([]*model.TrackedReport, error)
	Delete(ctx context.Context, trackingID string) error
}

type PostgresRepository struct {
	TrackedReport
}

func New(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		TrackedReport: newTrackedReportRepo(db),
	}
}
