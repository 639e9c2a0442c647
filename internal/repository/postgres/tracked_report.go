package postgres

import (
	"context"

	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type trackedReportRepo struct {
	db *pgxpool.Pool
}

func newTrackedReportRepo(db *pgxpool.Pool) TrackedReport {
	return &trackedReportRepo{
		db: db,
	}
}

func (r *trackedReportRepo) Save(ctx context.Context, report model.TrackedReport) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO tracked_reports(tracking_id, report_id, issue_title, status, last_checked_at)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (tracking_id) DO UPDATE
		SET report_id = EXCLUDED.report_id, issue_title = EXCLUDED.issue_title, status = EXCLUDED.status, last_checked_at = EXCLUDED.last_checked_at`,
		report.TrackingID,
		report.ReportID,
		report.IssueTitle,
		report.Status,
		report.LastCheckedAt,
	)
	return err
}

func (r *trackedReportRepo) FindAll(ctx context.Context, limit int) ([]*model.TrackedReport, error) {
	maxLimit(&limit)

	rows, err := r.db.Query(
		ctx,
		`SELECT tracking_id, report_id, issue_title, status, last_checked_at
		FROM tracked_reports
		ORDER BY last_checked_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*model.TrackedReport
	for rows.Next() {
		var report model.TrackedReport
		if err := rows.Scan(
			&report.TrackingID,
			&report.ReportID,
			&report.IssueTitle,
			&report.Status,
			&report.LastCheckedAt,
		); err != nil {
			return nil, err
		}

		reports = append(reports, &report)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *trackedReportRepo) Delete(ctx context.Context, trackingID string) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM tracked_reports WHERE tracking_id = $1", trackingID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
