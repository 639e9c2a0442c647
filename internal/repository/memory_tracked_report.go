package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/repository/postgres"
	"github.com/jackc/pgx/v5"
)

type memoryTrackedReportRepo struct {
	mu      sync.RWMutex
	reports map[string]model.TrackedReport
}

func newMemoryTrackedReportRepo() postgres.TrackedReport {
	return &memoryTrackedReportRepo{
		reports: make(map[string]model.TrackedReport),
	}
}

func (r *memoryTrackedReportRepo) Save(ctx context.Context, report model.TrackedReport) error {
	r.mu.Lock()
	r.reports[report.TrackingID] = report
	r.mu.Unlock()
	return nil
}

func (r *memoryTrackedReportRepo) FindAll(ctx context.Context, limit int) ([]*model.TrackedReport, error) {
	r.mu.RLock()
	reports := make([]*model.TrackedReport, 0, len(r.reports))
	for _, report := range r.reports {
		report := report
		reports = append(reports, &report)
	}
	r.mu.RUnlock()

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].LastCheckedAt.After(reports[j].LastCheckedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

func (r *memoryTrackedReportRepo) Delete(ctx context.Context, trackingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.reports[trackingID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.reports, trackingID)
	return nil
}
