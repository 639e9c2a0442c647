package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/repository"
	"github.com/ReportMitra/citizen-client/internal/repository/redisrepo"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type reportService struct {
	logger     *zap.Logger
	repo       *repository.Repository
	api        *apiclient.Client
	presignTTL time.Duration
}

func newReportService(logger *zap.Logger, repo *repository.Repository, api *apiclient.Client, presignTTL time.Duration) Report {
	return &reportService{
		logger:     logger,
		repo:       repo,
		api:        api,
		presignTTL: presignTTL,
	}
}

func (s *reportService) Create(ctx context.Context, input dto.CreateReportRequest) (*model.Report, error) {
	var report model.Report
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/reports/",
		Body:   input,
		Auth:   apiclient.AuthRequired,
	}, &report)
	if err != nil {
		return nil, err
	}

	return &report, nil
}

func (s *reportService) PresignUpload(ctx context.Context, filename string, contentType string) (*dto.PresignUploadResponse, error) {
	var resp dto.PresignUploadResponse
	err := s.api.Do(ctx, apiclient.Request{
		Path: "/reports/s3/presign/",
		Query: url.Values{
			"filename":     {filename},
			"content_type": {contentType},
		},
		Auth: apiclient.AuthRequired,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.URL == "" {
		return nil, apiclient.ErrMalformedBody
	}

	return &resp, nil
}

// Track looks a report up by its public tracking id and remembers it.
func (s *reportService) Track(ctx context.Context, trackingID string) (*model.Report, error) {
	trackingID = strings.TrimSpace(trackingID)
	if trackingID == "" {
		return nil, ErrTrackingIDRequired
	}

	var report model.Report
	err := s.api.Do(ctx, apiclient.Request{
		Path:       "/track/detail/" + url.PathEscape(trackingID) + "/",
		FromOrigin: true,
		Auth:       apiclient.AuthNone,
	}, &report)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	tracked := model.TrackedReport{
		TrackingID:    trackingID,
		ReportID:      report.ID,
		IssueTitle:    report.IssueTitle,
		Status:        report.Status,
		LastCheckedAt: time.Now().UTC(),
	}
	if err := s.repo.TrackedReport.Save(ctx, tracked); err != nil {
		s.logger.Sugar().Errorf("failed to save tracked report(%s): %s", trackingID, err.Error())
	}

	return &report, nil
}

func (s *reportService) Tracked(ctx context.Context, limit int) ([]*model.TrackedReport, error) {
	reports, err := s.repo.TrackedReport.FindAll(ctx, limit)
	if err != nil {
		s.logger.Sugar().Errorf("failed to list tracked reports: %s", err.Error())
		return nil, ErrInternal
	}

	return reports, nil
}

func (s *reportService) Untrack(ctx context.Context, trackingID string) error {
	if err := s.repo.TrackedReport.Delete(ctx, strings.TrimSpace(trackingID)); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReportNotFound
		}
		s.logger.Sugar().Errorf("failed to delete tracked report(%s): %s", trackingID, err.Error())
		return ErrInternal
	}

	return nil
}

func (s *reportService) History(ctx context.Context) ([]*model.Report, error) {
	var reports []*model.Report
	if err := s.api.Do(ctx, apiclient.Request{Path: "/reports/history/", Auth: apiclient.AuthRequired}, &reports); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []*model.Report{}
	}

	return reports, nil
}

func (s *reportService) Appeal(ctx context.Context, reportID int64) error {
	var resp dto.AppealResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/reports/%d/appeal/", reportID),
		Auth:   apiclient.AuthRequired,
	}, &resp)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return ErrReportNotFound
		}
		return err
	}

	return nil
}

// Images returns presigned before/after URLs, cached in redis until shortly
// before the backend's signature expires.
func (s *reportService) Images(ctx context.Context, reportID int64) (*dto.PresignedImages, error) {
	key := redisrepo.PresignedGetKey(reportID)

	cached, err := redisrepo.Get[dto.PresignedImages](s.repo.Redis.Default, ctx, key)
	if err == nil && cached != nil {
		return cached, nil
	}
	if err != nil && err != redis.Nil {
		s.logger.Sugar().Errorf("failed to get presigned images of report(%d) from redis: %s", reportID, err.Error())
	}

	var images dto.PresignedImages
	err = s.api.Do(ctx, apiclient.Request{
		Path: fmt.Sprintf("/reports/%d/presign-get/", reportID),
		Auth: apiclient.AuthNone,
	}, &images)
	if err != nil {
		if apiclient.IsNotFound(err) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	if s.presignTTL > 0 {
		if err := s.repo.Redis.SetJSON(ctx, key, images, s.presignTTL); err != nil {
			s.logger.Sugar().Errorf("failed to cache presigned images of report(%d): %s", reportID, err.Error())
		}
	}

	return &images, nil
}
