package service

import (
	"context"
	"errors"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"go.uber.org/zap"
)

type HealthStatus string

const (
	HealthUp   HealthStatus = "up"
	HealthDown HealthStatus = "down"
)

type healthService struct {
	logger  *zap.Logger
	api     *apiclient.Client
	timeout time.Duration
}

func newHealthService(logger *zap.Logger, api *apiclient.Client, timeout time.Duration) Health {
	return &healthService{
		logger:  logger,
		api:     api,
		timeout: timeout,
	}
}

// Check probes the backend. Any answer below 500 counts as up.
func (s *healthService) Check(ctx context.Context) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.api.Do(ctx, apiclient.Request{Path: "/health", Auth: apiclient.AuthNone}, nil)
	if err == nil {
		return HealthUp
	}

	if errors.Is(err, apiclient.ErrServer) || errors.Is(err, apiclient.ErrNetwork) {
		s.logger.Sugar().Warnf("backend health check failed: %s", err.Error())
		return HealthDown
	}
	return HealthUp
}
