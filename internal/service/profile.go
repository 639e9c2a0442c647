package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"go.uber.org/zap"
)

type profileService struct {
	logger *zap.Logger
	api    *apiclient.Client
}

func newProfileService(logger *zap.Logger, api *apiclient.Client) Profile {
	return &profileService{
		logger: logger,
		api:    api,
	}
}

func (s *profileService) Get(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := s.api.Do(ctx, apiclient.Request{Path: "/users/profile/", Auth: apiclient.AuthRequired}, &profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

func (s *profileService) Update(ctx context.Context, updates map[string]interface{}) (*model.Profile, error) {
	var profile model.Profile
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/users/profile/",
		Body:   updates,
		Auth:   apiclient.AuthRequired,
	}, &profile)
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (s *profileService) VerifyAadhaar(ctx context.Context, aadhaarNumber string) (*dto.AadhaarVerifyResponse, error) {
	aadhaarNumber = strings.ReplaceAll(strings.TrimSpace(aadhaarNumber), " ", "")
	if !isAadhaarNumber(aadhaarNumber) {
		return nil, ErrInvalidAadhaar
	}

	var resp dto.AadhaarVerifyResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/aadhaar/verify/",
		Body:   dto.AadhaarVerifyRequest{AadhaarNumber: aadhaarNumber},
		Auth:   apiclient.AuthRequired,
	}, &resp)
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

func isAadhaarNumber(s string) bool {
	if len(s) != 12 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
