package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"go.uber.org/zap"
)

type authService struct {
	logger        *zap.Logger
	api           *apiclient.Client
	logoutTimeout time.Duration
}

func newAuthService(logger *zap.Logger, api *apiclient.Client, logoutTimeout time.Duration) Auth {
	return &authService{
		logger:        logger,
		api:           api,
		logoutTimeout: logoutTimeout,
	}
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*model.User, error) {
	return s.authenticate(ctx, "/users/login/", input)
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error) {
	return s.authenticate(ctx, "/users/register/", input)
}

func (s *authService) GoogleLogin(ctx context.Context, input dto.GoogleAuthRequest) (*model.User, error) {
	return s.authenticate(ctx, "/users/google-auth/", input)
}

func (s *authService) authenticate(ctx context.Context, path string, body any) (*model.User, error) {
	var resp dto.AuthResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      path,
		Body:      body,
		Auth:      apiclient.AuthNone,
		NoRefresh: true,
	}, &resp)
	if err != nil {
		if errors.Is(err, apiclient.ErrUnauthenticated) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if resp.Tokens.Access == "" || resp.Tokens.Refresh == "" {
		s.logger.Sugar().Errorf("backend endpoint(%s) returned no token pair", path)
		return nil, apiclient.ErrMalformedBody
	}

	if err := s.api.Session().Save(ctx, resp.Tokens, resp.User); err != nil {
		s.logger.Sugar().Errorf("failed to store session: %s", err.Error())
		return nil, ErrInternal
	}

	return resp.User, nil
}

func (s *authService) Refresh(ctx context.Context) error {
	return s.api.Refresh(ctx)
}

// Logout tells the backend to blacklist the refresh token and then clears the
// local session whatever the backend answered.
func (s *authService) Logout(ctx context.Context) error {
	sessions := s.api.Session()
	localCtx := context.WithoutCancel(ctx)

	tokens, err := sessions.Tokens(localCtx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read session on logout: %s", err.Error())
	}

	if tokens.Refresh != "" {
		notifyCtx, cancel := context.WithTimeout(localCtx, s.logoutTimeout)
		err := s.api.Do(notifyCtx, apiclient.Request{
			Method:    http.MethodPost,
			Path:      "/users/logout/",
			Body:      dto.LogoutRequest{Refresh: tokens.Refresh},
			Auth:      apiclient.AuthOptional,
			NoRefresh: true,
		}, nil)
		cancel()
		if err != nil {
			s.logger.Sugar().Warnf("backend logout failed, clearing local session anyway: %s", err.Error())
		}
	}

	if err := sessions.Clear(localCtx); err != nil {
		s.logger.Sugar().Errorf("failed to clear session: %s", err.Error())
		return ErrInternal
	}

	return nil
}

func (s *authService) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := s.api.Do(ctx, apiclient.Request{Path: "/users/me/", Auth: apiclient.AuthRequired}, &user); err != nil {
		return nil, err
	}

	if err := s.api.Session().SetUser(ctx, &user); err != nil {
		s.logger.Sugar().Errorf("failed to store current user(%d): %s", user.ID, err.Error())
	}

	return &user, nil
}

func (s *authService) Status(ctx context.Context) dto.SessionStatus {
	sessions := s.api.Session()
	if !sessions.Authenticated(ctx) {
		return dto.SessionStatus{}
	}

	user, err := sessions.User(ctx)
	if err != nil {
		s.logger.Sugar().Errorf("failed to read session user: %s", err.Error())
	}

	return dto.SessionStatus{Authenticated: true, User: user}
}
