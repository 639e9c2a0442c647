// Package apiclient talks to the ReportMitra REST backend. It attaches the
// bearer token, refreshes it once on 401 and maps responses onto the
// error taxonomy in errors.go.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/session"
	"github.com/ReportMitra/citizen-client/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	refreshEndpoint = "/users/token/refresh/"
	meEndpoint      = "/users/me/"
)

type AuthMode int

const (
	// AuthNone never sends a bearer token.
	AuthNone AuthMode = iota
	// AuthOptional sends the token when there is one and proceeds anonymously otherwise.
	AuthOptional
	// AuthRequired fails with ErrUnauthenticated before any call when there is no token.
	AuthRequired
)

type Request struct {
	Method string
	// Path is relative to the API prefix unless it is an absolute URL (feed cursors are).
	Path string
	// FromOrigin resolves Path against the origin instead of origin+prefix.
	FromOrigin bool
	Query      url.Values
	Body       any
	Auth       AuthMode
	// NoRefresh disables both the proactive refresh and the refresh-and-retry on 401.
	NoRefresh bool
}

type Options struct {
	BaseURL     string
	APIPrefix   string
	HTTPClient  *http.Client
	RefreshSkew time.Duration
	// RefreshTimeout bounds a token exchange, which does not end with the request that started it.
	RefreshTimeout time.Duration
}

const defaultRefreshTimeout = 15 * time.Second

type Client struct {
	logger      *zap.Logger
	session     *session.Manager
	httpClient  *http.Client
	baseURL     string
	apiPrefix   string
	refreshSkew time.Duration
	refreshes   singleflight.Group
	refreshTTL  time.Duration
	now         func() time.Time
}

func New(opts Options, sessions *session.Manager, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	refreshTTL := opts.RefreshTimeout
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTimeout
	}

	return &Client{
		logger:      logger,
		session:     sessions,
		httpClient:  httpClient,
		baseURL:     baseURL,
		apiPrefix:   strings.TrimRight(opts.APIPrefix, "/"),
		refreshSkew: opts.RefreshSkew,
		refreshTTL:  refreshTTL,
		now:         time.Now,
	}, nil
}

func (c *Client) Session() *session.Manager {
	return c.session
}

// URL resolves an API path the same way Do does.
func (c *Client) URL(path string, fromOrigin bool) string {
	if isAbsolute(path) {
		return path
	}
	if fromOrigin {
		return c.baseURL + path
	}
	return c.baseURL + c.apiPrefix + path
}

// AuthHeaders returns the headers for an authenticated call. Without an
// access token there is no Authorization entry.
func (c *Client) AuthHeaders(ctx context.Context) http.Header {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if access := c.session.AccessToken(ctx); access != "" {
		header.Set("Authorization", "Bearer "+access)
	}
	return header
}

// Do sends req and decodes a 2xx JSON body into out (out may be nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	access, err := c.accessFor(ctx, req)
	if err != nil {
		return err
	}

	err = c.send(ctx, req, access, out)
	if !errors.Is(err, errUnauthorized) {
		return err
	}
	if access == "" || req.NoRefresh {
		return ErrUnauthenticated
	}

	// another request may have refreshed while this one was in flight
	if current := c.session.AccessToken(ctx); current == "" || current == access {
		if err := c.Refresh(ctx); err != nil {
			return err
		}
	}

	access = c.session.AccessToken(ctx)
	err = c.send(ctx, req, access, out)
	if errors.Is(err, errUnauthorized) {
		c.logger.Sugar().Warnf("request %s %s still unauthorized after refresh, clearing session", req.Method, req.Path)
		c.clearSession(ctx)
		return ErrUnauthenticated
	}
	return err
}

func (c *Client) accessFor(ctx context.Context, req Request) (string, error) {
	if req.Auth == AuthNone {
		return "", nil
	}

	access := c.session.AccessToken(ctx)
	if access != "" && !req.NoRefresh && c.refreshSkew > 0 && utils.ExpiresWithin(access, c.refreshSkew, c.now()) {
		switch err := c.Refresh(ctx); {
		case err == nil:
			access = c.session.AccessToken(ctx)
		case errors.Is(err, ErrUnauthenticated):
			access = ""
		default:
			return "", err
		}
	}

	if access == "" && req.Auth == AuthRequired {
		return "", ErrUnauthenticated
	}
	return access, nil
}

// Refresh exchanges the refresh token for a new access token and re-fetches
// the current user. Concurrent callers share one exchange. Any failure of
// the exchange clears the session and returns ErrUnauthenticated. The
// exchange runs detached from ctx: a caller that gives up gets ctx.Err()
// while the exchange finishes for everyone else.
func (c *Client) Refresh(ctx context.Context) error {
	ch := c.refreshes.DoChan("refresh", func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.refreshTTL)
		defer cancel()
		return nil, c.refresh(refreshCtx)
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) refresh(ctx context.Context) error {
	tokens, err := c.session.Tokens(ctx)
	if err != nil {
		c.logger.Sugar().Errorf("failed to read session for refresh: %s", err.Error())
		c.clearSession(ctx)
		return ErrUnauthenticated
	}
	if tokens.Refresh == "" {
		c.clearSession(ctx)
		return ErrUnauthenticated
	}

	var resp dto.RefreshResponse
	if err := c.send(ctx, Request{
		Method: http.MethodPost,
		Path:   refreshEndpoint,
		Body:   dto.RefreshRequest{Refresh: tokens.Refresh},
	}, "", &resp); err != nil {
		c.logger.Sugar().Infof("token refresh failed, signing out: %s", err.Error())
		c.clearSession(ctx)
		return ErrUnauthenticated
	}
	if resp.Access == "" {
		c.logger.Warn("token refresh returned no access token, signing out")
		c.clearSession(ctx)
		return ErrUnauthenticated
	}

	if err := c.session.SetAccess(ctx, resp.Access, resp.Refresh); err != nil {
		c.logger.Sugar().Errorf("failed to store refreshed access token: %s", err.Error())
		return ErrUnauthenticated
	}

	var user model.User
	if err := c.send(ctx, Request{Method: http.MethodGet, Path: meEndpoint}, resp.Access, &user); err != nil {
		c.logger.Sugar().Warnf("failed to re-fetch current user after refresh: %s", err.Error())
		return nil
	}
	if err := c.session.SetUser(ctx, &user); err != nil {
		c.logger.Sugar().Errorf("failed to store current user(%d): %s", user.ID, err.Error())
	}

	return nil
}

func (c *Client) clearSession(ctx context.Context) {
	if err := c.session.Clear(ctx); err != nil {
		c.logger.Sugar().Errorf("failed to clear session: %s", err.Error())
	}
}

var errUnauthorized = errors.New("unauthorized")

// send performs exactly one HTTP exchange.
func (c *Client) send(ctx context.Context, req Request, access string, out any) error {
	target := c.URL(req.Path, req.FromOrigin)
	if len(req.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if access != "" {
		httpReq.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Sugar().Debugf("request %s %s failed: %s", method, target, err.Error())
		return fmt.Errorf("%w: %s", ErrNetwork, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %s", ErrNetwork, err.Error())
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errUnauthorized
	case resp.StatusCode >= 500:
		c.logger.Sugar().Errorf("ERROR from backend endpoint(%s %s), code(%d)", method, req.Path, resp.StatusCode)
		return &ServerError{Status: resp.StatusCode}
	case resp.StatusCode >= 400:
		var bodyJSON map[string]any
		if err := json.Unmarshal(raw, &bodyJSON); err != nil {
			return &ValidationError{Status: resp.StatusCode}
		}
		return parseValidation(resp.StatusCode, bodyJSON)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &ServerError{Status: resp.StatusCode}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if !isJSON(resp.Header.Get("Content-Type")) {
		return ErrMalformedBody
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedBody, err.Error())
	}

	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func isAbsolute(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
