package config

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrBackendURLRequired = errors.New("BACKEND_URL is required")

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	// OnShutdown runs when shutdown starts, before the server waits for open connections.
	OnShutdown func()
}

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

// Enabled is false when no Postgres host is configured; tracked reports then stay in memory.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

type BackendConfig struct {
	BaseURL       string
	APIPrefix     string
	Timeout       time.Duration
	RefreshSkew   time.Duration
	LogoutTimeout time.Duration
	HealthTimeout time.Duration
	PresignTTL    time.Duration
}

// Normalize trims the origin and prefix and fills zero durations.
func (c BackendConfig) Normalize() (BackendConfig, error) {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		return c, ErrBackendURLRequired
	}
	if _, err := url.ParseRequestURI(c.BaseURL); err != nil {
		return c, err
	}

	c.APIPrefix = strings.TrimRight(strings.TrimSpace(c.APIPrefix), "/")
	if c.APIPrefix != "" && !strings.HasPrefix(c.APIPrefix, "/") {
		c.APIPrefix = "/" + c.APIPrefix
	}

	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.LogoutTimeout <= 0 {
		c.LogoutTimeout = 5 * time.Second
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = 3 * time.Second
	}
	if c.PresignTTL <= 0 {
		c.PresignTTL = 4 * time.Minute
	}

	return c, nil
}
