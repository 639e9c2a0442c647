package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/config"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/repository"
	"github.com/ReportMitra/citizen-client/internal/session"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type testEnv struct {
	svc *Service
	api *apiclient.Client
	srv *httptest.Server
	mr  *miniredis.Miniredis
}

func newTestEnv(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	sessions := session.NewManager(context.Background(), session.NewMemoryStore())
	api, err := apiclient.New(apiclient.Options{BaseURL: srv.URL, APIPrefix: "/api"}, sessions, zap.NewNop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	cfg := config.BackendConfig{
		BaseURL:       srv.URL,
		APIPrefix:     "/api",
		LogoutTimeout: 200 * time.Millisecond,
		HealthTimeout: 200 * time.Millisecond,
		PresignTTL:    time.Minute,
	}

	return &testEnv{
		svc: New(zap.NewNop(), repository.New(nil, rdb, "test"), api, cfg),
		api: api,
		srv: srv,
		mr:  mr,
	}
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	err := e.api.Session().Save(context.Background(), model.Tokens{Access: "access", Refresh: "refresh"}, &model.User{ID: 1, Email: "citizen@example.com"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func postIDs(posts []model.Post) []int64 {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}
