package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/model"
)

func TestOpenDetailLoadsCommentsAndImages(t *testing.T) {
	ctx := context.Background()
	var presigns int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/4/comments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"results": []model.Comment{{ID: 1, Text: "a"}, {ID: 2, Text: "b"}}})
	})
	mux.HandleFunc("GET /api/reports/4/presign-get/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&presigns, 1)
		writeJSON(w, http.StatusOK, map[string]string{"before": "https://cdn/b", "after": "https://cdn/a"})
	})
	env := newTestEnv(t, mux)
	env.svc.Posts.Upsert(model.Post{ID: 4, IssueTitle: "pothole"})

	view, err := env.svc.Detail.Open(ctx, 4)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	detail, ok := view.Snapshot()
	if !ok {
		t.Fatalf("snapshot missing post")
	}
	if detail.Post.IssueTitle != "pothole" || len(detail.Comments) != 2 || detail.Images.Before != "https://cdn/b" {
		t.Fatalf("unexpected detail %+v", detail)
	}
	if got, ok := env.svc.Detail.Get(4); !ok || got != view {
		t.Fatalf("opened view not registered")
	}

	if _, err := env.svc.Report.Images(ctx, 4); err != nil {
		t.Fatalf("images: %v", err)
	}
	if presigns != 1 {
		t.Fatalf("presign-get called %d times, want cached after first", presigns)
	}

	env.svc.Detail.Close(4)
	if _, ok := env.svc.Detail.Get(4); ok {
		t.Fatalf("closed view still registered")
	}
}

func TestOpenDetailToleratesImageFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/4/comments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Comment{})
	})
	mux.HandleFunc("GET /api/reports/4/presign-get/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"detail": "s3 down"})
	})
	env := newTestEnv(t, mux)
	env.svc.Posts.Upsert(model.Post{ID: 4})

	view, err := env.svc.Detail.Open(context.Background(), 4)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if view.Images().Before != "" || len(view.Comments()) != 0 {
		t.Fatalf("unexpected view state %+v %+v", view.Images(), view.Comments())
	}
}

func TestOpenDetailUnknownPost(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())
	if _, err := env.svc.Detail.Open(context.Background(), 404); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
}

func TestSubmitCommentAppendsOnSuccess(t *testing.T) {
	ctx := context.Background()
	var posted int32
	mux := http.NewServeMux()
	detailRoutes(mux)
	mux.HandleFunc("POST /api/reports/{id}/comments/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&posted, 1)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "thanks for fixing" {
			t.Errorf("body text = %q", body["text"])
		}
		writeJSON(w, http.StatusCreated, model.Comment{ID: 2, Text: body["text"]})
	})
	env := newTestEnv(t, mux)
	env.signIn(t)
	env.svc.Posts.Upsert(model.Post{ID: 8})

	view, err := env.svc.Detail.Open(ctx, 8)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := env.svc.Comment.Submit(ctx, view, "   "); !errors.Is(err, ErrEmptyComment) {
		t.Fatalf("blank comment err = %v", err)
	}
	if posted != 0 {
		t.Fatalf("blank comment reached the backend")
	}

	created, err := env.svc.Comment.Submit(ctx, view, "  thanks for fixing ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	comments := view.Comments()
	if len(comments) != 2 || comments[1].ID != created.ID {
		t.Fatalf("comment not appended in order: %+v", comments)
	}
}

func TestSubmitCommentFailureKeepsList(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	detailRoutes(mux)
	mux.HandleFunc("POST /api/reports/{id}/comments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})
	env := newTestEnv(t, mux)
	env.svc.Posts.Upsert(model.Post{ID: 8})

	view, err := env.svc.Detail.Open(ctx, 8)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if _, err := env.svc.Comment.Submit(ctx, view, "hello"); !errors.Is(err, apiclient.ErrUnauthenticated) {
		t.Fatalf("anonymous submit err = %v", err)
	}

	env.signIn(t)
	if _, err := env.svc.Comment.Submit(ctx, view, "hello"); !errors.Is(err, ErrCommentFailed) {
		t.Fatalf("err = %v, want ErrCommentFailed", err)
	}
	if len(view.Comments()) != 1 {
		t.Fatalf("failed submit changed the list: %+v", view.Comments())
	}
}

func TestListCommentsRefreshesOpenView(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	comments := []model.Comment{{ID: 1, Text: "first"}}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/3/comments/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		writeJSON(w, http.StatusOK, comments)
	})
	mux.HandleFunc("GET /api/reports/3/presign-get/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{})
	})
	env := newTestEnv(t, mux)
	env.svc.Posts.Upsert(model.Post{ID: 3})

	view, err := env.svc.Detail.Open(ctx, 3)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// another citizen comments on the same post
	mu.Lock()
	comments = append(comments, model.Comment{ID: 2, Text: "second"})
	mu.Unlock()

	listed, err := env.svc.Comment.List(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("listed %+v, want both comments", listed)
	}
	if got := view.Comments(); len(got) != 2 || got[1].Text != "second" {
		t.Fatalf("open view still shows %+v", got)
	}
}

func TestOpenViewsAreBounded(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	detailRoutes(mux)
	env := newTestEnv(t, mux)
	env.svc.Detail.(*detailService).maxViews = 2

	for id := int64(1); id <= 3; id++ {
		env.svc.Posts.Upsert(model.Post{ID: id})
		if _, err := env.svc.Detail.Open(ctx, id); err != nil {
			t.Fatalf("open %d: %v", id, err)
		}
		time.Sleep(time.Millisecond)
	}

	if _, ok := env.svc.Detail.Get(1); ok {
		t.Fatalf("oldest view kept past the bound")
	}
	for _, id := range []int64{2, 3} {
		if _, ok := env.svc.Detail.Get(id); !ok {
			t.Fatalf("view %d evicted", id)
		}
	}
}
