package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/reaction"
)

func detailRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports/{id}/comments/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.Comment{{ID: 1, Text: "fixed quickly"}})
	})
	mux.HandleFunc("GET /api/reports/{id}/presign-get/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"before": "https://cdn/before", "after": "https://cdn/after"})
	})
}

func TestToggleAppliesServerStateEverywhere(t *testing.T) {
	ctx := context.Background()
	mux := http.NewServeMux()
	detailRoutes(mux)
	mux.HandleFunc("POST /api/reports/1/like/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer access" {
			t.Errorf("missing bearer token")
		}
		writeJSON(w, http.StatusOK, map[string]any{"likes_count": 4, "dislikes_count": 0, "is_liked": true})
	})
	env := newTestEnv(t, mux)
	env.signIn(t)
	env.svc.Posts.Upsert(model.Post{ID: 1, LikesCount: 3, DislikesCount: 1, IsDisliked: true})

	view, err := env.svc.Detail.Open(ctx, 1)
	if err != nil {
		t.Fatalf("open detail: %v", err)
	}

	var published int32
	cancel := env.svc.Posts.Subscribe(func(p model.Post) {
		if p.ID == 1 {
			atomic.AddInt32(&published, 1)
		}
	})
	defer cancel()

	post, err := env.svc.Interaction.Toggle(ctx, reaction.Like, 1)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}

	want := model.Reaction{LikesCount: 4, DislikesCount: 0, IsLiked: true, IsDisliked: false}
	if post.Reaction() != want {
		t.Fatalf("toggle returned %+v, want %+v", post.Reaction(), want)
	}
	detailPost, _ := view.Post()
	if detailPost.Reaction() != want {
		t.Fatalf("detail view sees %+v, want %+v", detailPost.Reaction(), want)
	}
	if published != 2 {
		t.Fatalf("published %d updates, want prediction and settlement", published)
	}
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
			},
			wantErr: apiclient.ErrServer,
		},
		{
			name: "negative count",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, map[string]any{"likes_count": -1, "dislikes_count": 0})
			},
			wantErr: apiclient.ErrMalformedBody,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/plain")
				_, _ = w.Write([]byte("ok"))
			},
			wantErr: apiclient.ErrMalformedBody,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/reports/7/dislike/", tt.handler)
			env := newTestEnv(t, mux)
			env.signIn(t)
			before := model.Post{ID: 7, LikesCount: 2, DislikesCount: 5, IsLiked: true}
			env.svc.Posts.Upsert(before)

			post, err := env.svc.Interaction.Toggle(context.Background(), reaction.Dislike, 7)
			if !errors.Is(err, ErrInteractionFailed) || !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v and %v", err, ErrInteractionFailed, tt.wantErr)
			}
			if post.Reaction() != before.Reaction() {
				t.Fatalf("returned %+v, want rollback to %+v", post.Reaction(), before.Reaction())
			}
			stored, _ := env.svc.Posts.Get(7)
			if stored.Reaction() != before.Reaction() {
				t.Fatalf("store holds %+v, want rollback to %+v", stored.Reaction(), before.Reaction())
			}
		})
	}
}

func TestToggleWithoutSessionDoesNothing(t *testing.T) {
	var calls int32
	env := newTestEnv(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	before := model.Post{ID: 3, LikesCount: 1}
	env.svc.Posts.Upsert(before)

	_, err := env.svc.Interaction.Toggle(context.Background(), reaction.Like, 3)
	if !errors.Is(err, apiclient.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
	if stored, _ := env.svc.Posts.Get(3); stored.Reaction() != before.Reaction() {
		t.Fatalf("store mutated without a session: %+v", stored.Reaction())
	}
	if calls != 0 {
		t.Fatalf("backend called %d times", calls)
	}
}

func TestToggleUnknownPostOrKind(t *testing.T) {
	env := newTestEnv(t, http.NotFoundHandler())
	env.signIn(t)

	if _, err := env.svc.Interaction.Toggle(context.Background(), reaction.Like, 99); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
	if _, err := env.svc.Interaction.Toggle(context.Background(), reaction.Kind("love"), 99); !errors.Is(err, reaction.ErrInvalidKind) {
		t.Fatalf("err = %v, want ErrInvalidKind", err)
	}
}

func TestToggleKeepsPredictedFlagsWhenAbsent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/5/like/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"likes_count": 10, "dislikes_count": 2})
	})
	env := newTestEnv(t, mux)
	env.signIn(t)
	env.svc.Posts.Upsert(model.Post{ID: 5, LikesCount: 8, DislikesCount: 2})

	post, err := env.svc.Interaction.Toggle(context.Background(), reaction.Like, 5)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	want := model.Reaction{LikesCount: 10, DislikesCount: 2, IsLiked: true}
	if post.Reaction() != want {
		t.Fatalf("got %+v, want %+v", post.Reaction(), want)
	}
}

func TestStaleToggleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/1/like/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(entered)
			<-release
			writeJSON(w, http.StatusOK, map[string]any{"likes_count": 4, "dislikes_count": 0, "is_liked": true})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"likes_count": 3, "dislikes_count": 0, "is_liked": false, "is_disliked": false})
	})
	env := newTestEnv(t, mux)
	env.signIn(t)
	env.svc.Posts.Upsert(model.Post{ID: 1, LikesCount: 3})

	type result struct {
		post model.Post
		err  error
	}
	first := make(chan result, 1)
	go func() {
		post, err := env.svc.Interaction.Toggle(ctx, reaction.Like, 1)
		first <- result{post, err}
	}()
	<-entered

	second, err := env.svc.Interaction.Toggle(ctx, reaction.Like, 1)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	want := model.Reaction{LikesCount: 3}
	if second.Reaction() != want {
		t.Fatalf("second toggle settled to %+v, want %+v", second.Reaction(), want)
	}

	close(release)
	res := <-first
	if res.err != nil {
		t.Fatalf("superseded toggle returned error: %v", res.err)
	}

	stored, _ := env.svc.Posts.Get(1)
	if stored.Reaction() != want {
		t.Fatalf("stale response overwrote the store: %+v", stored.Reaction())
	}
	if res.post.Reaction() != want {
		t.Fatalf("superseded toggle returned %+v, want current %+v", res.post.Reaction(), want)
	}
}

func TestDuplicateFlagsFromServerKeepMutualExclusion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/2/dislike/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"likes_count": 1, "dislikes_count": 1, "is_liked": true, "is_disliked": true})
	})
	env := newTestEnv(t, mux)
	env.signIn(t)
	before := model.Post{ID: 2, LikesCount: 1}
	env.svc.Posts.Upsert(before)

	post, err := env.svc.Interaction.Toggle(context.Background(), reaction.Dislike, 2)
	if !errors.Is(err, ErrInteractionFailed) {
		t.Fatalf("err = %v, want ErrInteractionFailed", err)
	}
	if post.IsLiked && post.IsDisliked {
		t.Fatalf("both flags set: %+v", post)
	}
	if post.Reaction() != before.Reaction() {
		t.Fatalf("got %+v, want rollback", post.Reaction())
	}
}

func TestOverlappingFailedTogglesRollBackToServerState(t *testing.T) {
	tests := []struct {
		name  string
		order []int
	}{
		{name: "older answers first", order: []int{0, 1}},
		{name: "newer answers first", order: []int{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			entered := make(chan struct{}, 2)
			release := []chan struct{}{make(chan struct{}), make(chan struct{})}
			var calls int32

			mux := http.NewServeMux()
			mux.HandleFunc("POST /api/reports/1/like/", func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1) - 1
				entered <- struct{}{}
				<-release[n]
				writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
			})
			env := newTestEnv(t, mux)
			env.signIn(t)
			before := model.Post{ID: 1, LikesCount: 5}
			env.svc.Posts.Upsert(before)

			errs := []chan error{make(chan error, 1), make(chan error, 1)}
			for i := range errs {
				go func(i int) {
					_, err := env.svc.Interaction.Toggle(ctx, reaction.Like, 1)
					errs[i] <- err
				}(i)
				<-entered
			}

			for _, i := range tt.order {
				close(release[i])
				if err := <-errs[i]; !errors.Is(err, ErrInteractionFailed) {
					t.Fatalf("toggle %d: err = %v, want ErrInteractionFailed", i, err)
				}
			}

			stored, _ := env.svc.Posts.Get(1)
			if stored.Reaction() != before.Reaction() {
				t.Fatalf("store holds %+v, want %+v", stored.Reaction(), before.Reaction())
			}
		})
	}
}

func TestOlderSuccessWinsAfterNewerFailure(t *testing.T) {
	ctx := context.Background()
	entered := make(chan struct{}, 2)
	release := []chan struct{}{make(chan struct{}), make(chan struct{})}
	var calls int32

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/reports/1/like/", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1) - 1
		entered <- struct{}{}
		<-release[n]
		if n == 0 {
			writeJSON(w, http.StatusOK, map[string]any{"likes_count": 6, "dislikes_count": 0, "is_liked": true})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "boom"})
	})
	env := newTestEnv(t, mux)
	env.signIn(t)
	env.svc.Posts.Upsert(model.Post{ID: 1, LikesCount: 5})

	errs := []chan error{make(chan error, 1), make(chan error, 1)}
	for i := range errs {
		go func(i int) {
			_, err := env.svc.Interaction.Toggle(ctx, reaction.Like, 1)
			errs[i] <- err
		}(i)
		<-entered
	}

	close(release[1])
	if err := <-errs[1]; !errors.Is(err, ErrInteractionFailed) {
		t.Fatalf("newer toggle: err = %v, want ErrInteractionFailed", err)
	}
	close(release[0])
	if err := <-errs[0]; err != nil {
		t.Fatalf("older toggle: %v", err)
	}

	want := model.Reaction{LikesCount: 6, IsLiked: true}
	if stored, _ := env.svc.Posts.Get(1); stored.Reaction() != want {
		t.Fatalf("store holds %+v, want %+v", stored.Reaction(), want)
	}
}
