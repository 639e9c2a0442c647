package service

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/poststore"
	"go.uber.org/zap"
)

const feedEndpoint = "/reports/community/resolved/"

type PagerState int

const (
	PagerIdle PagerState = iota
	PagerLoading
	PagerExhausted
)

func (s PagerState) String() string {
	switch s {
	case PagerLoading:
		return "loading"
	case PagerExhausted:
		return "exhausted"
	}
	return "idle"
}

// feedPager accumulates the community feed page by page. It holds only ids;
// the posts themselves live in the post store.
type feedPager struct {
	logger *zap.Logger
	api    *apiclient.Client
	posts  *poststore.Store

	mu    sync.Mutex
	state PagerState
	ids   []int64
	seen  map[int64]struct{}
	next  string
	// gen changes on Reset so a page fetched before it is dropped
	gen uint64
}

func newFeedPager(logger *zap.Logger, api *apiclient.Client, posts *poststore.Store) *feedPager {
	return &feedPager{
		logger: logger,
		api:    api,
		posts:  posts,
		seen:   make(map[int64]struct{}),
	}
}

// FetchPage loads the page at cursor, or the first page when cursor is
// empty. It reports whether a request was made.
func (p *feedPager) FetchPage(ctx context.Context, cursor string) (bool, error) {
	p.mu.Lock()
	if p.state == PagerLoading {
		p.mu.Unlock()
		return false, nil
	}
	p.state = PagerLoading
	gen := p.gen
	p.mu.Unlock()

	var page dto.FeedPage
	err := p.api.Do(ctx, pageRequest(cursor), &page)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return true, nil
	}

	if err != nil {
		p.logger.Sugar().Warnf("failed to load feed page(%s): %s", cursor, err.Error())
		p.state = PagerIdle
		return true, err
	}

	fresh := make([]model.Post, 0, len(page.Results))
	for _, post := range page.Results {
		if _, ok := p.seen[post.ID]; ok {
			continue
		}
		p.seen[post.ID] = struct{}{}
		p.ids = append(p.ids, post.ID)
		fresh = append(fresh, post)
	}
	p.posts.Upsert(fresh...)

	p.next = ""
	if page.Next != nil {
		p.next = strings.TrimSpace(*page.Next)
	}
	if p.next == "" {
		p.state = PagerExhausted
	} else {
		p.state = PagerIdle
	}

	return true, nil
}

func pageRequest(cursor string) apiclient.Request {
	req := apiclient.Request{Path: feedEndpoint, Auth: apiclient.AuthOptional}
	switch {
	case cursor == "":
	case strings.HasPrefix(cursor, "http://"), strings.HasPrefix(cursor, "https://"):
		req.Path = cursor
	default:
		req.Query = url.Values{"cursor": {cursor}}
	}
	return req
}

// LoadMore fetches the next page once the bottom sentinel is visible.
func (p *feedPager) LoadMore(ctx context.Context, sentinelVisible bool) (bool, error) {
	if !sentinelVisible {
		return false, nil
	}

	p.mu.Lock()
	next := p.next
	state := p.state
	p.mu.Unlock()

	if next == "" || state != PagerIdle {
		return false, nil
	}
	return p.FetchPage(ctx, next)
}

func (p *feedPager) Posts() []model.Post {
	p.mu.Lock()
	ids := append([]int64(nil), p.ids...)
	p.mu.Unlock()

	return p.posts.Many(ids)
}

func (p *feedPager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state != PagerExhausted
}

func (p *feedPager) State() PagerState {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *feedPager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	p.state = PagerIdle
	p.ids = nil
	p.seen = make(map[int64]struct{})
	p.next = ""
}
