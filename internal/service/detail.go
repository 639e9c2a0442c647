package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/poststore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxOpenViews bounds the views kept for GET /posts/:id and comment submits.
const maxOpenViews = 64

// DetailView is one opened post. The post itself is read from the store
// so reactions made anywhere show up here; comments belong to the view.
type DetailView struct {
	PostID int64

	posts *poststore.Store

	openedAt time.Time

	mu       sync.RWMutex
	comments []model.Comment
	images   dto.PresignedImages
}

func (v *DetailView) Post() (model.Post, bool) {
	return v.posts.Get(v.PostID)
}

func (v *DetailView) Comments() []model.Comment {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return append([]model.Comment(nil), v.comments...)
}

func (v *DetailView) Images() dto.PresignedImages {
	v.mu.RLock()
	defer v.mu.RUnlock()

	return v.images
}

func (v *DetailView) Snapshot() (dto.PostDetail, bool) {
	post, ok := v.Post()
	if !ok {
		return dto.PostDetail{}, false
	}

	return dto.PostDetail{
		Post:     post,
		Comments: v.Comments(),
		Images:   v.Images(),
	}, true
}

func (v *DetailView) setComments(comments []model.Comment) {
	v.mu.Lock()
	v.comments = comments
	v.mu.Unlock()
}

func (v *DetailView) appendComment(c model.Comment) {
	v.mu.Lock()
	v.comments = append(v.comments, c)
	v.mu.Unlock()
}

type detailService struct {
	logger  *zap.Logger
	api     *apiclient.Client
	posts   *poststore.Store
	reports Report

	mu       sync.Mutex
	views    map[int64]*DetailView
	maxViews int
}

func newDetailService(logger *zap.Logger, api *apiclient.Client, posts *poststore.Store, reports Report) *detailService {
	return &detailService{
		logger:   logger,
		api:      api,
		posts:    posts,
		reports:  reports,
		views:    make(map[int64]*DetailView),
		maxViews: maxOpenViews,
	}
}

// Open loads comments and images for a post already in the store. A failed
// image fetch leaves the images empty; a failed comment fetch fails Open.
// Opening a post again replaces its view with fresh comments and images.
func (s *detailService) Open(ctx context.Context, postID int64) (*DetailView, error) {
	if _, ok := s.posts.Get(postID); !ok {
		return nil, ErrPostNotFound
	}

	view := &DetailView{PostID: postID, posts: s.posts, openedAt: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		comments, err := listComments(gctx, s.api, postID)
		if err != nil {
			return err
		}
		view.comments = comments
		return nil
	})
	g.Go(func() error {
		images, err := s.reports.Images(gctx, postID)
		if err != nil {
			s.logger.Sugar().Warnf("failed to load images of post(%d): %s", postID, err.Error())
			return nil
		}
		if images != nil {
			view.images = *images
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.views[postID] = view
	s.evictOldest()
	s.mu.Unlock()

	return view, nil
}

// evictOldest drops the least recently opened views above maxViews.
// Callers hold s.mu.
func (s *detailService) evictOldest() {
	for len(s.views) > s.maxViews {
		var oldest *DetailView
		for _, v := range s.views {
			if oldest == nil || v.openedAt.Before(oldest.openedAt) {
				oldest = v
			}
		}
		delete(s.views, oldest.PostID)
	}
}

func (s *detailService) Get(postID int64) (*DetailView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[postID]
	return view, ok
}

func (s *detailService) Close(postID int64) {
	s.mu.Lock()
	delete(s.views, postID)
	s.mu.Unlock()
}

// Reset closes every view.
func (s *detailService) Reset() {
	s.mu.Lock()
	s.views = make(map[int64]*DetailView)
	s.mu.Unlock()
}

func listComments(ctx context.Context, api *apiclient.Client, postID int64) ([]model.Comment, error) {
	var comments dto.CommentList
	err := api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("/reports/%d/comments/", postID),
		Auth:   apiclient.AuthOptional,
	}, &comments)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		return []model.Comment{}, nil
	}
	return comments, nil
}
