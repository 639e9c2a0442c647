package service

import (
	"context"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/config"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/poststore"
	"github.com/ReportMitra/citizen-client/internal/reaction"
	"github.com/ReportMitra/citizen-client/internal/repository"
	"go.uber.org/zap"
)

type Auth interface {
	Login(ctx context.Context, input dto.LoginRequest) (*model.User, error)
	Register(ctx context.Context, input dto.RegisterRequest) (*model.User, error)
	GoogleLogin(ctx context.Context, input dto.GoogleAuthRequest) (*model.User, error)
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*model.User, error)
	Status(ctx context.Context) dto.SessionStatus
}

type Feed interface {
	FetchPage(ctx context.Context, cursor string) (bool, error)
	LoadMore(ctx context.Context, sentinelVisible bool) (bool, error)
	Posts() []model.Post
	HasMore() bool
	State() PagerState
	Reset()
}

type Interaction interface {
	Toggle(ctx context.Context, kind reaction.Kind, postID int64) (model.Post, error)
}

type Detail interface {
	Open(ctx context.Context, postID int64) (*DetailView, error)
	Get(postID int64) (*DetailView, bool)
	Close(postID int64)
	Reset()
}

type Comment interface {
	List(ctx context.Context, postID int64) ([]model.Comment, error)
	Submit(ctx context.Context, view *DetailView, text string) (model.Comment, error)
}

type Report interface {
	Create(ctx context.Context, input dto.CreateReportRequest) (*model.Report, error)
	PresignUpload(ctx context.Context, filename string, contentType string) (*dto.PresignUploadResponse, error)
	Track(ctx context.Context, trackingID string) (*model.Report, error)
	Tracked(ctx context.Context, limit int) ([]*model.TrackedReport, error)
	Untrack(ctx context.Context, trackingID string) error
	History(ctx context.Context) ([]*model.Report, error)
	Appeal(ctx context.Context, reportID int64) error
	Images(ctx context.Context, reportID int64) (*dto.PresignedImages, error)
}

type Profile interface {
	Get(ctx context.Context) (*model.Profile, error)
	Update(ctx context.Context, updates map[string]interface{}) (*model.Profile, error)
	VerifyAadhaar(ctx context.Context, aadhaarNumber string) (*dto.AadhaarVerifyResponse, error)
}

type Health interface {
	Check(ctx context.Context) HealthStatus
}

type Service struct {
	Auth        Auth
	Feed        Feed
	Interaction Interaction
	Detail      Detail
	Comment     Comment
	Report      Report
	Profile     Profile
	Health      Health
	Posts       *poststore.Store
}

func New(logger *zap.Logger, repo *repository.Repository, api *apiclient.Client, cfg config.BackendConfig) *Service {
	posts := poststore.New()
	reports := newReportService(logger, repo, api, cfg.PresignTTL)
	feed := newFeedPager(logger, api, posts)
	detail := newDetailService(logger, api, posts, reports)

	// is_liked/is_disliked are per viewer, so a different viewer starts from
	// an empty feed, no open views and no stored posts
	api.Session().Subscribe(func(bool) {
		feed.Reset()
		detail.Reset()
		posts.Reset()
	})

	return &Service{
		Auth:        newAuthService(logger, api, cfg.LogoutTimeout),
		Feed:        feed,
		Interaction: newInteractionService(logger, api, posts),
		Detail:      detail,
		Comment:     newCommentService(logger, api, detail),
		Report:      reports,
		Profile:     newProfileService(logger, api),
		Health:      newHealthService(logger, api, cfg.HealthTimeout),
		Posts:       posts,
	}
}
