package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"go.uber.org/zap"
)

type commentService struct {
	logger *zap.Logger
	api    *apiclient.Client
	detail Detail
}

func newCommentService(logger *zap.Logger, api *apiclient.Client, detail Detail) Comment {
	return &commentService{
		logger: logger,
		api:    api,
		detail: detail,
	}
}

// List fetches the comments of a post and refreshes its open view, if any.
func (s *commentService) List(ctx context.Context, postID int64) ([]model.Comment, error) {
	comments, err := listComments(ctx, s.api, postID)
	if err != nil {
		return nil, err
	}

	if view, ok := s.detail.Get(postID); ok {
		view.setComments(append([]model.Comment(nil), comments...))
	}
	return comments, nil
}

// Submit posts text as a comment on the view's post and appends the
// returned comment to the view. Nothing is inserted before the backend
// accepts it.
func (s *commentService) Submit(ctx context.Context, view *DetailView, text string) (model.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, ErrEmptyComment
	}
	if !s.api.Session().Authenticated(ctx) {
		return model.Comment{}, apiclient.ErrUnauthenticated
	}

	var created model.Comment
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/reports/%d/comments/", view.PostID),
		Body:   dto.CreateCommentRequest{Text: text},
		Auth:   apiclient.AuthRequired,
	}, &created)
	if err != nil {
		s.logger.Sugar().Warnf("failed to comment on post(%d): %s", view.PostID, err.Error())
		if errors.Is(err, apiclient.ErrUnauthenticated) {
			return model.Comment{}, err
		}
		return model.Comment{}, fmt.Errorf("%w: %w", ErrCommentFailed, err)
	}

	view.appendComment(created)
	return created, nil
}
