package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/poststore"
	"github.com/ReportMitra/citizen-client/internal/reaction"
	"go.uber.org/zap"
)

// toggleState tracks the toggles in flight for one post. confirmed is the
// last reaction the backend acknowledged, or the store's reaction when the
// first of these toggles started.
type toggleState struct {
	seq          uint64
	inflight     int
	confirmed    model.Reaction
	confirmedSeq uint64
	newestDone   bool
}

type interactionService struct {
	logger *zap.Logger
	api    *apiclient.Client
	posts  *poststore.Store

	mu      sync.Mutex
	toggles map[int64]*toggleState
}

func newInteractionService(logger *zap.Logger, api *apiclient.Client, posts *poststore.Store) Interaction {
	return &interactionService{
		logger:  logger,
		api:     api,
		posts:   posts,
		toggles: make(map[int64]*toggleState),
	}
}

// Toggle applies the predicted reaction to the post store right away and
// settles it once the backend answers. The newest toggle for a post decides
// what the store shows: its server state on success, the last confirmed
// reaction on failure. An older response only moves the confirmed reaction.
func (s *interactionService) Toggle(ctx context.Context, kind reaction.Kind, postID int64) (model.Post, error) {
	if _, err := reaction.ParseKind(string(kind)); err != nil {
		return model.Post{}, err
	}
	if !s.api.Session().Authenticated(ctx) {
		return model.Post{}, apiclient.ErrUnauthenticated
	}

	s.mu.Lock()
	post, ok := s.posts.Get(postID)
	if !ok {
		s.mu.Unlock()
		return model.Post{}, ErrPostNotFound
	}
	state, ok := s.toggles[postID]
	if !ok {
		state = &toggleState{confirmed: post.Reaction()}
		s.toggles[postID] = state
	}
	current := post.Reaction()
	predicted := reaction.Predict(current, kind)
	state.seq++
	state.inflight++
	state.newestDone = false
	seq := state.seq
	s.posts.SetReaction(postID, predicted)
	s.mu.Unlock()

	var resp dto.ReactionResponse
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/reports/%d/%s/", postID, kind),
		Auth:   apiclient.AuthRequired,
	}, &resp)

	s.mu.Lock()
	defer s.mu.Unlock()

	state.inflight--
	if state.inflight == 0 {
		delete(s.toggles, postID)
	}

	if err == nil && !reaction.Valid(&resp) {
		s.logger.Sugar().Errorf("invalid %s response for post(%d): %+v", kind, postID, resp)
		err = apiclient.ErrMalformedBody
	}

	final := reaction.Settle(predicted, state.confirmed, &resp, err)
	if err == nil && seq > state.confirmedSeq {
		state.confirmed = final
		state.confirmedSeq = seq
	}

	var settled model.Post
	switch {
	case seq == state.seq:
		state.newestDone = true
		settled, ok = s.posts.SetReaction(postID, final)
		if !ok {
			return model.Post{}, ErrPostNotFound
		}
	case state.newestDone && err == nil && state.confirmedSeq == seq:
		// the newer toggle already failed back to an older state
		settled, ok = s.posts.SetReaction(postID, state.confirmed)
		if !ok {
			return model.Post{}, ErrPostNotFound
		}
	default:
		settled, _ = s.posts.Get(postID)
	}

	if err != nil {
		s.logger.Sugar().Warnf("failed to %s post(%d), rolled back: %s", kind, postID, err.Error())
		return settled, fmt.Errorf("%w: %w", ErrInteractionFailed, err)
	}

	return settled, nil
}
