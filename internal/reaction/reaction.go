// Package reaction holds the pure like/dislike state transitions used by the
// optimistic interaction flow.
package reaction

import (
	"errors"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
)

type Kind string

const (
	Like    Kind = "like"
	Dislike Kind = "dislike"
)

var ErrInvalidKind = errors.New("reaction must be like or dislike")

func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Like, Dislike:
		return Kind(s), nil
	}
	return "", ErrInvalidKind
}

// Predict applies one button press to cur. Pressing an active reaction
// removes it; pressing the other one switches, so at most one flag is set.
func Predict(cur model.Reaction, kind Kind) model.Reaction {
	next := cur
	switch kind {
	case Like:
		if cur.IsLiked {
			next.IsLiked = false
			next.LikesCount = decrement(cur.LikesCount)
			return next
		}
		next.IsLiked = true
		next.LikesCount = cur.LikesCount + 1
		if cur.IsDisliked {
			next.IsDisliked = false
			next.DislikesCount = decrement(cur.DislikesCount)
		}
	case Dislike:
		if cur.IsDisliked {
			next.IsDisliked = false
			next.DislikesCount = decrement(cur.DislikesCount)
			return next
		}
		next.IsDisliked = true
		next.DislikesCount = cur.DislikesCount + 1
		if cur.IsLiked {
			next.IsLiked = false
			next.LikesCount = decrement(cur.LikesCount)
		}
	}
	return next
}

// Settle resolves a prediction once the server answered. A failed call or an
// unusable response restores snapshot; otherwise the server's counts win and
// flags it did not send keep the predicted value.
func Settle(predicted, snapshot model.Reaction, resp *dto.ReactionResponse, callErr error) model.Reaction {
	if callErr != nil || !Valid(resp) {
		return snapshot
	}

	final := model.Reaction{
		LikesCount:    resp.LikesCount,
		DislikesCount: resp.DislikesCount,
		IsLiked:       predicted.IsLiked,
		IsDisliked:    predicted.IsDisliked,
	}
	if resp.IsLiked != nil {
		final.IsLiked = *resp.IsLiked
	}
	if resp.IsDisliked != nil {
		final.IsDisliked = *resp.IsDisliked
	}

	// absent flags can leave the predicted one standing next to a server flag
	if final.IsLiked && final.IsDisliked {
		if resp.IsLiked == nil {
			final.IsLiked = false
		} else {
			final.IsDisliked = false
		}
	}
	return final
}

// Valid rejects responses that cannot be a real server state.
func Valid(resp *dto.ReactionResponse) bool {
	if resp == nil || resp.LikesCount < 0 || resp.DislikesCount < 0 {
		return false
	}
	if resp.IsLiked != nil && resp.IsDisliked != nil && *resp.IsLiked && *resp.IsDisliked {
		return false
	}
	return true
}

func decrement(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return n - 1
}
