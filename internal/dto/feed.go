package dto

import (
	"encoding/json"

	"github.com/ReportMitra/citizen-client/internal/model"
)

// FeedPage is one page of /reports/community/resolved/.
type FeedPage struct {
	Results []model.Post `json:"results"`
	Next    *string      `json:"next"`
}

type FeedResponse struct {
	Posts   []model.Post `json:"posts"`
	HasMore bool         `json:"has_more"`
	State   string       `json:"state"`
}

// ReactionResponse is returned by /like/ and /dislike/. The flags are optional.
type ReactionResponse struct {
	LikesCount    int64 `json:"likes_count"`
	DislikesCount int64 `json:"dislikes_count"`
	IsLiked       *bool `json:"is_liked"`
	IsDisliked    *bool `json:"is_disliked"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type PresignedImages struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
	URL    string `json:"url,omitempty"`
}

type PostDetail struct {
	Post     model.Post      `json:"post"`
	Comments []model.Comment `json:"comments"`
	Images   PresignedImages `json:"images"`
}

// CommentList accepts both a bare array and a paginated {"results": [...]} body.
type CommentList []model.Comment

func (l *CommentList) UnmarshalJSON(data []byte) error {
	var plain []model.Comment
	if err := json.Unmarshal(data, &plain); err == nil {
		*l = plain
		return nil
	}

	var page struct {
		Results []model.Comment `json:"results"`
	}
	if err := json.Unmarshal(data, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

type LoadMoreRequest struct {
	SentinelVisible bool `json:"sentinel_visible"`
}
