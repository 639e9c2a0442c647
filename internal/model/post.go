package model

import "time"

// Post is a resolved issue report as surfaced by the community feed.
type Post struct {
	ID               int64     `json:"id"`
	TrackingID       string    `json:"tracking_id,omitempty"`
	IssueTitle       string    `json:"issue_title"`
	IssueDescription string    `json:"issue_description"`
	Department       string    `json:"department"`
	Location         string    `json:"location"`
	Status           string    `json:"status,omitempty"`
	IssueDate        time.Time `json:"issue_date"`
	UpdatedAt        time.Time `json:"updated_at"`
	UserName         string    `json:"user_name,omitempty"`
	Username         string    `json:"username,omitempty"`
	FirstName        string    `json:"first_name,omitempty"`
	LastName         string    `json:"last_name,omitempty"`
	FullName         string    `json:"full_name,omitempty"`
	LikesCount       int64     `json:"likes_count"`
	DislikesCount    int64     `json:"dislikes_count"`
	IsLiked          bool      `json:"is_liked"`
	IsDisliked       bool      `json:"is_disliked"`
}

// Reaction is the part of a post the viewer can change.
type Reaction struct {
	LikesCount    int64 `json:"likes_count"`
	DislikesCount int64 `json:"dislikes_count"`
	IsLiked       bool  `json:"is_liked"`
	IsDisliked    bool  `json:"is_disliked"`
}

func (p Post) Reaction() Reaction {
	return Reaction{
		LikesCount:    p.LikesCount,
		DislikesCount: p.DislikesCount,
		IsLiked:       p.IsLiked,
		IsDisliked:    p.IsDisliked,
	}
}

func (p *Post) SetReaction(r Reaction) {
	p.LikesCount = r.LikesCount
	p.DislikesCount = r.DislikesCount
	p.IsLiked = r.IsLiked
	p.IsDisliked = r.IsDisliked
}

// AuthorName picks the best display name the backend sent.
func (p Post) AuthorName() string {
	switch {
	case p.UserName != "":
		return p.UserName
	case p.FullName != "":
		return p.FullName
	case p.FirstName != "" && p.LastName != "":
		return p.FirstName + " " + p.LastName
	case p.Username != "":
		return p.Username
	}
	return "Community Member"
}
