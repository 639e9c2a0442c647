package model

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusRejected   = "rejected"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	AppealNotAppealed = "not_appealed"
	AppealPending     = "pending"
	AppealAccepted    = "accepted"
	AppealRejected    = "rejected"
)

type Report struct {
	ID                 int64     `json:"id"`
	TrackingID         string    `json:"tracking_id"`
	IssueTitle         string    `json:"issue_title"`
	IssueDescription   string    `json:"issue_description"`
	Location           string    `json:"location"`
	ImageURL           *string   `json:"image_url"`
	CompletionURL      *string   `json:"completion_url"`
	IssueDate          time.Time `json:"issue_date"`
	UpdatedAt          time.Time `json:"updated_at"`
	Status             string    `json:"status"`
	Department         string    `json:"department"`
	AppealStatus       string    `json:"appeal_status"`
	CanAppeal          bool      `json:"can_appeal"`
	TrustScoreDelta    int       `json:"trust_score_delta"`
	ReporterFirstName  string    `json:"reporter_first_name,omitempty"`
	ReporterMiddleName *string   `json:"reporter_middle_name,omitempty"`
	ReporterLastName   string    `json:"reporter_last_name,omitempty"`
}

// TrackedReport is a tracking ID the citizen looked up, with the status seen last.
type TrackedReport struct {
	TrackingID    string    `json:"tracking_id"`
	ReportID      int64     `json:"report_id"`
	IssueTitle    string    `json:"issue_title"`
	Status        string    `json:"status"`
	LastCheckedAt time.Time `json:"last_checked_at"`
}
