package dto

type CreateReportRequest struct {
	IssueTitle       string `json:"issue_title" binding:"required,max=80"`
	IssueDescription string `json:"issue_description" binding:"required,max=500"`
	Location         string `json:"location" binding:"required,max=500"`
	ImageURL         string `json:"image_url,omitempty"`
	Department       string `json:"department,omitempty"`
}

type PresignUploadResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type AppealResponse struct {
	Detail       string `json:"detail,omitempty"`
	AppealStatus string `json:"appeal_status,omitempty"`
}

type AadhaarVerifyRequest struct {
	AadhaarNumber string `json:"aadhaar_number" binding:"required"`
}

type AadhaarVerifyResponse struct {
	Verified      bool           `json:"verified"`
	AadhaarNumber string         `json:"aadhaar_number,omitempty"`
	Aadhaar       map[string]any `json:"aadhaar,omitempty"`
	Error         string         `json:"error,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type PresignUploadRequest struct {
	Filename    string `form:"filename" binding:"required"`
	ContentType string `form:"content_type" binding:"required"`
}
