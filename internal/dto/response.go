package dto

import "time"

type BasicResponse struct {
	Ok        bool                `json:"ok"`
	Details   string              `json:"details"`
	Fields    map[string][]string `json:"fields,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// NewValidationResponse keeps the backend's per-field messages so the view can show them next to the field.
func NewValidationResponse(details string, fields map[string][]string) BasicResponse {
	resp := NewBasicResponse(false, details)
	resp.Fields = fields
	return resp
}
