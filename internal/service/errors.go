package service

import "errors"

var (
	ErrInternal           = errors.New("internal error")
	ErrPostNotFound       = errors.New("post not found")
	ErrReportNotFound     = errors.New("report not found, please check your tracking ID")
	ErrInteractionFailed  = errors.New("failed to update, please try again")
	ErrCommentFailed      = errors.New("failed to post comment, please try again")
	ErrEmptyComment       = errors.New("comment must not be empty")
	ErrTrackingIDRequired = errors.New("please enter a tracking ID")
	ErrInvalidAadhaar     = errors.New("please provide a valid 12-digit Aadhaar number")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
