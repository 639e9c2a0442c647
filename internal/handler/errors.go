package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/reaction"
	"github.com/ReportMitra/citizen-client/internal/service"
	"github.com/gin-gonic/gin"
)

var (
	errNotAuthorized  = errors.New("user is not authorized")
	errInvalidPostID  = errors.New("invalid post ID")
	errInvalidID      = errors.New("invalid ID")
	errLimitMustBeInt = errors.New("limit must be int")
)

// statusFor maps the client's error taxonomy onto a response status.
func statusFor(err error) int {
	var verr *apiclient.ValidationError
	switch {
	case errors.Is(err, apiclient.ErrUnauthenticated), errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmptyComment),
		errors.Is(err, service.ErrTrackingIDRequired),
		errors.Is(err, service.ErrInvalidAadhaar),
		errors.Is(err, reaction.ErrInvalidKind):
		return http.StatusBadRequest
	case errors.As(err, &verr):
		return verr.Status
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, apiclient.ErrNetwork):
		return http.StatusServiceUnavailable
	case errors.Is(err, apiclient.ErrServer):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)

	var verr *apiclient.ValidationError
	if errors.As(err, &verr) && len(verr.Fields) > 0 {
		c.JSON(status, dto.NewValidationResponse(verr.Error(), verr.Fields))
		return
	}

	details := err.Error()
	switch {
	case errors.Is(err, service.ErrInteractionFailed):
		details = service.ErrInteractionFailed.Error()
	case errors.Is(err, service.ErrCommentFailed):
		details = service.ErrCommentFailed.Error()
	case status == http.StatusInternalServerError:
		h.logger.Sugar().Errorf("unhandled error on %s %s: %s", c.Request.Method, c.FullPath(), err.Error())
		details = service.ErrInternal.Error()
	}

	c.JSON(status, dto.NewBasicResponse(false, details))
}
