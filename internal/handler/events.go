package handler

import (
	"io"
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/ReportMitra/citizen-client/internal/service"
	"github.com/gin-gonic/gin"
)

const eventBuffer = 64

func (h *Handler) health(c *gin.Context) {
	status := h.services.Health.Check(c.Request.Context())

	code := http.StatusOK
	if status == service.HealthDown {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, dto.HealthResponse{Status: string(status)})
}

// events streams every post written to the store as a "post" server-sent event.
// A client that falls eventBuffer updates behind misses the overflow. The
// stream ends when the client leaves or the handler is closed.
func (h *Handler) events(c *gin.Context) {
	updates := make(chan model.Post, eventBuffer)
	cancel := h.services.Posts.Subscribe(func(p model.Post) {
		select {
		case updates <- p:
		default:
		}
	})
	defer cancel()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case <-h.done:
			return false
		case post := <-updates:
			c.SSEvent("post", post)
			return true
		}
	})
}
