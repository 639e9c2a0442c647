package handler

import (
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) feedResponse() dto.FeedResponse {
	feed := h.services.Feed
	return dto.FeedResponse{
		Posts:   feed.Posts(),
		HasMore: feed.HasMore(),
		State:   feed.State().String(),
	}
}

// feedGet returns the accumulated feed, loading the first page when nothing is held yet.
func (h *Handler) feedGet(c *gin.Context) {
	feed := h.services.Feed
	if len(feed.Posts()) == 0 && feed.State() == service.PagerIdle {
		if _, err := feed.FetchPage(c.Request.Context(), ""); err != nil {
			h.writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, h.feedResponse())
}

func (h *Handler) feedNext(c *gin.Context) {
	var input dto.LoadMoreRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if _, err := h.services.Feed.LoadMore(c.Request.Context(), input.SentinelVisible); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.feedResponse())
}

func (h *Handler) feedReset(c *gin.Context) {
	h.services.Feed.Reset()

	if _, err := h.services.Feed.FetchPage(c.Request.Context(), ""); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.feedResponse())
}
