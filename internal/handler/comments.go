package handler

import (
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) commentsGet(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	comments, err := h.services.Comment.List(c.Request.Context(), postID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

func (h *Handler) commentsCreate(c *gin.Context) {
	var input dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	view, ok := h.openView(c, false)
	if !ok {
		return
	}

	comment, err := h.services.Comment.Submit(c.Request.Context(), view, input.Text)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}
