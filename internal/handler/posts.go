package handler

import (
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/reaction"
	"github.com/ReportMitra/citizen-client/internal/service"
	"github.com/gin-gonic/gin"
)

// openView returns the open view of the post, opening it first when there
// is none or when fresh is set.
func (h *Handler) openView(c *gin.Context, fresh bool) (*service.DetailView, bool) {
	postID, ok := parseID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return nil, false
	}

	if view, ok := h.services.Detail.Get(postID); ok && !fresh {
		return view, true
	}

	view, err := h.services.Detail.Open(c.Request.Context(), postID)
	if err != nil {
		h.writeError(c, err)
		return nil, false
	}

	return view, true
}

func (h *Handler) postsGetByID(c *gin.Context) {
	view, ok := h.openView(c, true)
	if !ok {
		return
	}

	detail, ok := view.Snapshot()
	if !ok {
		h.writeError(c, service.ErrPostNotFound)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *Handler) postsCloseView(c *gin.Context) {
	postID, ok := parseID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	h.services.Detail.Close(postID)

	c.Status(http.StatusNoContent)
}

func (h *Handler) postsLike(c *gin.Context) {
	h.postsToggle(c, reaction.Like)
}

func (h *Handler) postsDislike(c *gin.Context) {
	h.postsToggle(c, reaction.Dislike)
}

func (h *Handler) postsToggle(c *gin.Context, kind reaction.Kind) {
	postID, ok := parseID(c, "postID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPostID.Error()))
		return
	}

	post, err := h.services.Interaction.Toggle(c.Request.Context(), kind, postID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
