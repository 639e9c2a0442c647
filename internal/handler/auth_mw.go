package handler

import (
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	status := h.services.Auth.Status(c.Request.Context())
	if !status.Authenticated {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	if status.User != nil {
		c.Set("user", *status.User)
	}

	c.Next()
}
