package handler

import (
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) profileGet(c *gin.Context) {
	profile, err := h.services.Profile.Get(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) profileUpdate(c *gin.Context) {
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	profile, err := h.services.Profile.Update(c.Request.Context(), updates)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) profileVerifyAadhaar(c *gin.Context) {
	var input dto.AadhaarVerifyRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	resp, err := h.services.Profile.VerifyAadhaar(c.Request.Context(), input.AadhaarNumber)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
