package handler

import (
	"net/http"
	"strconv"

	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) reportsCreate(c *gin.Context) {
	var input dto.CreateReportRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	report, err := h.services.Report.Create(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) reportsPresignUpload(c *gin.Context) {
	var input dto.PresignUploadRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	upload, err := h.services.Report.PresignUpload(c.Request.Context(), input.Filename, input.ContentType)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, upload)
}

func (h *Handler) reportsHistory(c *gin.Context) {
	reports, err := h.services.Report.History(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *Handler) reportsAppeal(c *gin.Context) {
	reportID, ok := parseID(c, "reportID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	if err := h.services.Report.Appeal(c.Request.Context(), reportID); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "appeal submitted"))
}

func (h *Handler) reportsImages(c *gin.Context) {
	reportID, ok := parseID(c, "reportID")
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidID.Error()))
		return
	}

	images, err := h.services.Report.Images(c.Request.Context(), reportID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, images)
}

func (h *Handler) reportsTrack(c *gin.Context) {
	report, err := h.services.Report.Track(c.Request.Context(), c.Param("trackingID"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *Handler) reportsTracked(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errLimitMustBeInt.Error()))
			return
		}
		limit = parsed
	}

	reports, err := h.services.Report.Tracked(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

func (h *Handler) reportsUntrack(c *gin.Context) {
	if err := h.services.Report.Untrack(c.Request.Context(), c.Param("trackingID")); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
