package handler

import (
	"errors"
	"net/http"

	"github.com/ReportMitra/citizen-client/internal/apiclient"
	"github.com/ReportMitra/citizen-client/internal/dto"
	"github.com/ReportMitra/citizen-client/internal/model"
	"github.com/gin-gonic/gin"
)

const loginRoute = "/login"

func (h *Handler) authLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.Auth.Login(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionStatus{Authenticated: true, User: user})
}

func (h *Handler) authRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.Auth.Register(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SessionStatus{Authenticated: true, User: user})
}

func (h *Handler) authGoogle(c *gin.Context) {
	var input dto.GoogleAuthRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.Auth.GoogleLogin(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SessionStatus{Authenticated: true, User: user})
}

func (h *Handler) authRefresh(c *gin.Context) {
	if err := h.services.Auth.Refresh(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.services.Auth.Status(c.Request.Context()))
}

func (h *Handler) authLogout(c *gin.Context) {
	if err := h.services.Auth.Logout(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LogoutResponse{RedirectTo: loginRoute})
}

func (h *Handler) authMe(c *gin.Context) {
	user, err := h.services.Auth.Me(c.Request.Context())
	if err != nil {
		if cached, ok := c.Get("user"); ok && !errors.Is(err, apiclient.ErrUnauthenticated) {
			h.logger.Sugar().Warnf("failed to refresh current user, serving stored one: %s", err.Error())
			c.JSON(http.StatusOK, cached.(model.User))
			return
		}
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) authSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Auth.Status(c.Request.Context()))
}
