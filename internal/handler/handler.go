package handler

import (
	"strconv"
	"strings"
	"sync"

	"github.com/ReportMitra/citizen-client/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const defaultClientOrigin = "http://localhost:5173"

type Handler struct {
	logger   *zap.Logger
	services *service.Service

	done      chan struct{}
	closeOnce sync.Once
}

func New(logger *zap.Logger, services *service.Service) *Handler {
	return &Handler{
		logger:   logger,
		services: services,
		done:     make(chan struct{}),
	}
}

// Close ends every open /events stream. Call it before shutting the server
// down, which otherwise waits for those streams.
func (h *Handler) Close() {
	h.closeOnce.Do(func() {
		close(h.done)
	})
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	origin := viper.GetString("client.origin")
	if origin == "" {
		origin = defaultClientOrigin
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{origin},
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", h.authLogin)
			auth.POST("/register", h.authRegister)
			auth.POST("/google", h.authGoogle)
			auth.POST("/refresh", h.authRefresh)
			auth.POST("/logout", h.authLogout)
			auth.GET("/me", h.authMiddleware, h.authMe)
			auth.GET("/session", h.authSession)
		}

		feed := v1.Group("/feed")
		{
			feed.GET("", h.feedGet)
			feed.POST("/next", h.feedNext)
			feed.POST("/reset", h.feedReset)
		}

		post := v1.Group("/posts/:postID")
		{
			post.GET("", h.postsGetByID)
			post.DELETE("/view", h.postsCloseView)
			post.POST("/like", h.authMiddleware, h.postsLike)
			post.POST("/dislike", h.authMiddleware, h.postsDislike)
			post.GET("/comments", h.commentsGet)
			post.POST("/comments", h.authMiddleware, h.commentsCreate)
		}

		reports := v1.Group("/reports")
		{
			reports.POST("", h.authMiddleware, h.reportsCreate)
			reports.GET("/history", h.authMiddleware, h.reportsHistory)
			reports.GET("/presign-upload", h.authMiddleware, h.reportsPresignUpload)
			reports.GET("/track/:trackingID", h.reportsTrack)
			reports.GET("/tracked", h.reportsTracked)
			reports.DELETE("/tracked/:trackingID", h.reportsUntrack)

			report := reports.Group("/:reportID")
			{
				report.POST("/appeal", h.authMiddleware, h.reportsAppeal)
				report.GET("/images", h.reportsImages)
			}
		}

		profile := v1.Group("/profile", h.authMiddleware)
		{
			profile.GET("", h.profileGet)
			profile.PUT("", h.profileUpdate)
			profile.POST("/aadhaar", h.profileVerifyAadhaar)
		}

		v1.GET("/health", h.health)
		v1.GET("/events", h.events)
	}

	return r
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(param)), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
