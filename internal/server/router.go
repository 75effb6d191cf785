package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ayursutra/ayursutra-backend/internal/handlers"
	"github.com/ayursutra/ayursutra-backend/internal/middleware"
)

type RouterConfig struct {
	SessionHandler *handlers.SessionHandler
	AuthMiddleware *middleware.AuthMiddleware
	TemplatesGlob  string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	if cfg.TemplatesGlob != "" {
		router.LoadHTMLGlob(cfg.TemplatesGlob)
		router.GET("/", cfg.SessionHandler.Index)
	}

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/download_report", cfg.SessionHandler.DownloadReport)
	router.GET("/session_status", cfg.SessionHandler.SessionStatus)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.POST("/start_session", cfg.SessionHandler.StartSession)
	protected.POST("/log_pose", cfg.SessionHandler.LogPose)
	protected.POST("/end_session", cfg.SessionHandler.EndSession)

	return router
}
