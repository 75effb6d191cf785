package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/ayursutra/ayursutra-backend/internal/db"
	"github.com/ayursutra/ayursutra-backend/internal/handlers"
	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/middleware"
	"github.com/ayursutra/ayursutra-backend/internal/repos"
	"github.com/ayursutra/ayursutra-backend/internal/server"
	"github.com/ayursutra/ayursutra-backend/internal/services"
	"github.com/ayursutra/ayursutra-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file loaded", "error", err)
	}
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	reportsDir := utils.GetEnv("REPORTS_DIR", "reports", log)
	templatesDir := utils.GetEnv("TEMPLATES_DIR", "templates", log)

	// Session store
	var gormDB *gorm.DB
	dbService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Warn("Session store init failed, storage disabled", "error", err)
	} else {
		if err := dbService.AutoMigrateAll(); err != nil {
			log.Warn("Session store auto migration failed", "error", err)
		}
		gormDB = dbService.DB()
	}

	// Repos
	log.Info("Setting up repos from main...")
	var yogaSessionRepo repos.YogaSessionRepo
	if gormDB != nil {
		yogaSessionRepo = repos.NewYogaSessionRepo(gormDB, log)
	}

	// Services
	log.Info("Setting up services from main...")
	tokenVerifier := services.NewJWTVerifier(log, jwtSecretKey)
	storeService := services.NewSessionStoreService(gormDB, log, yogaSessionRepo)
	reportService, err := services.NewReportService(log, reportsDir)
	if err != nil {
		log.Error("Could not init ReportService", "error", err)
		os.Exit(1)
	}
	sessionService := services.NewSessionService(log, reportService, storeService)

	// Handlers
	log.Info("Setting up handlers from main...")
	sessionHandler := handlers.NewSessionHandler(log, sessionService, reportService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, tokenVerifier)

	// Router
	log.Info("Setting up router from main...")
	templatesGlob := templatesDir + "/*"
	if _, err := os.Stat(templatesDir); err != nil {
		log.Warn("Templates directory not found, index page disabled", "dir", templatesDir)
		templatesGlob = ""
	}
	router := server.NewRouter(server.RouterConfig{
		SessionHandler: sessionHandler,
		AuthMiddleware: authMiddleware,
		TemplatesGlob:  templatesGlob,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
