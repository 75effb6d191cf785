package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/requestdata"
	"github.com/ayursutra/ayursutra-backend/internal/services"
	"github.com/ayursutra/ayursutra-backend/internal/types"
)

type SessionHandler struct {
	log            *logger.Logger
	sessionService services.SessionService
	reportService  services.ReportService
}

func NewSessionHandler(log *logger.Logger, sessionService services.SessionService, reportService services.ReportService) *SessionHandler {
	handlerLog := log.With("handler", "SessionHandler")
	return &SessionHandler{log: handlerLog, sessionService: sessionService, reportService: reportService}
}

func (sh *SessionHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

func (sh *SessionHandler) StartSession(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authorization token missing or invalid"})
		return
	}

	var body struct {
		UserName string `json:"user_name"`
	}
	// Body is optional; the display name falls back to the token claims.
	_ = c.ShouldBindJSON(&body)

	displayName := strings.TrimSpace(body.UserName)
	if displayName == "" {
		displayName = rd.DisplayName
	}

	sh.sessionService.Start(c.Request.Context(), rd.UserID, displayName)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": fmt.Sprintf("Session started for %s", displayName)})
}

func (sh *SessionHandler) LogPose(c *gin.Context) {
	var body struct {
		PoseData []types.PoseEvent `json:"pose_data"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PoseData == nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid pose data format."})
		return
	}

	appended, active, err := sh.sessionService.Ingest(c.Request.Context(), body.PoseData)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPoseData) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid pose data format."})
			return
		}
		sh.log.Error("Error logging pose data", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to process pose data."})
		return
	}
	if !active {
		c.JSON(http.StatusOK, gin.H{"status": "info", "message": "Session is not active."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": fmt.Sprintf("Logged %d poses.", appended)})
}

func (sh *SessionHandler) EndSession(c *gin.Context) {
	result, err := sh.sessionService.End(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNoActiveSession) {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "No active session or user logged in."})
			return
		}
		sh.log.Error("Failed to end session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to generate session report."})
		return
	}

	storageStatus := "failure"
	if result.StorageOK {
		storageStatus = "success"
	}
	var limitMessage interface{}
	if result.LimitMessage != "" {
		limitMessage = result.LimitMessage
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"message":        fmt.Sprintf("Session ended, %d points awarded.", result.PointsAwarded),
		"report_path":    result.ReportPath,
		"points_awarded": result.PointsAwarded,
		"storage_status": storageStatus,
		"limit_message":  limitMessage,
	})
}

func (sh *SessionHandler) DownloadReport(c *gin.Context) {
	reportPath, ok := sh.reportService.Latest()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "error", "message": "No reports available"})
		return
	}
	c.FileAttachment(reportPath, filepath.Base(reportPath))
}

func (sh *SessionHandler) SessionStatus(c *gin.Context) {
	status := sh.sessionService.Status(c.Request.Context())
	var uid interface{}
	if status.UserID != "" {
		uid = status.UserID
	}
	c.JSON(http.StatusOK, gin.H{
		"session_active":            status.Active,
		"poses_logged":              status.PosesLogged,
		"current_user_uid":          uid,
		"current_user_display_name": status.DisplayName,
	})
}
