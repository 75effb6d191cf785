package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/repos"
	"github.com/ayursutra/ayursutra-backend/internal/stats"
	"github.com/ayursutra/ayursutra-backend/internal/types"
)

// SessionStoreService writes one summary record per completed session to the
// session store. At-most-once, best-effort: any failure is reported as false,
// never as an error, and must not block report delivery.
type SessionStoreService interface {
	Save(ctx context.Context, userID, displayName string, endTime time.Time, summary stats.Summary, points int) bool
}

type sessionStoreService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.YogaSessionRepo
}

func NewSessionStoreService(db *gorm.DB, log *logger.Logger, sessionRepo repos.YogaSessionRepo) SessionStoreService {
	serviceLog := log.With("service", "SessionStoreService")
	return &sessionStoreService{db: db, log: serviceLog, sessionRepo: sessionRepo}
}

func (s *sessionStoreService) Save(ctx context.Context, userID, displayName string, endTime time.Time, summary stats.Summary, points int) bool {
	if s.db == nil || s.sessionRepo == nil {
		s.log.Warn("Session store not configured, skipping write", "uid", userID)
		return false
	}

	record := buildSessionRecord(userID, displayName, endTime, summary, points)
	if _, err := s.sessionRepo.Create(ctx, nil, []*types.YogaSession{record}); err != nil {
		s.log.Error("Failed to write session record", "uid", userID, "error", err)
		return false
	}
	s.log.Info("Session record stored", "uid", userID, "session_id", record.ID)
	return true
}

func buildSessionRecord(userID, displayName string, endTime time.Time, summary stats.Summary, points int) *types.YogaSession {
	counts := datatypes.JSONMap{}
	for _, pc := range summary.PoseCounts {
		counts[pc.Pose] = pc.Count
	}
	return &types.YogaSession{
		ID:                uuid.New(),
		UserID:            userID,
		DisplayName:       displayName,
		PointsAwarded:     points,
		SessionEndTime:    endTime,
		DurationSeconds:   summary.DurationSeconds,
		AverageConfidence: summary.AverageConfidence,
		ReportSummary:     counts,
		ReportGenerated:   true,
	}
}
