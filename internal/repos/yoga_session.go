package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/types"
)

type YogaSessionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, sessions []*types.YogaSession) ([]*types.YogaSession, error)
	GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*types.YogaSession, error)
}

type yogaSessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewYogaSessionRepo(db *gorm.DB, baseLog *logger.Logger) YogaSessionRepo {
	repoLog := baseLog.With("repo", "YogaSessionRepo")
	return &yogaSessionRepo{db: db, log: repoLog}
}

func (yr *yogaSessionRepo) Create(ctx context.Context, tx *gorm.DB, sessions []*types.YogaSession) ([]*types.YogaSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = yr.db
	}

	if len(sessions) == 0 {
		return []*types.YogaSession{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&sessions).Error; err != nil {
		return nil, err
	}

	return sessions, nil
}

func (yr *yogaSessionRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []string) ([]*types.YogaSession, error) {
	transaction := tx
	if transaction == nil {
		transaction = yr.db
	}

	var results []*types.YogaSession
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("session_end_time DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
