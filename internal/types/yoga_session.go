package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type YogaSession struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            string            `gorm:"not null;index" json:"uid"`
	DisplayName       string            `gorm:"not null" json:"display_name"`
	PointsAwarded     int               `gorm:"not null" json:"points_awarded"`
	SessionEndTime    time.Time         `gorm:"not null" json:"session_end_time"`
	DurationSeconds   float64           `gorm:"not null" json:"duration_seconds"`
	AverageConfidence float64           `gorm:"not null" json:"average_confidence"`
	ReportSummary     datatypes.JSONMap `json:"report_summary"`
	ReportGenerated   bool              `gorm:"not null;default:false" json:"report_generated"`
	CreatedAt         time.Time         `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt         gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (YogaSession) TableName() string { return "yoga_session" }
