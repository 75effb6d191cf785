package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ayursutra/ayursutra-backend/internal/logger"
	"github.com/ayursutra/ayursutra-backend/internal/types"
	"github.com/ayursutra/ayursutra-backend/internal/utils"
)

type DatabaseService struct {
	db  *gorm.DB
	log *logger.Logger
}

// NewDatabaseService opens the session store. DB_DRIVER=sqlite selects a
// local file store so the backend runs without a postgres instance; the
// persistence gateway treats a failed open as "storage disabled".
func NewDatabaseService(log *logger.Logger) (*DatabaseService, error) {
	serviceLog := log.With("service", "DatabaseService")

	driver := utils.GetEnv("DB_DRIVER", "postgres", log)

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		sqlitePath := utils.GetEnv("SQLITE_PATH", "ayursutra.db", log)
		serviceLog.Info("Opening sqlite session store...", "path", sqlitePath)
		dialector = sqlite.Open(sqlitePath)
	default:
		postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
		postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
		postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
		postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
		postgresName := utils.GetEnv("POSTGRES_NAME", "ayursutra", log)
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)
		serviceLog.Info("Connecting to Postgres...", "host", postgresHost, "database", postgresName)
		dialector = postgres.Open(dsn)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to open session store", "driver", driver, "error", err)
		return nil, fmt.Errorf("Failed to open session store: %w", err)
	}

	return &DatabaseService{db: gormDB, log: serviceLog}, nil
}

func (s *DatabaseService) AutoMigrateAll() error {
	s.log.Info("Auto migrating session store tables...")
	if err := s.db.AutoMigrate(&types.YogaSession{}); err != nil {
		s.log.Error("Auto migration failed for session store tables", "error", err)
		return err
	}
	return nil
}

func (s *DatabaseService) DB() *gorm.DB {
	return s.db
}
