package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitGormDB opens the SQLite file at path with write-ahead logging, foreign
// keys and a busy timeout enabled on every pooled connection.
func InitGormDB(path string, logger *zap.SugaredLogger) (*gorm.DB, error) {
	dsn := path + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	return Open(sqlite.Open(dsn), logger)
}

// Open initializes a GORM instance on top of an arbitrary dialector
func Open(dialector gorm.Dialector, logger *zap.SugaredLogger) (*gorm.DB, error) {
	gormLogger := gormlogger.New(
		zap.NewStdLog(logger.Desugar()),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	sqlDB.SetMaxIdleConns(4)
	sqlDB.SetMaxOpenConns(16)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// enable write-ahead logging so readers are not blocked by the writer
	if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
		logger.Warnw("failed to set WAL mode", "error", err)
	}
	if err := db.Exec("PRAGMA foreign_keys=ON;").Error; err != nil {
		logger.Warnw("failed to enable foreign keys", "error", err)
	}

	logger.Infow("database initialized", "dialector", dialector.Name())
	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
