package history

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists reconciliation runs and their deletion records.
type Store struct {
	db *gorm.DB
}

// Open connects to the configured database and migrates the history schema.
// The store is an audit trail, not an operational dependency: callers should
// degrade to a warning when Open fails.
func Open(cfg Config) (*Store, error) {
	// Suppress GORM logging; warnings surface through the main logger.
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(cfg.Path), gormConfig)
	case "mysql":
		db, err = gorm.Open(mysql.Open(mysqlDSN(cfg)), gormConfig)
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.AutoMigrate(&Run{}, &Deletion{}); err != nil {
		return nil, fmt.Errorf("failed to migrate history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// NewStore wraps an existing connection. Used by tests.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func mysqlDSN(cfg Config) string {
	// Special characters in the password must be URL encoded for the DSN.
	userInfo := url.UserPassword(cfg.User, cfg.Password).String()

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
}

// RecordRun stores a run together with its deletion records.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, without their
// deletion records.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []Run
	err := s.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run with its deletion records, or gorm.ErrRecordNotFound.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).
		Preload("Deletions").
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Prune removes runs older than the retention window, cascading to their
// deletion records. Returns the number of runs removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	var ids []string
	if err := s.db.WithContext(ctx).
		Model(&Run{}).
		Where("started_at < ?", cutoff).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to find expired runs: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).Where("run_id IN ?", ids).Delete(&Deletion{}).Error; err != nil {
		return 0, fmt.Errorf("failed to prune deletion records: %w", err)
	}
	res := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Run{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", res.Error)
	}
	return res.RowsAffected, nil
}
