package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/mwantia/lensdb/pkg/db/migrations"
	"github.com/mwantia/lensdb/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const insertBatchSize = 100

// SQLiteStore implements LensStore using SQLite
type SQLiteStore struct {
	db   *gorm.DB
	path string

	closeOnce sync.Once
	closeErr  error
}

// DB returns the underlying GORM database instance
func (s *SQLiteStore) DB() *gorm.DB {
	return s.db
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return s.path
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path     string
	LogLevel logger.LogLevel
}

// NewSQLiteStore creates a new SQLite-backed lens store
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	// Default to silent logging
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Silent
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	return &SQLiteStore{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Connect initializes the database connection
func (s *SQLiteStore) Connect(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(1) // SQLite only supports 1 writer
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection. Later calls return the result of the
// first one.
func (s *SQLiteStore) Close() error {
	s.closeOnce.Do(func() {
		sqlDB, err := s.db.DB()
		if err != nil {
			s.closeErr = fmt.Errorf("failed to get database instance: %w", err)
			return
		}
		s.closeErr = sqlDB.Close()
	})
	return s.closeErr
}

// Cleanup lets the service container close the store on shutdown.
func (s *SQLiteStore) Cleanup() error {
	return s.Close()
}

// Migrate applies pending schema migrations
func (s *SQLiteStore) Migrate(ctx context.Context) ([]int, error) {
	return migrations.NewMigrator(s.db).Migrate(ctx)
}

func (s *SQLiteStore) MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error) {
	return migrations.NewMigrator(s.db).Status(ctx)
}

func (s *SQLiteStore) Rollback(ctx context.Context) (int, error) {
	return migrations.NewMigrator(s.db).Rollback(ctx)
}

// Health checks database connectivity
func (s *SQLiteStore) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Lens operations

func (s *SQLiteStore) CreateLens(ctx context.Context, lens *models.Lens) error {
	return s.db.WithContext(ctx).Create(lens).Error
}

func (s *SQLiteStore) GetLens(ctx context.Context, id uint) (*models.Lens, error) {
	var lens models.Lens
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&lens).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lens %d: %w", id, ErrLensNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &lens, nil
}

func (s *SQLiteStore) ListLenses(ctx context.Context) ([]models.Lens, error) {
	var lenses []models.Lens
	err := s.db.WithContext(ctx).Order("id ASC").Find(&lenses).Error
	return lenses, err
}

// SaveLens inserts the lens or overwrites the row with the same id.
func (s *SQLiteStore) SaveLens(ctx context.Context, lens *models.Lens) error {
	return s.db.WithContext(ctx).Save(lens).Error
}

func (s *SQLiteStore) DeleteLens(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Lens{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lens %d: %w", id, ErrLensNotFound)
	}
	return nil
}

func (s *SQLiteStore) CountLenses(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Lens{}).Count(&count).Error
	return count, err
}

func (s *SQLiteStore) ReplaceLenses(ctx context.Context, lenses []models.Lens) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Lens{}).Error; err != nil {
			return fmt.Errorf("failed to clear lenses: %w", err)
		}
		if len(lenses) == 0 {
			return nil
		}
		assignIDs(lenses)
		if err := tx.CreateInBatches(lenses, insertBatchSize).Error; err != nil {
			return fmt.Errorf("failed to insert lenses: %w", err)
		}
		return nil
	})
}

// assignIDs numbers lenses without an id after the highest id present, so a
// batch never mixes explicit and generated keys.
func assignIDs(lenses []models.Lens) {
	var next uint
	for _, l := range lenses {
		if l.ID > next {
			next = l.ID
		}
	}
	for i := range lenses {
		if lenses[i].ID == 0 {
			next++
			lenses[i].ID = next
		}
	}
}
