package migrations

import (
	"context"
	"fmt"
	"time"

	"github.com/mwantia/lensdb/pkg/db/models"
	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          func(*gorm.DB) error
	Down        func(*gorm.DB) error
}

// migrationHistory tracks applied migrations
type migrationHistory struct {
	ID          uint   `gorm:"primaryKey"`
	Version     int    `gorm:"uniqueIndex;not null"`
	Description string `gorm:"type:text"`
	AppliedAt   int64  `gorm:"autoCreateTime"`
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

// NewMigrator creates a new migrator instance
func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: allMigrations(),
	}
}

// Migrate runs all pending migrations and returns the versions it applied.
func (m *Migrator) Migrate(ctx context.Context) ([]int, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return nil, fmt.Errorf("failed to create migration history table: %w", err)
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	var ran []int
	for _, migration := range m.migrations {
		if applied[migration.Version] {
			continue
		}

		if err := m.runMigration(ctx, migration); err != nil {
			return ran, fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Description, err)
		}
		ran = append(ran, migration.Version)
	}

	return ran, nil
}

// Rollback rolls back the last applied migration and returns its version.
func (m *Migrator) Rollback(ctx context.Context) (int, error) {
	var last migrationHistory
	if err := m.db.WithContext(ctx).Order("version DESC").First(&last).Error; err != nil {
		return 0, fmt.Errorf("no migrations to rollback: %w", err)
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last.Version {
			migration = &m.migrations[i]
			break
		}
	}

	if migration == nil {
		return 0, fmt.Errorf("migration %d not found", last.Version)
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Down(tx); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		if err := tx.Delete(&last).Error; err != nil {
			return fmt.Errorf("failed to update migration history: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return last.Version, nil
}

// Status returns migration status
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	if err := m.db.WithContext(ctx).AutoMigrate(&migrationHistory{}); err != nil {
		return nil, fmt.Errorf("failed to create migration history table: %w", err)
	}

	var applied []migrationHistory
	if err := m.db.WithContext(ctx).Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	appliedAt := make(map[int]int64, len(applied))
	for _, a := range applied {
		appliedAt[a.Version] = a.AppliedAt
	}

	statuses := make([]MigrationStatus, 0, len(m.migrations))
	for _, migration := range m.migrations {
		status := MigrationStatus{
			Version:     migration.Version,
			Description: migration.Description,
		}
		if ts, ok := appliedAt[migration.Version]; ok {
			status.Applied = true
			status.AppliedAt = time.Unix(ts, 0).UTC()
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// MigrationStatus represents the status of a migration
type MigrationStatus struct {
	Version     int
	Description string
	Applied     bool
	AppliedAt   time.Time
}

func (m *Migrator) appliedVersions(ctx context.Context) (map[int]bool, error) {
	var applied []migrationHistory
	if err := m.db.WithContext(ctx).Find(&applied).Error; err != nil {
		return nil, fmt.Errorf("failed to query migration history: %w", err)
	}

	versions := make(map[int]bool, len(applied))
	for _, a := range applied {
		versions[a.Version] = true
	}
	return versions, nil
}

func (m *Migrator) runMigration(ctx context.Context, migration Migration) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := migration.Up(tx); err != nil {
			return err
		}

		history := migrationHistory{
			Version:     migration.Version,
			Description: migration.Description,
		}
		return tx.Create(&history).Error
	})
}

// initialLens is the lens table as first released, before mount and url
// were tracked.
type initialLens struct {
	ID            uint   `gorm:"primaryKey"`
	Maker         string `gorm:"type:text;not null;index:idx_lens_maker"`
	Name          string `gorm:"type:text;not null"`
	ProductNumber string `gorm:"type:text"`

	WideFocalLength               float64
	TelephotoFocalLength          float64
	WideFNumber                   float64
	TelephotoFNumber              float64
	WideMinFocusDistance          float64
	TelephotoMinFocusDistance     float64
	MaxPhotographingMagnification float64
	FilterDiameter                float64

	IsDripProof           bool `gorm:"default:false"`
	HasImageStabilization bool `gorm:"default:false"`
	IsInnerZoom           bool `gorm:"default:false"`

	OverallDiameter float64
	OverallLength   float64
	Weight          float64
	Price           float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (initialLens) TableName() string {
	return "lenses"
}

// allMigrations returns all migrations in order
func allMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Initial lens table",
			Up: func(db *gorm.DB) error {
				return db.AutoMigrate(&initialLens{})
			},
			Down: func(db *gorm.DB) error {
				return db.Migrator().DropTable("lenses")
			},
		},
		{
			Version:     2,
			Description: "Track lens mount and product page url",
			Up: func(db *gorm.DB) error {
				for _, field := range []string{"Mount", "URL"} {
					if db.Migrator().HasColumn(&models.Lens{}, field) {
						continue
					}
					if err := db.Migrator().AddColumn(&models.Lens{}, field); err != nil {
						return err
					}
				}
				if !db.Migrator().HasIndex(&models.Lens{}, "idx_lens_mount") {
					return db.Migrator().CreateIndex(&models.Lens{}, "idx_lens_mount")
				}
				return nil
			},
			Down: func(db *gorm.DB) error {
				if db.Migrator().HasIndex(&models.Lens{}, "idx_lens_mount") {
					if err := db.Migrator().DropIndex(&models.Lens{}, "idx_lens_mount"); err != nil {
						return err
					}
				}
				for _, field := range []string{"URL", "Mount"} {
					if err := db.Migrator().DropColumn(&models.Lens{}, field); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
