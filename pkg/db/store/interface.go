package store

import (
	"context"
	"errors"

	"github.com/mwantia/lensdb/pkg/db/migrations"
	"github.com/mwantia/lensdb/pkg/db/models"
)

// ErrLensNotFound is returned when no lens carries the requested id.
var ErrLensNotFound = errors.New("lens not found")

// LensStore defines the interface for lens catalog persistence
type LensStore interface {
	// Lifecycle
	Connect(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) ([]int, error)
	MigrationStatus(ctx context.Context) ([]migrations.MigrationStatus, error)
	Rollback(ctx context.Context) (int, error)
	Health(ctx context.Context) error

	// Lens operations
	CreateLens(ctx context.Context, lens *models.Lens) error
	GetLens(ctx context.Context, id uint) (*models.Lens, error)
	ListLenses(ctx context.Context) ([]models.Lens, error)
	SaveLens(ctx context.Context, lens *models.Lens) error
	DeleteLens(ctx context.Context, id uint) error
	CountLenses(ctx context.Context) (int64, error)

	// ReplaceLenses swaps the whole catalog in one transaction.
	ReplaceLenses(ctx context.Context, lenses []models.Lens) error
}
