package source

import (
	"context"
	"fmt"

	config "github.com/mwantia/lensdb/internal/config/server"
	"github.com/mwantia/lensdb/pkg/db/models"
	"github.com/mwantia/lensdb/pkg/db/store"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/log"
	"github.com/mwantia/lensdb/pkg/metrics"
)

// Loader reads the complete lens collection from one place.
type Loader interface {
	Load(ctx context.Context) ([]lens.Record, error)
	Name() string
}

// FileLoader reads a JSON lens file. In lenient mode malformed entries are
// logged and dropped.
type FileLoader struct {
	Path   string
	Strict bool
	Logger log.LoggerService
}

func (l *FileLoader) Name() string {
	return l.Path
}

func (l *FileLoader) Load(ctx context.Context) ([]lens.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := lens.DecodeFile(l.Path, l.Strict)
	if err != nil {
		return nil, err
	}

	for _, dropped := range result.Dropped {
		l.Logger.Warn("Skipping lens entry in %s: %v", l.Path, dropped)
	}
	return result.Records, nil
}

// StoreLoader reads every lens from the metadata store ordered by id.
type StoreLoader struct {
	Store store.LensStore
	Path  string
}

func (l *StoreLoader) Name() string {
	return "sqlite:" + l.Path
}

func (l *StoreLoader) Load(ctx context.Context) ([]lens.Record, error) {
	lenses, err := l.Store.ListLenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lenses: %w", err)
	}
	return models.Records(lenses), nil
}

// NewLoader picks the loader for cfg.Data.Source. The store is only used for
// the sqlite source and may be nil otherwise.
func NewLoader(cfg *config.BaseServerConfig, st store.LensStore, logger log.LoggerService) (Loader, error) {
	switch cfg.Data.Source {
	case config.DataSourceFile:
		return &FileLoader{Path: cfg.Data.Path, Strict: cfg.Data.Strict, Logger: logger}, nil
	case config.DataSourceSQLite:
		if st == nil {
			return nil, fmt.Errorf("data source '%s' requires a lens store", cfg.Data.Source)
		}
		return &StoreLoader{Store: st, Path: cfg.Metadata.SQLite.Path}, nil
	default:
		return nil, fmt.Errorf("unknown data source '%s'", cfg.Data.Source)
	}
}

// Reloader loads a fresh collection and swaps it into the holder. A failed
// load leaves the current snapshot in place.
type Reloader struct {
	loader  Loader
	holder  *lens.Holder
	metrics *metrics.Metrics
	logger  log.LoggerService
}

func NewReloader(loader Loader, holder *lens.Holder, m *metrics.Metrics, logger log.LoggerService) *Reloader {
	return &Reloader{
		loader:  loader,
		holder:  holder,
		metrics: m,
		logger:  logger,
	}
}

func (r *Reloader) Reload(ctx context.Context) error {
	records, err := r.loader.Load(ctx)
	if r.metrics != nil {
		r.metrics.RecordReload(len(records), err)
	}
	if err != nil {
		r.logger.Error("Failed to load lenses from %s: %v", r.loader.Name(), err)
		return fmt.Errorf("failed to load lenses from %s: %w", r.loader.Name(), err)
	}

	snap := r.holder.Replace(records, r.loader.Name())
	r.logger.Info("Loaded %d lenses from %s", len(snap.Records), snap.Source)
	return nil
}
