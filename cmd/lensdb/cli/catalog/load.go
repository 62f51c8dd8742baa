package catalog

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/lensdb/internal/agent"
	config "github.com/mwantia/lensdb/internal/config/server"
	"github.com/mwantia/lensdb/internal/source"
	"github.com/mwantia/lensdb/pkg/db/store"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/log"
)

// loadRecords reads the configured collection. Log output goes to w so it
// never mixes with command output.
func loadRecords(ctx context.Context, w io.Writer) ([]lens.Record, error) {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := log.NewLoggerServiceWithWriter("lensdb", cfg.Log, w)

	var st store.LensStore
	if cfg.Data.Source == config.DataSourceSQLite {
		sqlite, err := agent.OpenStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		defer sqlite.Close()
		st = sqlite
	}

	loader, err := source.NewLoader(cfg, st, logger)
	if err != nil {
		return nil, err
	}
	return loader.Load(ctx)
}
