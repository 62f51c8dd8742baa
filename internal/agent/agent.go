package agent

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mwantia/fabric/pkg/container"
	config "github.com/mwantia/lensdb/internal/config/server"
	httpapi "github.com/mwantia/lensdb/internal/http"
	"github.com/mwantia/lensdb/internal/source"
	"github.com/mwantia/lensdb/internal/watch"
	"github.com/mwantia/lensdb/pkg/db/store"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/log"
	"github.com/mwantia/lensdb/pkg/metrics"
	"github.com/mwantia/lensdb/pkg/query"
	"golang.org/x/sync/errgroup"
)

type LensAgent struct {
	mutex sync.RWMutex

	cfg *config.BaseServerConfig
	sc  *container.ServiceContainer
	log log.LoggerService

	holder   *lens.Holder
	store    store.LensStore
	reloader *source.Reloader
	server   *httpapi.Server
	watcher  *watch.FileWatcher
}

func NewAgent(cfg *config.BaseServerConfig) *LensAgent {
	return &LensAgent{
		cfg:    cfg,
		sc:     container.NewServiceContainer(),
		log:    log.NewLoggerService("lensdb", cfg.Log),
		holder: lens.NewHolder(),
	}
}

func (la *LensAgent) setupServices(ctx context.Context) error {
	errs := container.Errors{}

	la.log.Debug("Registering 'LoggerService'...")
	errs.Add(container.Register[log.LoggerServiceImpl](la.sc,
		container.With[log.LoggerService](),
		container.WithInstance(la.log)))

	if la.cfg.Data.Source == config.DataSourceSQLite {
		st, err := OpenStore(ctx, la.cfg)
		if err != nil {
			return err
		}
		la.store = st

		la.log.Debug("Registering 'LensStore'...")
		errs.Add(container.Register[store.SQLiteStore](la.sc,
			container.With[store.LensStore](),
			container.WithInstance(st)))
	}

	if err := errs.Errors(); err != nil {
		return err
	}

	m := metrics.NewMetrics()

	loader, err := source.NewLoader(la.cfg, la.store, la.log.Named("source"))
	if err != nil {
		return err
	}
	la.reloader = source.NewReloader(loader, la.holder, m, la.log.Named("source"))

	la.server = httpapi.NewServer(httpapi.Options{
		Config:  la.cfg.HTTP,
		Catalog: query.Default(),
		Holder:  la.holder,
		Store:   la.store,
		Metrics: m,
		Logger:  la.log.Named("http"),
	})

	if la.cfg.Data.Source == config.DataSourceFile && la.cfg.Data.Watch {
		la.watcher, err = watch.NewFileWatcher(la.cfg.Data.Path, la.cfg.Data.DebounceDuration(),
			la.reloader.Reload, la.log.Named("watch"))
		if err != nil {
			return err
		}
	}

	return nil
}

// OpenStore connects to the configured SQLite database and applies pending
// migrations.
func OpenStore(ctx context.Context, cfg *config.BaseServerConfig) (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(store.SQLiteConfig{Path: cfg.Metadata.SQLite.Path})
	if err != nil {
		return nil, err
	}
	if err := st.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Metadata.SQLite.Path, err)
	}
	if _, err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to migrate %s: %w", cfg.Metadata.SQLite.Path, err)
	}
	return st, nil
}

func (la *LensAgent) Serve(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	la.mutex.Lock()
	if err := la.setupServices(ctx); err != nil {
		la.mutex.Unlock()
		if closeErr := la.closeStore(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return err
	}
	la.mutex.Unlock()

	// A failed initial load leaves the collection empty until the next reload.
	_ = la.reloader.Reload(ctx)

	timeout := la.cfg.ShutdownDuration()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return la.server.Run(gctx, timeout)
	})

	if la.watcher != nil {
		if err := la.watcher.Start(gctx); err != nil {
			la.log.Warn("Reloading on file changes is disabled: %v", err)
		} else {
			g.Go(func() error {
				<-gctx.Done()
				la.watcher.Stop()
				return nil
			})
		}
	}

	g.Go(func() error {
		return la.reloadOnHangup(gctx)
	})

	err := g.Wait()

	shutdown, cancelShutdown := context.WithTimeout(context.Background(), timeout)
	defer cancelShutdown()

	if cleanupErr := la.sc.Cleanup(shutdown); cleanupErr != nil {
		err = errors.Join(err, fmt.Errorf("failed to complete service container cleanup: %w", cleanupErr))
	}
	// No-op when the container already closed it.
	if closeErr := la.closeStore(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}
	return err
}

func (la *LensAgent) closeStore() error {
	if la.store == nil {
		return nil
	}
	if err := la.store.Close(); err != nil {
		return fmt.Errorf("failed to close lens store: %w", err)
	}
	return nil
}

// reloadOnHangup reloads the collection whenever the process receives SIGHUP.
func (la *LensAgent) reloadOnHangup(ctx context.Context) error {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-hup:
			la.log.Info("Received SIGHUP, reloading lenses")
			_ = la.reloader.Reload(ctx)
		}
	}
}

// Snapshot returns the currently served collection.
func (la *LensAgent) Snapshot() *lens.Snapshot {
	la.mutex.RLock()
	defer la.mutex.RUnlock()
	return la.holder.Load()
}
