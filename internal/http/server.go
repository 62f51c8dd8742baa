package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	config "github.com/mwantia/lensdb/internal/config/server"
	"github.com/mwantia/lensdb/pkg/db/store"
	"github.com/mwantia/lensdb/pkg/lens"
	"github.com/mwantia/lensdb/pkg/log"
	"github.com/mwantia/lensdb/pkg/metrics"
	"github.com/mwantia/lensdb/pkg/query"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the lens catalog and the query protocol over HTTP.
type Server struct {
	cfg     config.HTTPServerConfig
	catalog *query.Catalog
	holder  *lens.Holder
	store   store.LensStore
	metrics *metrics.Metrics
	logger  log.LoggerService
	engine  *gin.Engine
}

type Options struct {
	Config  config.HTTPServerConfig
	Catalog *query.Catalog
	Holder  *lens.Holder
	// Store is optional; when set its health is reported by /healthz.
	Store   store.LensStore
	Metrics *metrics.Metrics
	Logger  log.LoggerService
}

func NewServer(opts Options) *Server {
	if opts.Config.Mode != "" {
		gin.SetMode(opts.Config.Mode)
	}

	s := &Server{
		cfg:     opts.Config,
		catalog: opts.Catalog,
		holder:  opts.Holder,
		store:   opts.Store,
		metrics: opts.Metrics,
		logger:  opts.Logger,
		engine:  gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.observe())
	if corsCfg, ok := corsConfig(opts.Config.CORSOrigins); ok {
		s.engine.Use(cors.New(corsCfg))
	}

	s.routes()
	return s
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}

	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		MaxAge:       12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg, true
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.GET("/lens_data.json", s.lensData)

	api := s.engine.Group("/api/v1")
	api.GET("/predicates", s.listPredicates)
	api.GET("/lenses", s.listLenses)
	api.GET("/lenses/:id", s.getLens)
	api.POST("/queries", s.addQuery)
	api.DELETE("/queries/:name", s.removeQuery)
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening on %s", s.cfg.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// observe records request metrics and logs each request at debug level.
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if s.metrics != nil {
			s.metrics.RecordRequest(c.Request.Method, route, fmt.Sprint(status), time.Since(start).Seconds())
		}
		s.logger.Debug("%s %s %d %s", c.Request.Method, c.Request.URL.RequestURI(), status, time.Since(start))
	}
}
