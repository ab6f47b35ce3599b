package commands

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"company-directory/internal/config"
	"company-directory/internal/core"
	"company-directory/internal/handler"
	"company-directory/internal/middleware"
	"company-directory/internal/platform/file"
	"company-directory/internal/platform/kafka"
	"company-directory/internal/platform/postgres"
	"company-directory/internal/service"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the companies dataset over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

// runServer blocks until ctx is done and the server has shut down.
func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	// Record source
	var source core.RecordSource
	switch cfg.Source.Kind {
	case config.SourcePostgres:
		db, err := initDB(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer db.Close()

		repo := postgres.NewRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		logger.Info("Database migrations completed")
		source = repo
	default:
		fs := file.NewSource(cfg.Source.Path, logger)
		if cfg.Source.Watch {
			g.Go(func() error { return fs.Watch(gctx) })
		}
		source = fs
	}

	// Event producer
	var producer core.EventProducer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	} else {
		producer = kafka.NewNoOpProducer()
	}
	defer producer.Close()

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(reg)

	svc := service.NewCatalogService(source, producer, logger)
	router := handler.NewRouter(
		handler.NewHandler(svc, metrics, logger),
		handler.NewHealthHandler(map[string]handler.Pinger{"source": svc}, logger),
		handler.RouterConfig{
			Logger:   logger,
			Metrics:  metrics,
			Gatherer: reg,
			Limiter:  middleware.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
			Timeout:  cfg.Server.WriteTimeout,
		},
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g.Go(func() error {
		logger.Info("Server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("source", string(cfg.Source.Kind)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.Info("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}

func initDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// Verify connection
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
