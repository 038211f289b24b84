package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ferg-cod3s/rq-challenge/internal/api"
	"github.com/ferg-cod3s/rq-challenge/internal/core/config"
	"github.com/ferg-cod3s/rq-challenge/internal/health"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/journal"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/journal/postgres"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream"
	"github.com/ferg-cod3s/rq-challenge/internal/infra/upstream/provider"
	"github.com/ferg-cod3s/rq-challenge/internal/orchestrator"
)

// ErrNoDurableJournal is returned when journal history is requested but
// neither Redis nor Postgres is configured.
var ErrNoDurableJournal = errors.New("no durable journal configured")

// Gateway is the main application struct that owns every component and
// their lifecycle.
type Gateway struct {
	cfg      *config.AppConfig
	provider *provider.HTTPProvider
	client   *upstream.Client
	journal  *journal.Journal
	service  *orchestrator.Service
	monitor  *health.Monitor
	api      *api.Server
	grpc     *health.GRPCServer
	redis    *journal.RedisSink
	db       *postgres.DB
	log      *slog.Logger
}

// NewGateway wires all components from cfg. Journal backends are connected
// here; servers are only started by Run.
func NewGateway(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	g := &Gateway{cfg: cfg, log: logger}

	// 1. Upstream transport and client
	g.provider = provider.NewHTTPProvider(cfg.Upstream.Name, cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	g.client = upstream.NewClient(g.provider, cfg.Upstream.Retry, logger)

	// 2. Mutation journal
	sinks := []journal.Sink{journal.NewLogSink(logger)}
	if cfg.Redis.URL != "" {
		sink, err := journal.NewRedisSink(ctx, cfg.Redis)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to init redis journal: %w", err)
		}
		g.redis = sink
		sinks = append(sinks, sink)
		logger.Info("Redis journal enabled", "stream", sink.Stream())
	}
	if cfg.Database.URL != "" {
		db, err := postgres.NewDB(ctx, cfg.Database)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		g.db = db
		if err := db.Migrate(ctx); err != nil {
			g.Close()
			return nil, fmt.Errorf("failed to migrate db: %w", err)
		}
		sinks = append(sinks, postgres.NewSink(db))
		logger.Info("PostgreSQL journal enabled", "driver", cfg.Database.Driver)
	}
	g.journal = journal.New(logger, sinks...)

	// 3. Orchestration
	g.service = orchestrator.NewService(g.client, g.journal, logger)

	// 4. Entry points
	g.monitor = health.NewMonitor(g.client, 2*time.Second)
	apiCfg := api.Config{
		Port:         cfg.Server.Port,
		RateLimit:    cfg.Server.RateLimit,
		RateBurst:    cfg.Server.RateBurst,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	g.api = api.NewServer(api.NewRouter(g.service, g.monitor, apiCfg, logger), apiCfg, logger)
	if cfg.Server.GRPCPort != 0 {
		g.grpc = health.NewGRPCServer(g.monitor, cfg.Server.GRPCPort, 5*time.Second, logger)
	}

	return g, nil
}

// Service returns the orchestration facade.
func (g *Gateway) Service() *orchestrator.Service {
	return g.service
}

// Health returns the current health report.
func (g *Gateway) Health() health.Report {
	return g.monitor.Check()
}

// Run serves HTTP (and gRPC health when configured) until ctx is cancelled,
// then shuts both down within the configured timeout.
func (g *Gateway) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(g.api.Start)
	if g.grpc != nil {
		eg.Go(func() error { return g.grpc.Start(ctx) })
	}

	eg.Go(func() error {
		<-ctx.Done()
		g.log.Info("Stopping gateway...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), g.cfg.Server.ShutdownTimeout)
		defer cancel()

		if g.grpc != nil {
			g.grpc.Stop()
		}
		return g.api.Stop(shutdownCtx)
	})

	return eg.Wait()
}

// RecentEvents returns the newest journal events, preferring Postgres.
func (g *Gateway) RecentEvents(ctx context.Context, limit int) ([]journal.Event, error) {
	switch {
	case g.db != nil:
		return postgres.NewSink(g.db).Recent(ctx, limit)
	case g.redis != nil:
		return g.redis.Recent(ctx, int64(limit))
	default:
		return nil, ErrNoDurableJournal
	}
}

// Close releases journal connections and idle upstream connections.
func (g *Gateway) Close() error {
	var errs []error
	if g.redis != nil {
		if err := g.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if g.db != nil {
		if err := g.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close db: %w", err))
		}
	}
	if g.provider != nil {
		if err := g.provider.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
