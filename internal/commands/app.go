package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/SscSPs/ledger_engine/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_engine/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/platform/cache"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/redis/go-redis/v9"
)

// app is the wired application shared by the subcommands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	uow      portsrepo.UnitOfWork
	redis    *redis.Client
	services *portssvc.ServiceContainer
	closers  []func()
}

// newLogger builds a JSON logger in production and a text logger otherwise.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.IsProduction {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// buildApp opens storage and the optional cache and wires the services.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on exit")
		a.uow = memory.New()
	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { database.ClosePgxPool(pool, logger) })
		a.uow = pgsql.NewStore(pool, pgsql.WithMaxRetries(cfg.SequenceMaxRetries))
	}

	opts := services.ContainerOptions{
		DocumentPrefixes: documentPrefixes(cfg.SequencePrefixes),
	}

	if cfg.RedisURL != "" {
		client, err := cache.New(ctx, cfg.RedisURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.redis = client
		a.closers = append(a.closers, func() { _ = client.Close() })
		opts.BalanceCache = cache.NewBalanceCache(client, cfg.BalanceCacheTTL)
		logger.Info("Balance cache enabled", slog.Duration("ttl", cfg.BalanceCacheTTL))
	}

	decomposer, err := services.NewDecomposer(cfg.VarianceDecomposer, cfg.VarianceRatios)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("variance decomposer: %w", err)
	}
	opts.Decomposer = decomposer

	a.services = services.NewContainer(a.uow, opts)
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func documentPrefixes(raw map[string]string) map[domain.DocumentType]string {
	out := make(map[domain.DocumentType]string, len(raw))
	for k, v := range raw {
		out[domain.DocumentType(k)] = v
	}
	return out
}
