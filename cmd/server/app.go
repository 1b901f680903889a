package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"atm-server/config"
	httpHandler "atm-server/internal/adapter/http/handler"
	"atm-server/internal/adapter/journal"
	"atm-server/internal/adapter/storage/memory"
	pgStorage "atm-server/internal/adapter/storage/postgres"
	redisStorage "atm-server/internal/adapter/storage/redis"
	"atm-server/internal/adapter/tcp"
	"atm-server/internal/core/ports"
	"atm-server/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// app owns every long-lived component of the server.
type app struct {
	cfg        *config.Config
	log        zerolog.Logger
	engine     *service.Engine
	audit      *service.AuditService
	monitor    *service.ActivityMonitor
	dispatcher *tcp.Dispatcher
	ops        *http.Server
	closers    []func()
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (_ *app, err error) {
	a := &app{cfg: cfg, log: log}
	defer func() {
		if err != nil {
			a.close()
		}
	}()

	var (
		store    ports.Store
		pool     pgStorage.Pool
		checkers []ports.HealthChecker
		limiter  ports.ConnectionLimiter
	)

	switch cfg.Storage.Driver {
	case "postgres":
		pgPool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		a.closers = append(a.closers, pgPool.Close)
		pool = pgPool
		store = pgStorage.NewStore(pgPool, log)
		checkers = append(checkers, pgStorage.NewHealthCheck(pgPool))
	default:
		store = memory.NewStore()
		log.Warn().Msg("Using in-memory storage, balances are lost on restart")
	}

	initialReserve, err := decimal.NewFromString(cfg.Bank.InitialReserve)
	if err != nil {
		return nil, fmt.Errorf("bank.initial_reserve: %w", err)
	}
	if err := store.EnsureSchema(ctx, initialReserve); err != nil {
		return nil, fmt.Errorf("initialising store: %w", err)
	}

	policy, err := service.NewPolicy(cfg.Bank)
	if err != nil {
		return nil, err
	}
	a.engine = service.NewEngine(store, service.NewArgon2HashService(), policy, log)

	j, err := journal.Open(cfg.Audit.ClientFile, cfg.Audit.BankFile)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { j.Close() })
	sinks := []ports.AuditSink{j}
	if cfg.Audit.Persist && pool != nil {
		sinks = append(sinks, pgStorage.NewAuditRepo(pool))
	}
	a.audit = service.NewAuditService(log, sinks...)
	a.closers = append(a.closers, a.audit.Close)

	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		a.closers = append(a.closers, func() { rdb.Close() })
		checkers = append(checkers, redisStorage.NewHealthCheck(rdb))
		if cfg.RateLimit.Enabled {
			limiter = redisStorage.NewConnectionRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window)
		}
	}

	a.monitor = service.NewActivityMonitor(log, cfg.Monitor.Interval, checkers...)

	a.dispatcher = tcp.NewDispatcher(a.engine, a.audit, sessionConfig(cfg), log).
		WithObserver(a.monitor)
	if limiter != nil {
		a.dispatcher.WithLimiter(limiter)
	}

	if cfg.Ops.Enabled {
		router := httpHandler.SetupRouter(httpHandler.RouterDeps{
			Engine:         a.engine,
			Metrics:        a.monitor,
			HealthCheckers: checkers,
			Limiter:        limiter,
			MinIDLength:    cfg.Bank.MinIdentifierLength,
			Logger:         log,
		})
		a.ops = &http.Server{
			Addr:              cfg.Ops.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	return a, nil
}

func sessionConfig(cfg *config.Config) tcp.SessionConfig {
	return tcp.SessionConfig{
		InfoDelay:           cfg.Server.InfoDelay,
		MinIdentifierLength: cfg.Bank.MinIdentifierLength,
		PINLength:           cfg.Bank.PINLength,
		MaxPINAttempts:      cfg.Bank.MaxPINAttempts,
		MaxAmountAttempts:   cfg.Bank.MaxAmountAttempts,
		CurrencySymbol:      cfg.Bank.CurrencySymbol,
	}
}

// serve runs the ATM listener and the ops endpoint until ctx is cancelled
// or one of them fails, then shuts them down.
func (a *app) serve(ctx context.Context, l net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if a.cfg.Monitor.Enabled {
		if err := a.monitor.Start(); err != nil {
			return fmt.Errorf("starting monitor: %w", err)
		}
		defer a.monitor.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return a.dispatcher.Serve(gctx, l)
	})

	if a.ops != nil {
		g.Go(func() error {
			a.log.Info().Str("addr", a.ops.Addr).Msg("Ops endpoint listening")
			if err := a.ops.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("ops endpoint: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Info().Msg("Shutting down server...")

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancelShutdown()

		if err := a.dispatcher.Shutdown(shutdownCtx); err != nil {
			a.log.Error().Err(err).Msg("Sessions forced to close")
		}
		if a.ops != nil {
			if err := a.ops.Shutdown(shutdownCtx); err != nil {
				a.log.Error().Err(err).Msg("Ops endpoint forced to shutdown")
			}
		}
		return nil
	})

	return g.Wait()
}

// close releases components in reverse order of construction, so the audit
// queue drains before the journal closes.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
