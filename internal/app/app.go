package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/football-manager/internal/config"
	"github.com/riskibarqy/football-manager/internal/domain/manager"
	"github.com/riskibarqy/football-manager/internal/domain/match"
	"github.com/riskibarqy/football-manager/internal/domain/notification"
	"github.com/riskibarqy/football-manager/internal/infrastructure/notify"
	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/football-manager/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-manager/internal/infrastructure/scheduler"
	"github.com/riskibarqy/football-manager/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-manager/internal/platform/id"
	"github.com/riskibarqy/football-manager/internal/platform/logging"
	"github.com/riskibarqy/football-manager/internal/usecase"
)

const (
	notifyDrainTimeout = 5 * time.Second
	recoverTimeout     = 30 * time.Second
	sweepJobName       = "match-sweep"
)

// App owns the HTTP server and every background component behind it.
type App struct {
	Server *http.Server

	matches   *usecase.MatchService
	sweep     *usecase.SweepService
	scheduler *scheduler.Scheduler
	sweepCfg  sweepSchedule
	logger    *logging.Logger
	closers   []func(ctx context.Context) error
}

type sweepSchedule struct {
	interval time.Duration
	timeout  time.Duration
}

// New builds the service graph. Nothing runs until Start.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{logger: logger}
	ok := false
	defer func() {
		if !ok {
			_ = a.closeAll(context.Background())
		}
	}()

	store, managers, err := a.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.CacheEnabled {
		managers = cache.NewManagerRepository(managers, cfg.CacheTTL)
	}

	notifier, err := a.openNotifier(cfg)
	if err != nil {
		return nil, err
	}

	rules := match.DefaultRules()
	rules.PauseDuration = cfg.MatchPauseDuration
	rules.PauseQuota = cfg.MatchPauseQuota
	ids := id.NewUUIDGenerator()

	simulator := usecase.NewSimulator(store, rules, cfg.MatchTickInterval, logger)
	a.closers = append(a.closers, func(context.Context) error {
		simulator.Shutdown()
		return nil
	})
	settler := usecase.NewSettlementService(store, managers, notifier, logger)
	simulator.SetSettler(settler.SettleQuietly)

	// Practice matches never leave the process. Settlement there only writes
	// the report, and the same sweep job reclaims abandoned ones.
	practiceStore := memory.NewMatchStore()
	practiceSim := usecase.NewSimulator(practiceStore, rules, cfg.MatchTickInterval, logger)
	a.closers = append(a.closers, func(context.Context) error {
		practiceSim.Shutdown()
		return nil
	})
	practiceSettler := usecase.NewSettlementService(practiceStore, managers, nil, logger)
	practiceSim.SetSettler(practiceSettler.SettleQuietly)
	practice := usecase.NewPracticeService(practiceStore, managers, practiceSim, ids, rules, logger)

	sweepCfg := usecase.SweepConfig{
		PrematchTimeout: cfg.SweepPrematchTimeout,
		LiveTimeout:     cfg.SweepLiveTimeout,
		Retention:       cfg.MatchRetention,
		Workers:         cfg.SweepWorkers,
	}
	a.matches = usecase.NewMatchService(store, managers, notifier, simulator, settler, ids, rules, logger)
	a.sweep = usecase.NewSweepService(store, simulator, settler, rules, sweepCfg, logger).
		Include(usecase.NewSweepService(practiceStore, practiceSim, practiceSettler, rules, sweepCfg, logger.With("store", "practice")))
	a.sweepCfg = sweepSchedule{interval: cfg.SweepInterval, timeout: cfg.SweepInterval}

	handler := httpapi.NewHandler(
		a.matches,
		practice,
		usecase.NewManagerService(managers),
		a.sweep,
		logger,
	).WithStreamOrigins(cfg.CORSAllowedOrigins)
	if !cfg.SwaggerEnabled {
		handler = handler.WithoutDocs()
	}

	a.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	ok = true
	return a, nil
}

// Start resumes live matches left by a previous process and schedules the
// periodic sweep.
func (a *App) Start(ctx context.Context) error {
	recoverCtx, cancel := context.WithTimeout(ctx, recoverTimeout)
	defer cancel()
	if err := a.matches.Recover(recoverCtx); err != nil {
		a.logger.ErrorContext(ctx, "match recovery failed", "error", err)
	}

	s, err := scheduler.New(a.logger)
	if err != nil {
		return err
	}
	if err := s.Every(sweepJobName, a.sweepCfg.interval, a.sweepCfg.timeout, func(ctx context.Context) error {
		result, err := a.sweep.Run(ctx)
		if err != nil {
			return err
		}
		if result != (usecase.SweepResult{}) {
			a.logger.InfoContext(ctx, "match sweep completed", "result", result)
		}
		return nil
	}); err != nil {
		return err
	}
	s.Start()
	a.scheduler = s
	return nil
}

// Shutdown stops the scheduler and releases resources in reverse order of
// construction. The HTTP server must already be shut down.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop scheduler: %w", err))
		}
	}
	if err := a.closeAll(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *App) closeAll(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) openStore(ctx context.Context, cfg config.Config) (match.Store, manager.Repository, error) {
	if cfg.StoreBackend != config.StorePostgres {
		return memory.NewMatchStore(), memory.NewManagerRepository(memory.SeedManagers()), nil
	}

	dsn := normalizeDBURL(cfg.DBURL, cfg.ServiceName, cfg.DBBinaryParameters)
	dbName := dbNameFromURL(dsn)
	db, err := otelsqlx.Open("postgres", dsn,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return db.Close() })

	if err := db.PingContext(ctx); err != nil {
		return nil, nil, fmt.Errorf("ping postgres: %w", err)
	}
	otelsql.ReportDBStatsMetrics(db.DB, otelsql.WithDBName(dbName))

	if err := postgres.BootstrapSeed(ctx, db); err != nil {
		return nil, nil, err
	}

	store, err := a.openMatchStore(db, dsn)
	if err != nil {
		return nil, nil, err
	}
	return store, postgres.NewManagerRepository(db), nil
}

func (a *App) openMatchStore(db *sqlx.DB, dsn string) (*postgres.MatchStore, error) {
	store := postgres.NewMatchStore(db)
	listener := postgres.NewListener(dsn, a.logger)
	if err := store.EnableNotifications(listener, a.logger); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen for match changes: %w", err)
	}
	a.closers = append(a.closers, func(context.Context) error { return store.Close() })
	return store, nil
}

func (a *App) openNotifier(cfg config.Config) (notification.Notifier, error) {
	var sink notification.Sink
	switch cfg.Notify.Sink {
	case config.NotifyWebhook:
		webhook, err := notify.NewWebhookSink(notify.WebhookConfig{
			URL:            cfg.Notify.WebhookURL,
			Token:          cfg.Notify.WebhookToken,
			Timeout:        cfg.Notify.WebhookTimeout,
			CircuitBreaker: cfg.Notify.Circuit,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		sink = webhook
	case config.NotifyAMQP:
		amqpSink, err := notify.NewAMQPSink(notify.AMQPConfig{
			URL:      cfg.Notify.AMQPURL,
			Exchange: cfg.Notify.AMQPExchange,
		}, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return amqpSink.Close() })
		sink = amqpSink
	default:
		sink = notify.NewLogSink(a.logger)
	}

	dispatcher, err := notify.NewDispatcher(sink, cfg.Notify.Workers, a.logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func(context.Context) error { return dispatcher.Close(notifyDrainTimeout) })
	return dispatcher, nil
}
