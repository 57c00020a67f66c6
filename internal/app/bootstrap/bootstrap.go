package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	performanceanalytics "aucta/contexts/internal-ops/performance-analytics"
	analyticspostgres "aucta/contexts/internal-ops/performance-analytics/adapters/postgres"
	shipmentregistry "aucta/contexts/logistics-core/shipment-registry"
	registrypostgres "aucta/contexts/logistics-core/shipment-registry/adapters/postgres"
	assignmentdesk "aucta/contexts/wg-operations/assignment-desk"
	deskpostgres "aucta/contexts/wg-operations/assignment-desk/adapters/postgres"
	deskworkers "aucta/contexts/wg-operations/assignment-desk/application/workers"
	hubcapacity "aucta/contexts/wg-operations/hub-capacity"
	hubpostgres "aucta/contexts/wg-operations/hub-capacity/adapters/postgres"
	hubworkers "aucta/contexts/wg-operations/hub-capacity/application/workers"
	sourcingengine "aucta/contexts/wg-operations/sourcing-engine"
	sourcingpostgres "aucta/contexts/wg-operations/sourcing-engine/adapters/postgres"
	sourcingworkers "aucta/contexts/wg-operations/sourcing-engine/application/workers"
	contractsv1 "aucta/contracts/gen/events/v1"
	"aucta/internal/platform/audit"
	"aucta/internal/platform/config"
	"aucta/internal/platform/db"
	"aucta/internal/platform/httpserver"
	"aucta/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const sourcingEventsTopic = "wg.sourcing.events"

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	kafka        *messaging.KafkaPublisher
	holdReaper   hubworkers.HoldReaper
	slaMonitor   sourcingworkers.SLAMonitor
	outboxRelay  sourcingworkers.OutboxRelay
	statsUpdater deskworkers.StatsUpdater
	cfg          config.Config
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	recorder := audit.Recorder{Logger: logger}

	registryRepo := registrypostgres.NewRepository(pg.DB, logger)
	registryModule := shipmentregistry.NewModule(shipmentregistry.Dependencies{
		Repository: registryRepo,
		Clock:      registrypostgres.SystemClock{},
		IDGen:      registrypostgres.UUIDGenerator{},
		Audit:      recorder,
		Logger:     logger,
	})

	sourcingRepo := sourcingpostgres.NewRepository(pg.DB, logger)
	sourcingModule := sourcingengine.NewModule(sourcingengine.Dependencies{
		Repository: sourcingRepo,
		Outbox:     sourcingRepo,
		Clock:      sourcingpostgres.SystemClock{},
		IDGen:      sourcingpostgres.UUIDGenerator{},
		Audit:      recorder,
		Logger:     logger,
	})

	hubRepo := hubpostgres.NewRepository(pg.DB, logger)
	hubModule := hubcapacity.NewModule(hubcapacity.Dependencies{
		Repository: hubRepo,
		Clock:      hubpostgres.SystemClock{},
		IDGen:      hubpostgres.UUIDGenerator{},
		Audit:      recorder,
		Logger:     logger,
	})

	deskRepo := deskpostgres.NewRepository(pg.DB, logger)
	// Cross-context wiring happens here only: the hub and sourcing services
	// satisfy the desk's ports structurally.
	deskModule := assignmentdesk.NewModule(assignmentdesk.Dependencies{
		Repository: deskRepo,
		Capacity:   hubModule.Service,
		Sourcing:   sourcingModule.Service,
		Clock:      deskpostgres.SystemClock{},
		IDGen:      deskpostgres.UUIDGenerator{},
		Audit:      recorder,
		Logger:     logger,
	})

	analyticsRepo := analyticspostgres.NewRepository(pg.DB, logger)
	analyticsModule := performanceanalytics.NewModule(performanceanalytics.Dependencies{
		Repository: analyticsRepo,
		Clock:      analyticspostgres.SystemClock{},
		Logger:     logger,
	})

	server := httpserver.New(
		registryModule,
		sourcingModule,
		hubModule,
		deskModule,
		analyticsModule,
		pg,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	recorder := audit.Recorder{Logger: logger}

	sourcingRepo := sourcingpostgres.NewRepository(pg.DB, logger)
	sourcingModule := sourcingengine.NewModule(sourcingengine.Dependencies{
		Repository: sourcingRepo,
		Outbox:     sourcingRepo,
		Clock:      sourcingpostgres.SystemClock{},
		IDGen:      sourcingpostgres.UUIDGenerator{},
		Audit:      recorder,
		Logger:     logger,
	})

	analyticsRepo := analyticspostgres.NewRepository(pg.DB, logger)
	analyticsModule := performanceanalytics.NewModule(performanceanalytics.Dependencies{
		Repository: analyticsRepo,
		Clock:      analyticspostgres.SystemClock{},
		Logger:     logger,
	})

	// The analytics consumer rides the in-process bus; the relay fans out to
	// kafka as well when a broker is configured.
	bus := messaging.NewInProcessBus(logger)
	if err := bus.Subscribe(context.Background(), sourcingEventsTopic, "performance-analytics-cg", analyticsModule.Service.HandleEvent); err != nil {
		return nil, err
	}

	var publisher messaging.Publisher = bus
	var kafka *messaging.KafkaPublisher
	if cfg.KafkaEnabled {
		kafka = messaging.NewKafkaPublisher(cfg.KafkaBrokers, logger)
		publisher = fanoutPublisher{bus, kafka}
	}

	hubRepo := hubpostgres.NewRepository(pg.DB, logger)
	deskRepo := deskpostgres.NewRepository(pg.DB, logger)

	return &WorkerApp{
		postgres: pg,
		kafka:    kafka,
		holdReaper: hubworkers.HoldReaper{
			Slots:  hubRepo,
			Clock:  hubpostgres.SystemClock{},
			Logger: logger,
		},
		slaMonitor: sourcingworkers.SLAMonitor{
			Service: sourcingModule.Service,
			Repo:    sourcingRepo,
			Clock:   sourcingpostgres.SystemClock{},
			Logger:  logger,
		},
		outboxRelay: sourcingworkers.OutboxRelay{
			Outbox:    sourcingRepo,
			Publisher: publisher,
			Clock:     sourcingpostgres.SystemClock{},
			Topic:     sourcingEventsTopic,
			BatchSize: 100,
			Logger:    logger,
		},
		statsUpdater: deskworkers.StatsUpdater{
			Repo:      deskRepo,
			BatchSize: 50,
			Logger:    logger,
		},
		cfg:          cfg,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

// fanoutPublisher mirrors every publish to the in-process bus and kafka.
type fanoutPublisher struct {
	bus   messaging.Publisher
	kafka messaging.Publisher
}

func (p fanoutPublisher) Publish(ctx context.Context, topic string, event contractsv1.Envelope) error {
	if err := p.bus.Publish(ctx, topic, event); err != nil {
		return err
	}
	return p.kafka.Publish(ctx, topic, event)
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if w.cfg.EnableHoldReaper {
			if err := w.holdReaper.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableSLAMonitor {
			if err := w.slaMonitor.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableOutboxRelay {
			if err := w.outboxRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnableStatsUpdater {
			if _, err := w.statsUpdater.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.kafka != nil {
		_ = w.kafka.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
