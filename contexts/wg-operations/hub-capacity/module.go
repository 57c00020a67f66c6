package hubcapacity

import (
	"log/slog"
	"time"

	httpadapter "aucta/contexts/wg-operations/hub-capacity/adapters/http"
	"aucta/contexts/wg-operations/hub-capacity/adapters/memory"
	"aucta/contexts/wg-operations/hub-capacity/application"
	"aucta/contexts/wg-operations/hub-capacity/application/workers"
	"aucta/contexts/wg-operations/hub-capacity/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Reaper  workers.HoldReaper
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Audit      ports.AuditSink
	HoldTTL    time.Duration
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:    deps.Repository,
		Clock:   deps.Clock,
		IDGen:   deps.IDGen,
		Audit:   deps.Audit,
		HoldTTL: deps.HoldTTL,
		Logger:  deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Reaper: workers.HoldReaper{
			Slots:  deps.Repository,
			Clock:  deps.Clock,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		IDGen:      store,
		HoldTTL:    application.DefaultHoldTTL,
		Logger:     logger,
	})
	module.Store = store
	return module
}
