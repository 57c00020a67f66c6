package assignmentdesk

import (
	"log/slog"

	httpadapter "aucta/contexts/wg-operations/assignment-desk/adapters/http"
	"aucta/contexts/wg-operations/assignment-desk/adapters/memory"
	"aucta/contexts/wg-operations/assignment-desk/application"
	"aucta/contexts/wg-operations/assignment-desk/application/workers"
	"aucta/contexts/wg-operations/assignment-desk/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Stats   workers.StatsUpdater
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Capacity   ports.CapacityChecker
	Sourcing   ports.SourcingGateway
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Audit      ports.AuditSink
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:     deps.Repository,
		Capacity: deps.Capacity,
		Sourcing: deps.Sourcing,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Audit:    deps.Audit,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Stats: workers.StatsUpdater{
			Repo:   deps.Repository,
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(sourcing ports.SourcingGateway, capacity ports.CapacityChecker, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Capacity:   capacity,
		Sourcing:   sourcing,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
