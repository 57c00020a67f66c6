package sourcingengine

import (
	"log/slog"

	httpadapter "aucta/contexts/wg-operations/sourcing-engine/adapters/http"
	"aucta/contexts/wg-operations/sourcing-engine/adapters/memory"
	"aucta/contexts/wg-operations/sourcing-engine/application"
	"aucta/contexts/wg-operations/sourcing-engine/application/workers"
	"aucta/contexts/wg-operations/sourcing-engine/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Monitor workers.SLAMonitor
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Audit      ports.AuditSink
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Outbox: deps.Outbox,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Audit:  deps.Audit,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
		Monitor: workers.SLAMonitor{
			Service: service,
			Repo:    deps.Repository,
			Clock:   deps.Clock,
			Logger:  deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
