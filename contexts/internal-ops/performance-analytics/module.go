package performanceanalytics

import (
	"log/slog"

	httpadapter "aucta/contexts/internal-ops/performance-analytics/adapters/http"
	"aucta/contexts/internal-ops/performance-analytics/adapters/memory"
	"aucta/contexts/internal-ops/performance-analytics/application"
	"aucta/contexts/internal-ops/performance-analytics/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

type Dependencies struct {
	Repository ports.Repository
	Clock      ports.Clock
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:   deps.Repository,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{Service: service, Logger: deps.Logger},
		Service: service,
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Repository: store,
		Clock:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
