package app

import (
	apphttp "github.com/yungbote/mongoarchitect-backend/internal/http"
	httpH "github.com/yungbote/mongoarchitect-backend/internal/http/handlers"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Schema  *httpH.SchemaHandler
	Agent   *httpH.AgentHandler
	Compare *httpH.CompareHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Schema:  httpH.NewSchemaHandler(services.Schemas),
		Agent:   httpH.NewAgentHandler(services.Agent),
		Compare: httpH.NewCompareHandler(services.Compare),
	}
}

func wireServer(cfg Config, log *logger.Logger, metrics *observability.Metrics, handlers Handlers) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins,
		SchemaHandler:  handlers.Schema,
		AgentHandler:   handlers.Agent,
		CompareHandler: handlers.Compare,
		HealthHandler:  handlers.Health,
	})
}
