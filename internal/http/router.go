package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mongoarchitect-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mongoarchitect-backend/internal/http/middleware"
	"github.com/yungbote/mongoarchitect-backend/internal/observability"
	"github.com/yungbote/mongoarchitect-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	ServiceName    string
	AllowedOrigins []string

	SchemaHandler  *httpH.SchemaHandler
	AgentHandler   *httpH.AgentHandler
	CompareHandler *httpH.CompareHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.CORS(cfg.AllowedOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Schemas
		if cfg.SchemaHandler != nil {
			api.POST("/schemas/generate", cfg.SchemaHandler.Generate)
			api.POST("/schemas/refine", cfg.SchemaHandler.Refine)
			api.GET("/schemas/history", cfg.SchemaHandler.History)
			api.GET("/schemas/:id", cfg.SchemaHandler.Get)
			api.GET("/schemas/:id/lineage", cfg.SchemaHandler.Lineage)
		}

		// Agent
		if cfg.AgentHandler != nil {
			api.POST("/agent/chat", cfg.AgentHandler.Chat)
			api.POST("/agent/reset", cfg.AgentHandler.Reset)
		}

		// Model comparison
		if cfg.CompareHandler != nil {
			api.GET("/compare/models", cfg.CompareHandler.Models)
			api.POST("/compare", cfg.CompareHandler.Compare)
			api.GET("/compare/schemas", cfg.CompareHandler.CompareStored)
		}
	}

	return r
}
