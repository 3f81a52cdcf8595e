package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/lingualeap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/lingualeap-backend/internal/http/middleware"
	"github.com/yungbote/lingualeap-backend/internal/observability"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type RouterConfig struct {
	LessonHandler *httpH.LessonHandler
	HealthHandler *httpH.HealthHandler

	Metrics     *observability.Metrics
	Log         *logger.Logger
	CORSOrigins []string
	ServiceName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	httpH.RegisterValidators()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "lingualeap-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins...))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Lessons
		if cfg.LessonHandler != nil {
			api.POST("/lessons", cfg.LessonHandler.CreateLesson)
			api.GET("/lessons/:id", cfg.LessonHandler.GetLesson)
			api.PUT("/lessons/:id", cfg.LessonHandler.UpdateLesson)
			api.PATCH("/lessons/:id/status", cfg.LessonHandler.UpdateLessonStatus)
			api.DELETE("/lessons/:id", cfg.LessonHandler.DeleteLesson)
			api.POST("/lessons/:id/prerequisites/:prerequisiteId", cfg.LessonHandler.AddPrerequisite)
			api.DELETE("/lessons/:id/prerequisites/:prerequisiteId", cfg.LessonHandler.RemovePrerequisite)
			api.GET("/lessons/:id/completed", cfg.LessonHandler.IsLessonCompleted)

			// Module
			api.GET("/modules/:id/lessons", cfg.LessonHandler.ListModuleLessons)
			api.PUT("/modules/:id/lessons/reorder", cfg.LessonHandler.ReorderLessons)
			api.GET("/modules/:id/lessons/available", cfg.LessonHandler.ListAvailableLessons)
		}
	}

	return r
}
