package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lingualeap-backend/internal/http"
	httpH "github.com/yungbote/lingualeap-backend/internal/http/handlers"
	"github.com/yungbote/lingualeap-backend/internal/observability"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Lesson *httpH.LessonHandler
}

func wireHandlers(log *logger.Logger, theDB *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := theDB.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health: httpH.NewHealthHandler(pinger),
		Lesson: httpH.NewLessonHandler(services.Lesson),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	return http.NewServer(http.RouterConfig{
		HealthHandler: handlers.Health,
		LessonHandler: handlers.Lesson,
		Metrics:       metrics,
		Log:           log,
		CORSOrigins:   cfg.CORSOrigins,
		ServiceName:   cfg.ServiceName,
	})
}
