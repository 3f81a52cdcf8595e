package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/lingualeap-backend/internal/data/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/data/graph"
	domainagg "github.com/yungbote/lingualeap-backend/internal/domain/aggregates"
	"github.com/yungbote/lingualeap-backend/internal/observability"
	"github.com/yungbote/lingualeap-backend/internal/platform/logger"
	"github.com/yungbote/lingualeap-backend/internal/services"
)

type Services struct {
	LessonGraph domainagg.LessonGraphAggregate
	Lesson      services.LessonService
	Projection  *services.LessonGraphProjection
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	var hooks aggregates.Hooks
	if metrics != nil {
		hooks = aggregates.NewMetricsHooks(metrics)
	}
	graphAgg := aggregates.NewLessonGraphAggregate(aggregates.LessonGraphAggregateDeps{
		Base: aggregates.BaseDeps{
			DB:       theDB,
			Log:      log,
			Runner:   aggregates.NewGormTxRunnerWithLockTimeout(theDB, cfg.LockTimeout),
			Hooks:    hooks,
			CASGuard: aggregates.NewCASGuard(theDB),
		},
		Modules:  reposet.CourseModule,
		Lessons:  reposet.Lesson,
		Edges:    reposet.LessonPrerequisite,
		Progress: reposet.LessonProgress,
	})

	// A nil *Metrics must not become a non-nil interface.
	var eventMetrics services.GraphEventMetrics
	if metrics != nil {
		eventMetrics = metrics
	}

	lessonSvc := services.NewLessonService(log, graphAgg, reposet.CourseModule, reposet.Lesson, reposet.LessonProgress, clients.Events, eventMetrics)
	var projection *services.LessonGraphProjection
	if clients.Neo4j != nil {
		projection = services.NewLessonGraphProjection(log, reposet.Lesson, graph.NewLessonProjector(clients.Neo4j, log), eventMetrics)
	}

	return Services{
		LessonGraph: graphAgg,
		Lesson:      lessonSvc,
		Projection:  projection,
	}
}
